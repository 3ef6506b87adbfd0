package util

import (
	"hash/fnv"
	"net"
)

// Endpoint is anything with a local and a remote address.
type Endpoint interface {
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// PeerID computes a 4-byte tag from an endpoint's address pair. It only
// labels log lines; a missing address hashes as an empty string.
func PeerID(e Endpoint) uint32 {
	h := fnv.New32a()
	if a := e.LocalAddr(); a != nil {
		h.Write([]byte(a.String()))
	}
	if a := e.RemoteAddr(); a != nil {
		h.Write([]byte(a.String()))
	}
	return h.Sum32()
}
