// Package transport provides unreliable datagram carriers for the protocol
// engine. Every carrier preserves message boundaries, may drop or reorder,
// and exposes the same blocking read-with-deadline API.
package transport

import (
	"errors"
	"net"
	"os"
	"time"
)

// maxDatagramSize bounds a single read. It covers the largest UDP payload.
const maxDatagramSize = 65507

// Conn is a datagram endpoint bound to a single peer.
type Conn interface {
	// ReadPacket blocks until a datagram arrives or the deadline passes.
	// A zero deadline blocks indefinitely.
	ReadPacket(deadline time.Time) ([]byte, error)
	// WritePacket sends one datagram to the peer.
	WritePacket(b []byte) error
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
	// Close releases the underlying resource. Repeated calls are no-ops.
	Close() error
}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

var (
	// ErrTimeout is returned by carriers that implement deadlines themselves.
	ErrTimeout error = &timeoutError{}
	// ErrNoPeer is returned when a listening endpoint writes before it has
	// heard from anyone.
	ErrNoPeer = errors.New("no peer address known yet")
	// ErrClosed is returned after Close.
	ErrClosed = net.ErrClosed
)

// IsTimeout reports whether err is a read deadline expiring.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
