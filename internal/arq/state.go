// Package arq implements the connection engine: the handshake and teardown
// state machine, the Go-Back-N sender window, the receiver reorder buffer and
// the server-side loss simulator. Each session is owned by a single
// goroutine; none of its state is shared.
package arq

// State is the connection state of one peer.
type State int

const (
	StateInit State = iota
	StateHandshaking
	StateEstablished
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateHandshaking:
		return "HANDSHAKING"
	case StateEstablished:
		return "ESTABLISHED"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
