package transport

import (
	"net"
	"sync"
	"time"
)

const pipeBufferSize = 256

type pipeAddr string

func (a pipeAddr) Network() string { return "pipe" }
func (a pipeAddr) String() string  { return string(a) }

// pipeConn is one end of an in-memory datagram link.
type pipeConn struct {
	name  string
	inbox chan []byte
	peer  *pipeConn

	done      chan struct{}
	closeOnce sync.Once
}

// Pipe returns two linked in-memory endpoints. A write on one end is
// readable on the other; a full inbox drops the datagram.
func Pipe() (Conn, Conn) {
	a := &pipeConn{name: "pipe-a", inbox: make(chan []byte, pipeBufferSize), done: make(chan struct{})}
	b := &pipeConn{name: "pipe-b", inbox: make(chan []byte, pipeBufferSize), done: make(chan struct{})}
	a.peer = b
	b.peer = a
	return a, b
}

func (p *pipeConn) ReadPacket(deadline time.Time) ([]byte, error) {
	var timeout <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case data := <-p.inbox:
		return data, nil
	case <-timeout:
		return nil, ErrTimeout
	case <-p.done:
		return nil, ErrClosed
	}
}

func (p *pipeConn) WritePacket(b []byte) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	data := make([]byte, len(b))
	copy(data, b)

	select {
	case p.peer.inbox <- data:
	default:
	}
	return nil
}

func (p *pipeConn) LocalAddr() net.Addr  { return pipeAddr(p.name) }
func (p *pipeConn) RemoteAddr() net.Addr { return pipeAddr(p.peer.name) }

func (p *pipeConn) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}
