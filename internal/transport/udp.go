package transport

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

// UDPConn is a UDP socket used either as a client with a fixed destination
// or as a listening server. A listening socket replies to whoever sent the
// latest datagram.
type UDPConn struct {
	conn      *net.UDPConn
	fixedPeer bool

	mu   sync.Mutex
	peer *net.UDPAddr

	buf []byte

	closeOnce sync.Once
	closeErr  error
}

// DialUDP opens a client socket whose datagrams all go to addr. The socket
// stays unconnected so ICMP port-unreachable replies never surface as read
// errors while the server is not up yet.
func DialUDP(addr string) (*UDPConn, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket for %s: %w", addr, err)
	}
	return &UDPConn{conn: conn, fixedPeer: true, peer: raddr, buf: make([]byte, maxDatagramSize)}, nil
}

// ListenUDP binds a server socket on addr.
func ListenUDP(addr string) (*UDPConn, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &UDPConn{conn: conn, buf: make([]byte, maxDatagramSize)}, nil
}

func (c *UDPConn) ReadPacket(deadline time.Time) ([]byte, error) {
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	n, addr, err := c.conn.ReadFromUDP(c.buf)
	if err != nil {
		return nil, err
	}

	if !c.fixedPeer {
		c.mu.Lock()
		c.peer = addr
		c.mu.Unlock()
	}
	util.Traffic.AddRecv(n)

	data := make([]byte, n)
	copy(data, c.buf[:n])
	return data, nil
}

func (c *UDPConn) WritePacket(b []byte) error {
	c.mu.Lock()
	peer := c.peer
	c.mu.Unlock()
	if peer == nil {
		return ErrNoPeer
	}

	if _, err := c.conn.WriteToUDP(b, peer); err != nil {
		return err
	}
	util.Traffic.AddSent(len(b))
	return nil
}

func (c *UDPConn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// RemoteAddr returns the current peer, or nil if a listening socket has not
// received anything yet.
func (c *UDPConn) RemoteAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.peer == nil {
		return nil
	}
	return c.peer
}

func (c *UDPConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
