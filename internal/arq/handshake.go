package arq

import (
	"context"
	"fmt"

	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
)

// ---------------------------------------------------------------------------
// Client side
// ---------------------------------------------------------------------------

// Open performs the three-way handshake: SYN(0,0), wait for SYN+ACK
// resending SYN on every timeout, then ACK(1,1).
func (c *Client) Open(ctx context.Context) error {
	if c.state != StateInit {
		return fmt.Errorf("open: connection is %s", c.state)
	}
	c.setState(StateHandshaking)

	_, err := c.await(ctx, exchange{
		name:       "handshake",
		packet:     protocol.NewPacket(0, 0, protocol.FlagSYN, nil),
		accept:     isSYNACK,
		timeout:    c.cfg.Timeout,
		maxRetries: c.cfg.MaxRetries,
	})
	if err != nil {
		return err
	}

	ack := protocol.NewPacket(1, 1, 0, nil)
	if err := c.send(ack); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	c.sender.handshakeAck = ack

	c.setState(StateEstablished)
	c.log().Success("connection established")
	return nil
}

// Close performs the client half of the four-way close: FIN(total+1), wait
// for an ACK, wait for the server's FIN, then send the final ACK, which is
// itself never acknowledged. Closing an already closed client is a no-op.
func (c *Client) Close(ctx context.Context) error {
	switch c.state {
	case StateClosed:
		return nil
	case StateEstablished:
	default:
		return fmt.Errorf("close: connection is %s", c.state)
	}
	c.setState(StateClosing)

	total := uint32(c.cfg.Total)
	reply, err := c.await(ctx, exchange{
		name:   "close",
		packet: protocol.NewPacket(total+1, 0, protocol.FlagFIN, nil),
		// A late cumulative ACK for data also has ack != 0; only an
		// acknowledgment of the FIN itself counts.
		accept:     acksThrough(total + 2),
		timeout:    c.cfg.Timeout,
		maxRetries: c.cfg.MaxRetries,
	})
	if err != nil {
		return err
	}

	// The server's FIN also carries an ack, so it may arrive first when the
	// plain ACK was lost.
	peerFin := reply
	if !reply.FIN() {
		peerFin, err = c.await(ctx, exchange{name: "close", accept: isFIN})
		if err != nil {
			return err
		}
	}

	if err := c.send(protocol.NewPacket(total+2, peerFin.Seq+1, 0, nil)); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	c.setState(StateClosed)
	c.log().Success("connection closed")
	return nil
}

// ---------------------------------------------------------------------------
// Server side
// ---------------------------------------------------------------------------

// Accept performs the server half of the handshake: wait without a deadline
// for a SYN, answer SYN+ACK(1, seq+1), and resend it on every timeout until
// an ACK arrives.
func (s *Server) Accept(ctx context.Context) error {
	if s.state != StateInit {
		return fmt.Errorf("accept: connection is %s", s.state)
	}
	s.setState(StateHandshaking)

	syn, err := s.await(ctx, exchange{name: "handshake", accept: isSYN})
	if err != nil {
		return err
	}
	s.log().Debug("SYN seq=%d from %v", syn.Seq, s.conn.RemoteAddr())

	_, err = s.await(ctx, exchange{
		name:       "handshake",
		packet:     protocol.NewPacket(1, syn.Seq+1, protocol.FlagSYN, nil),
		accept:     hasAck,
		timeout:    s.cfg.Timeout,
		maxRetries: s.cfg.MaxRetries,
	})
	if err != nil {
		return err
	}

	s.setState(StateEstablished)
	s.log().Success("connection established with %v", s.conn.RemoteAddr())
	return nil
}

// closeFrom answers the client's FIN with ACK(fin.ack, fin.seq+1), sends its
// own FIN(fin.ack+1, fin.seq+1), and resends that FIN on every timeout until
// the final ACK arrives.
func (s *Server) closeFrom(ctx context.Context, fin *protocol.Packet) error {
	s.setState(StateClosing)

	if err := s.send(protocol.NewPacket(fin.Ack, fin.Seq+1, 0, nil)); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	_, err := s.await(ctx, exchange{
		name:       "close",
		packet:     protocol.NewPacket(fin.Ack+1, fin.Seq+1, protocol.FlagFIN, nil),
		accept:     hasAck,
		timeout:    s.cfg.Timeout,
		maxRetries: s.cfg.MaxRetries,
	})
	if err != nil {
		return err
	}

	s.setState(StateClosed)
	s.log().Success("connection closed")
	return nil
}
