package arq

import (
	"context"
	"errors"
	"time"

	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
	"github.com/1ureka/1ureka.net.gbn/internal/transport"
)

// ServerConfig parameterizes the receiving side.
type ServerConfig struct {
	Timeout    time.Duration // SYN+ACK and FIN waits
	MaxRetries int           // bound on SYN+ACK/FIN resends; 0 is unbounded
}

// Server drives one connection from the receiving side: Accept, then Serve
// until the client closes.
type Server struct {
	endpoint
	cfg      ServerConfig
	receiver *Receiver
	dropper  Dropper

	// OnDeliver, if set, is called for every unit delivered in order.
	OnDeliver func(pkt *protocol.Packet)

	seen      int
	dropped   int
	delivered int
}

// NewServer binds a server session to conn. A nil dropper disables loss.
func NewServer(conn transport.Conn, cfg ServerConfig, dropper Dropper) *Server {
	return &Server{
		endpoint: endpoint{conn: conn, role: "server"},
		cfg:      cfg,
		receiver: NewReceiver(),
		dropper:  dropper,
	}
}

// Serve runs the receive loop until the client's FIN has been answered and
// the teardown acknowledged. Data packets pass the loss simulator, then the
// reorder buffer; every surviving one is answered with a cumulative ACK.
func (s *Server) Serve(ctx context.Context) error {
	for {
		pkt, err := s.recv(ctx, 0)

		var decErr *protocol.DecodeError
		switch {
		case errors.As(err, &decErr):
			s.log().Debug("dropping malformed datagram: %v", err)
			continue
		case err != nil:
			return err
		}

		switch {
		case pkt.FIN():
			return s.closeFrom(ctx, pkt)
		case pkt.SYN(), pkt.IsPureAck():
			s.log().Debug("ignoring control packet seq=%d ack=%d flags=%#02x", pkt.Seq, pkt.Ack, pkt.Flags)
			continue
		}

		s.seen++
		if s.dropper != nil && s.dropper.Drop(pkt) {
			s.dropped++
			s.log().Warning("simulated loss: dropping unit %d", pkt.Seq)
			continue
		}

		if err := s.handleData(pkt); err != nil {
			return err
		}
	}
}

func (s *Server) handleData(pkt *protocol.Packet) error {
	delivered, ack := s.receiver.Feed(pkt)

	if gap := s.receiver.ExpectedSeq(); pkt.Seq > gap {
		s.log().Debug("buffered unit %d ahead of gap at %d", pkt.Seq, gap)
	}
	for _, d := range delivered {
		s.delivered++
		start, end := ByteRange(d.Seq, len(d.Payload))
		s.log().Info("received unit %d (bytes %d-%d)", d.Seq, start, end)
		if s.OnDeliver != nil {
			s.OnDeliver(d)
		}
	}

	return s.send(protocol.NewPacket(pkt.Ack, ack, 0, nil))
}

func (s *Server) State() State        { return s.state }
func (s *Server) Receiver() *Receiver { return s.receiver }

// Seen counts data packets that reached the loss simulator.
func (s *Server) Seen() int { return s.seen }

// Dropped counts data packets discarded by the loss simulator.
func (s *Server) Dropped() int { return s.dropped }

// Delivered counts units delivered in order.
func (s *Server) Delivered() int { return s.delivered }
