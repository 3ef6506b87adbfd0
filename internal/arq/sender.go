package arq

import (
	"context"
	"errors"
	"time"

	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
	"github.com/1ureka/1ureka.net.gbn/internal/stats"
	"github.com/1ureka/1ureka.net.gbn/internal/transport"
)

// Sender is the client-side Go-Back-N window. On timeout it resends only the
// unit at base, never the whole window.
type Sender struct {
	ep *endpoint

	windowSize uint32
	total      uint32
	chunkSize  int
	timeout    time.Duration

	base    uint32
	nextSeq uint32
	window  *window

	attempts    int
	retransmits int

	stats *stats.Collector

	// handshakeAck is resent if the server retransmits SYN+ACK after the
	// data phase started.
	handshakeAck *protocol.Packet
}

func newSender(ep *endpoint, cfg ClientConfig, col *stats.Collector) *Sender {
	return &Sender{
		ep:         ep,
		windowSize: uint32(cfg.WindowSize),
		total:      uint32(cfg.Total),
		chunkSize:  cfg.ChunkSize,
		timeout:    cfg.Timeout,
		base:       1,
		nextSeq:    1,
		// Outstanding units never exceed the window or the total.
		window: newWindow(max(1, min(cfg.WindowSize, cfg.Total, MaxWindowSize))),
		stats:  col,
	}
}

// Run transfers every unit and returns once all are acknowledged. On
// cancellation it returns the context's error with the window intact.
func (s *Sender) Run(ctx context.Context) error {
	for s.base <= s.total {
		for uint64(s.nextSeq) < uint64(s.base)+uint64(s.windowSize) && s.nextSeq <= s.total {
			if err := s.transmit(s.nextSeq, false); err != nil {
				return err
			}
			s.nextSeq++
		}
		s.stats.SetUnits(int(s.nextSeq - 1))

		pkt, err := s.ep.recv(ctx, s.timeout)

		var decErr *protocol.DecodeError
		switch {
		case err == nil:
			if err := s.handle(pkt); err != nil {
				return err
			}

		case errors.As(err, &decErr):
			s.ep.log().Debug("dropping malformed datagram: %v", err)

		case transport.IsTimeout(err):
			if _, ok := s.window.get(s.base); ok {
				if err := s.transmit(s.base, true); err != nil {
					return err
				}
			}

		default:
			return err
		}
	}
	return nil
}

// transmit sends unit seq and (re)records its send time.
func (s *Sender) transmit(seq uint32, retransmit bool) error {
	var payload []byte
	if e, ok := s.window.get(seq); ok && retransmit {
		payload = e.payload
	} else {
		payload = UnitPayload(seq, s.chunkSize)
	}
	s.window.put(seq, time.Now(), payload)

	if err := s.ep.send(protocol.NewPacket(seq, 0, 0, payload)); err != nil {
		return err
	}
	s.attempts++
	s.stats.AddAttempt()

	start, end := ByteRange(seq, s.chunkSize)
	if retransmit {
		s.retransmits++
		s.ep.log().Warning("retransmitting unit %d (bytes %d-%d)", seq, start, end)
	} else {
		s.ep.log().Info("sent unit %d (bytes %d-%d)", seq, start, end)
	}
	return nil
}

// handle applies one inbound packet. A cumulative ACK for an outstanding
// unit at or above base releases every unit up to it.
func (s *Sender) handle(pkt *protocol.Packet) error {
	if pkt.SYN() {
		if s.handshakeAck == nil {
			return nil
		}
		s.ep.log().Debug("SYN+ACK retransmitted by server, resending handshake ACK")
		return s.ep.send(s.handshakeAck)
	}

	if pkt.Ack < s.base {
		return nil
	}

	entry, ok := s.window.get(pkt.Ack)
	if !ok {
		return nil
	}

	rtt := time.Since(entry.sentAt)
	s.stats.AddRTT(rtt)

	start, end := ByteRange(pkt.Ack, s.chunkSize)
	s.ep.log().Success("unit %d (bytes %d-%d) acknowledged, RTT %.2f ms",
		pkt.Ack, start, end, float64(rtt)/float64(time.Millisecond))

	s.window.ackThrough(s.base, pkt.Ack)
	s.base = pkt.Ack + 1
	return nil
}

// Base returns the oldest unacknowledged sequence number.
func (s *Sender) Base() uint32 { return s.base }

// NextSeq returns the next sequence number to be sent.
func (s *Sender) NextSeq() uint32 { return s.nextSeq }

// Attempts counts every transmission, original or retransmitted.
func (s *Sender) Attempts() int { return s.attempts }

// Retransmits counts timeout-driven resends.
func (s *Sender) Retransmits() int { return s.retransmits }

// Outstanding returns the number of unacknowledged units in flight.
func (s *Sender) Outstanding() int { return s.window.len() }
