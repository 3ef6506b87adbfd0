package arq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
	"github.com/1ureka/1ureka.net.gbn/internal/transport"
)

// ErrRetriesExhausted is returned when a bounded exchange runs out of
// retransmissions.
var ErrRetriesExhausted = errors.New("retries exhausted")

// exchange describes one blocking step of a control phase: send a packet,
// then wait for a matching reply, resending on every timeout.
type exchange struct {
	name       string
	packet     *protocol.Packet // nil waits passively and ignores timeouts
	accept     func(*protocol.Packet) bool
	timeout    time.Duration // per-receive deadline; 0 waits without one
	maxRetries int           // 0 is unbounded
}

// await runs ex to completion and returns the accepted packet. Packets that
// do not match and malformed datagrams are skipped without resending.
func (e *endpoint) await(ctx context.Context, ex exchange) (*protocol.Packet, error) {
	if ex.packet != nil {
		if err := e.send(ex.packet); err != nil {
			return nil, fmt.Errorf("%s: %w", ex.name, err)
		}
	}

	retries := 0
	for {
		pkt, err := e.recv(ctx, ex.timeout)

		var decErr *protocol.DecodeError
		switch {
		case err == nil:
			if ex.accept(pkt) {
				return pkt, nil
			}
			e.log().Debug("%s: ignoring seq=%d ack=%d flags=%#02x", ex.name, pkt.Seq, pkt.Ack, pkt.Flags)

		case errors.As(err, &decErr):
			e.log().Debug("%s: dropping malformed datagram: %v", ex.name, err)

		case transport.IsTimeout(err):
			if ex.packet == nil {
				continue
			}
			if ex.maxRetries > 0 && retries >= ex.maxRetries {
				return nil, fmt.Errorf("%s: %w after %d resends", ex.name, ErrRetriesExhausted, retries)
			}
			retries++
			e.log().Debug("%s: timeout, resending seq=%d (retry %d)", ex.name, ex.packet.Seq, retries)
			if err := e.send(ex.packet); err != nil {
				return nil, fmt.Errorf("%s: %w", ex.name, err)
			}

		default:
			return nil, fmt.Errorf("%s: %w", ex.name, err)
		}
	}
}

func isSYNACK(p *protocol.Packet) bool { return p.SYN() && p.HasAck() }
func isSYN(p *protocol.Packet) bool    { return p.SYN() }
func isFIN(p *protocol.Packet) bool    { return p.FIN() }
func hasAck(p *protocol.Packet) bool   { return p.HasAck() }

func acksThrough(n uint32) func(*protocol.Packet) bool {
	return func(p *protocol.Packet) bool { return p.Ack == n }
}
