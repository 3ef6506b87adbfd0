package arq

import (
	"context"
	"fmt"
	"time"

	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
	"github.com/1ureka/1ureka.net.gbn/internal/transport"
	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

// pollInterval slices every wait so cancellation is noticed even while a
// phase waits without a deadline.
const pollInterval = 100 * time.Millisecond

// endpoint couples a carrier with the codec and the connection state.
type endpoint struct {
	conn  transport.Conn
	role  string
	state State
	id    uint32
}

func (e *endpoint) setState(s State) {
	if s == StateEstablished {
		e.id = util.PeerID(e.conn)
	}
	e.log().Debug("%s: %s -> %s", e.role, e.state, s)
	e.state = s
}

func (e *endpoint) log() util.PeerLogger { return util.PeerLogger(e.id) }

func (e *endpoint) send(pkt *protocol.Packet) error {
	if err := e.conn.WritePacket(protocol.Encode(pkt)); err != nil {
		return fmt.Errorf("send seq=%d ack=%d: %w", pkt.Seq, pkt.Ack, err)
	}
	return nil
}

// recv waits for one datagram and decodes it. A zero timeout waits without a
// deadline. A timeout surfaces as an error satisfying transport.IsTimeout,
// an undersized datagram as *protocol.DecodeError.
func (e *endpoint) recv(ctx context.Context, timeout time.Duration) (*protocol.Packet, error) {
	var until time.Time
	if timeout > 0 {
		until = time.Now().Add(timeout)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		deadline := time.Now().Add(pollInterval)
		if !until.IsZero() && until.Before(deadline) {
			deadline = until
		}

		data, err := e.conn.ReadPacket(deadline)
		if err != nil {
			if transport.IsTimeout(err) && (until.IsZero() || time.Now().Before(until)) {
				continue
			}
			return nil, err
		}
		return protocol.Decode(data)
	}
}
