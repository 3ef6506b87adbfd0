package arq

import "github.com/1ureka/1ureka.net.gbn/internal/protocol"

// Receiver reorders data units and tracks the cumulative acknowledgment.
// It is goroutine-local and needs no locking.
type Receiver struct {
	expectedSeq uint32
	buffer      map[uint32]*protocol.Packet
}

// NewReceiver creates a receiver expecting sequence numbers starting at 1.
func NewReceiver() *Receiver {
	return &Receiver{
		expectedSeq: 1,
		buffer:      make(map[uint32]*protocol.Packet),
	}
}

// Feed accepts one data packet and returns the units that became deliverable
// in order, along with the cumulative ACK to send back. Units already
// delivered are acknowledged again but never re-delivered; units ahead of the
// gap wait in the buffer.
func (r *Receiver) Feed(pkt *protocol.Packet) ([]*protocol.Packet, uint32) {
	if pkt.Seq >= r.expectedSeq {
		r.buffer[pkt.Seq] = pkt
	}

	var delivered []*protocol.Packet
	for {
		next, ok := r.buffer[r.expectedSeq]
		if !ok {
			break
		}
		delivered = append(delivered, next)
		delete(r.buffer, r.expectedSeq)
		r.expectedSeq++
	}

	return delivered, r.expectedSeq - 1
}

// ExpectedSeq returns the next in-order sequence number.
func (r *Receiver) ExpectedSeq() uint32 { return r.expectedSeq }

// LastAck returns the highest contiguous sequence number delivered.
func (r *Receiver) LastAck() uint32 { return r.expectedSeq - 1 }

// Buffered returns how many out-of-order units are waiting.
func (r *Receiver) Buffered() int { return len(r.buffer) }
