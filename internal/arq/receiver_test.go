package arq

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
)

func TestReceiverInOrder(t *testing.T) {
	r := NewReceiver()
	for seq := uint32(1); seq <= 3; seq++ {
		delivered, ack := r.Feed(&protocol.Packet{Seq: seq})
		require.Len(t, delivered, 1)
		assert.Equal(t, seq, delivered[0].Seq)
		assert.Equal(t, seq, ack)
	}
	assert.Equal(t, uint32(4), r.ExpectedSeq())
}

func TestReceiverGapThenFill(t *testing.T) {
	r := NewReceiver()

	delivered, ack := r.Feed(&protocol.Packet{Seq: 2})
	assert.Empty(t, delivered)
	assert.Zero(t, ack)
	delivered, ack = r.Feed(&protocol.Packet{Seq: 3})
	assert.Empty(t, delivered)
	assert.Zero(t, ack)
	assert.Equal(t, 2, r.Buffered())

	delivered, ack = r.Feed(&protocol.Packet{Seq: 1})
	require.Len(t, delivered, 3)
	assert.Equal(t, uint32(3), ack)
	assert.Zero(t, r.Buffered())
}

func TestReceiverStaleNotBuffered(t *testing.T) {
	r := NewReceiver()
	r.Feed(&protocol.Packet{Seq: 1})

	delivered, ack := r.Feed(&protocol.Packet{Seq: 1})
	assert.Empty(t, delivered)
	assert.Equal(t, uint32(1), ack)
	assert.Zero(t, r.Buffered())
}

// TestReceiverAnyArrivalOrder feeds shuffled sequences with duplicates and
// checks that delivery is exactly 1..n in order and the ack never regresses.
func TestReceiverAnyArrivalOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const n = 40

	for round := 0; round < 50; round++ {
		var arrivals []uint32
		for seq := uint32(1); seq <= n; seq++ {
			arrivals = append(arrivals, seq)
			if rng.IntN(4) == 0 {
				arrivals = append(arrivals, seq)
			}
		}
		rng.Shuffle(len(arrivals), func(i, j int) { arrivals[i], arrivals[j] = arrivals[j], arrivals[i] })

		r := NewReceiver()
		var got []uint32
		var lastAck uint32
		for _, seq := range arrivals {
			delivered, ack := r.Feed(&protocol.Packet{Seq: seq})
			require.GreaterOrEqual(t, ack, lastAck)
			lastAck = ack
			for _, d := range delivered {
				got = append(got, d.Seq)
			}
		}

		require.Len(t, got, n)
		for i, seq := range got {
			require.Equal(t, uint32(i+1), seq)
		}
		assert.Equal(t, uint32(n), r.LastAck())
		assert.Zero(t, r.Buffered())
	}
}
