package arq

import (
	"math/rand/v2"

	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
)

// Dropper decides whether an inbound data packet is discarded before it
// reaches the receiver.
type Dropper interface {
	Drop(pkt *protocol.Packet) bool
}

// DropperFunc adapts a function to Dropper.
type DropperFunc func(pkt *protocol.Packet) bool

func (f DropperFunc) Drop(pkt *protocol.Packet) bool { return f(pkt) }

// LossSimulator drops each packet independently with probability p.
type LossSimulator struct {
	p   float64
	rng *rand.Rand
}

// NewLossSimulator creates a Bernoulli dropper. A zero seed draws a random
// one; any other seed makes the drop pattern reproducible.
func NewLossSimulator(p float64, seed uint64) *LossSimulator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &LossSimulator{
		p:   p,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (l *LossSimulator) Drop(*protocol.Packet) bool {
	return l.p > 0 && l.rng.Float64() < l.p
}
