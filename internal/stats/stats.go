// Package stats aggregates per-unit round-trip times and send attempts into
// the end-of-run summary.
package stats

import (
	"errors"
	"math"
	"sync"
	"time"
)

// ErrNoSamples is returned by Summary when no unit was ever acknowledged.
var ErrNoSamples = errors.New("no data available")

// Collector accumulates RTT samples and send attempts. It is safe for
// concurrent use, though the sender is its only writer.
type Collector struct {
	mu       sync.Mutex
	samples  []time.Duration
	attempts int
	units    int
}

func NewCollector() *Collector {
	return &Collector{}
}

// AddRTT records the round-trip time of one acknowledged unit.
func (c *Collector) AddRTT(rtt time.Duration) {
	c.mu.Lock()
	c.samples = append(c.samples, rtt)
	c.mu.Unlock()
}

// AddAttempt records one transmission, original or retransmitted.
func (c *Collector) AddAttempt() {
	c.mu.Lock()
	c.attempts++
	c.mu.Unlock()
}

// SetUnits records how many distinct units were sent.
func (c *Collector) SetUnits(n int) {
	c.mu.Lock()
	c.units = n
	c.mu.Unlock()
}

// Summary is the end-of-run report. Durations are in milliseconds.
type Summary struct {
	Samples  int
	Attempts int
	Units    int
	LossRate float64 // percent of attempts that were retransmissions
	MinRTT   float64
	MaxRTT   float64
	MeanRTT  float64
	StdDev   float64 // sample standard deviation (n-1)
}

// Summary computes the report, or ErrNoSamples if nothing was acknowledged.
func (c *Collector) Summary() (Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.samples) == 0 {
		return Summary{}, ErrNoSamples
	}

	s := Summary{
		Samples:  len(c.samples),
		Attempts: c.attempts,
		Units:    c.units,
		MinRTT:   math.Inf(1),
		MaxRTT:   math.Inf(-1),
	}
	if c.attempts > 0 {
		s.LossRate = float64(c.attempts-c.units) / float64(c.attempts) * 100
	}

	var sum float64
	for _, d := range c.samples {
		ms := toMillis(d)
		sum += ms
		s.MinRTT = math.Min(s.MinRTT, ms)
		s.MaxRTT = math.Max(s.MaxRTT, ms)
	}
	s.MeanRTT = sum / float64(len(c.samples))

	if len(c.samples) > 1 {
		var sq float64
		for _, d := range c.samples {
			diff := toMillis(d) - s.MeanRTT
			sq += diff * diff
		}
		s.StdDev = math.Sqrt(sq / float64(len(c.samples)-1))
	}

	return s, nil
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
