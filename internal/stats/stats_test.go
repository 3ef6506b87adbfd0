package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryNoSamples(t *testing.T) {
	c := NewCollector()
	c.AddAttempt()
	c.SetUnits(1)

	_, err := c.Summary()
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestSummaryValues(t *testing.T) {
	c := NewCollector()
	for _, ms := range []int{2, 4, 4, 4, 5, 5, 7, 9} {
		c.AddRTT(time.Duration(ms) * time.Millisecond)
	}
	for i := 0; i < 10; i++ {
		c.AddAttempt()
	}
	c.SetUnits(8)

	s, err := c.Summary()
	require.NoError(t, err)

	assert.Equal(t, 8, s.Samples)
	assert.Equal(t, 10, s.Attempts)
	assert.InDelta(t, 20.0, s.LossRate, 1e-9)
	assert.InDelta(t, 2.0, s.MinRTT, 1e-9)
	assert.InDelta(t, 9.0, s.MaxRTT, 1e-9)
	assert.InDelta(t, 5.0, s.MeanRTT, 1e-9)
	// population stddev is 2; the n-1 estimate is sqrt(32/7).
	assert.InDelta(t, 2.13809, s.StdDev, 1e-5)
}

func TestSummarySingleSample(t *testing.T) {
	c := NewCollector()
	c.AddRTT(1500 * time.Microsecond)
	c.AddAttempt()
	c.SetUnits(1)

	s, err := c.Summary()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, s.MinRTT, 1e-9)
	assert.InDelta(t, 1.5, s.MaxRTT, 1e-9)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.LossRate)
}

func TestCollectorConcurrentWrites(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.AddAttempt()
				c.AddRTT(time.Millisecond)
			}
		}()
	}
	wg.Wait()
	c.SetUnits(800)

	s, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, 800, s.Samples)
	assert.Equal(t, 800, s.Attempts)
}
