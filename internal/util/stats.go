package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global traffic singleton
// ──────────────────────────────────────────────────────────────────────────────

// Traffic is the process-wide datagram counter, fed by the transports.
var Traffic = &traffic{}

type traffic struct {
	DatagramsSent atomic.Int64
	DatagramsRecv atomic.Int64
	BytesSent     atomic.Int64
	BytesRecv     atomic.Int64
}

func (t *traffic) AddSent(n int) {
	t.DatagramsSent.Add(1)
	t.BytesSent.Add(int64(n))
}

func (t *traffic) AddRecv(n int) {
	t.DatagramsRecv.Add(1)
	t.BytesRecv.Add(int64(n))
}

// TrafficSnapshot is a point-in-time copy of the counters.
type TrafficSnapshot struct {
	DatagramsSent, DatagramsRecv int64
	BytesSent, BytesRecv         int64
}

// Snapshot returns the current counter values.
func (t *traffic) Snapshot() TrafficSnapshot {
	return TrafficSnapshot{
		DatagramsSent: t.DatagramsSent.Load(),
		DatagramsRecv: t.DatagramsRecv.Load(),
		BytesSent:     t.BytesSent.Load(),
		BytesRecv:     t.BytesRecv.Load(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

const reportInterval = 5 * time.Second

// StartTrafficReporter launches a goroutine that logs datagram throughput
// every reportInterval while there is activity. It stops when ctx is cancelled.
func StartTrafficReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(reportInterval)
		defer ticker.Stop()

		var prev TrafficSnapshot
		for {
			select {
			case <-ticker.C:
				cur := Traffic.Snapshot()
				secs := reportInterval.Seconds()

				outS := float64(cur.BytesSent-prev.BytesSent) / secs
				inS := float64(cur.BytesRecv-prev.BytesRecv) / secs
				outD := cur.DatagramsSent - prev.DatagramsSent
				inD := cur.DatagramsRecv - prev.DatagramsRecv

				if outD > 0 || inD > 0 {
					pterm.DefaultLogger.Info(formatTraffic(outS, inS, outD, inD))
				}
				prev = cur

			case <-ctx.Done():
				return
			}
		}
	}()
}

// byteUnits defines the units for formatting byte counts in a human-readable way.
var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// FormatBytes formats a byte count into a human-readable string with fixed
// width (exactly 8 chars), e.g. "99.0   B", " 1.5 KiB".
func FormatBytes(b float64) string {
	unitIdx := 0

	// to prevent "100.0 KiB", which is 9 chars
	for b > 99 && unitIdx < 5 {
		b /= 1024
		unitIdx++
	}

	return fmt.Sprintf("%4.1f %3s", b, byteUnits[unitIdx])
}

// formatTraffic returns a one-line throughput summary for the logger.
func formatTraffic(outS, inS float64, outD, inD int64) string {
	return fmt.Sprintf("Out: %s/s | In: %s/s | Datagrams: %3d↑ %3d↓",
		FormatBytes(outS),
		FormatBytes(inS),
		outD,
		inD,
	)
}
