package util

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEndpoint struct{ local, remote net.Addr }

func (f fakeEndpoint) LocalAddr() net.Addr  { return f.local }
func (f fakeEndpoint) RemoteAddr() net.Addr { return f.remote }

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{0, " 0.0   B"},
		{99, "99.0   B"},
		{1536, " 1.5 KiB"},
		{1024 * 1024 * 98.9, "98.9 MiB"},
	}
	for _, tc := range testCases {
		got := FormatBytes(tc.in)
		assert.Equal(t, tc.want, got)
		assert.Len(t, got, 8)
	}
}

func TestPeerID(t *testing.T) {
	a := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9000}
	b := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9001}

	assert.Equal(t, PeerID(fakeEndpoint{a, b}), PeerID(fakeEndpoint{a, b}))
	assert.NotEqual(t, PeerID(fakeEndpoint{a, b}), PeerID(fakeEndpoint{b, a}))
	assert.NotPanics(t, func() { PeerID(fakeEndpoint{a, nil}) })
}

func TestTrafficCounters(t *testing.T) {
	before := Traffic.Snapshot()
	Traffic.AddSent(93)
	Traffic.AddRecv(13)
	after := Traffic.Snapshot()

	assert.Equal(t, int64(1), after.DatagramsSent-before.DatagramsSent)
	assert.Equal(t, int64(93), after.BytesSent-before.BytesSent)
	assert.Equal(t, int64(1), after.DatagramsRecv-before.DatagramsRecv)
	assert.Equal(t, int64(13), after.BytesRecv-before.BytesRecv)
}

func TestPeerLoggerPrefix(t *testing.T) {
	assert.Equal(t, "[000000ab] sent unit %d", PeerLogger(0xab).prefix("sent unit %d"))
	assert.Equal(t, "[deadbeef] ", PeerLogger(0xdeadbeef).prefix(""))
	assert.NotPanics(t, func() { PeerLogger(1).Info("unit %d", 3) })
}
