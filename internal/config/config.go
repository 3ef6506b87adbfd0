// Package config holds the run configuration for both roles.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/1ureka/1ureka.net.gbn/internal/arq"
)

// Role represents the side this process plays.
type Role string

const (
	RoleServer Role = "server"
	RoleClient Role = "client"
)

// Carrier selects the datagram transport under the protocol engine.
type Carrier string

const (
	CarrierUDP    Carrier = "udp"
	CarrierWebRTC Carrier = "webrtc" // unreliable DataChannel, signaled over WebSocket
)

// Config stores all parameters gathered from flags and interactive prompts.
type Config struct {
	Role    Role
	Carrier Carrier
	Host    string // server IP: bind address (server) or destination (client)
	Port    int

	WindowSize int // outstanding units allowed in flight
	Total      int // units to transfer
	ChunkSize  int // application bytes per unit

	LossRate float64 // server-side drop probability for data packets
	Seed     uint64  // loss simulator seed; 0 picks a random one

	DataTimeout    time.Duration // client wait for data ACKs, SYN+ACK and FIN ACK
	ControlTimeout time.Duration // server wait for handshake ACK and final ACK
	MaxRetries     int           // bound on control retransmissions; 0 is unbounded

	ICEServers []string // STUN servers for the webrtc carrier
	Debug      bool
}

// Default returns the stock parameters: 30 units of 80 bytes, window of 5,
// 20% loss, 300 ms client waits and 1 s server waits.
func Default() Config {
	return Config{
		Carrier:        CarrierUDP,
		Host:           "127.0.0.1",
		WindowSize:     5,
		Total:          30,
		ChunkSize:      80,
		LossRate:       0.2,
		DataTimeout:    300 * time.Millisecond,
		ControlTimeout: time.Second,
	}
}

// Addr joins Host and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks ranges. It does not check that Host resolves.
func (c Config) Validate() error {
	switch c.Role {
	case RoleServer, RoleClient:
	default:
		return fmt.Errorf("invalid role %q: must be 'server' or 'client'", c.Role)
	}
	switch c.Carrier {
	case CarrierUDP, CarrierWebRTC:
	default:
		return fmt.Errorf("invalid carrier %q: must be 'udp' or 'webrtc'", c.Carrier)
	}
	if c.Host == "" {
		return fmt.Errorf("missing server IP")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be 1~65535", c.Port)
	}
	if c.WindowSize < 1 || c.WindowSize > arq.MaxWindowSize {
		return fmt.Errorf("invalid window size %d: must be 1~%d", c.WindowSize, arq.MaxWindowSize)
	}
	if c.Total < 1 || uint64(c.Total) > arq.MaxTotal {
		return fmt.Errorf("invalid total %d: must be 1~%d", c.Total, uint64(arq.MaxTotal))
	}
	if c.ChunkSize < 1 || c.ChunkSize > MaxChunkSize {
		return fmt.Errorf("invalid chunk size %d: must be 1~%d", c.ChunkSize, MaxChunkSize)
	}
	if c.LossRate < 0 || c.LossRate >= 1 {
		return fmt.Errorf("invalid loss rate %v: must be in [0, 1)", c.LossRate)
	}
	if c.DataTimeout <= 0 || c.ControlTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid retry bound %d", c.MaxRetries)
	}
	return nil
}

// MaxChunkSize keeps a data unit plus its 13-byte header inside one
// unfragmented datagram on common paths.
const MaxChunkSize = 1200
