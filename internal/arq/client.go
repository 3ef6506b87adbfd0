package arq

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/1ureka/1ureka.net.gbn/internal/stats"
	"github.com/1ureka/1ureka.net.gbn/internal/transport"
)

// ClientConfig parameterizes the sending side.
type ClientConfig struct {
	WindowSize int
	Total      int
	ChunkSize  int
	Timeout    time.Duration // SYN, data and FIN waits
	MaxRetries int           // bound on SYN/FIN resends; 0 is unbounded
}

const (
	// MaxTotal keeps the FIN (total+1) and the final ACK (total+2) inside
	// the 32-bit sequence space.
	MaxTotal = math.MaxUint32 - 2
	// MaxWindowSize bounds the outstanding units and the ring allocation.
	MaxWindowSize = 1 << 16
)

// Validate rejects sizes the 32-bit sequence space cannot carry.
func (cfg ClientConfig) Validate() error {
	if cfg.Total < 1 || uint64(cfg.Total) > MaxTotal {
		return fmt.Errorf("invalid total %d: must be 1~%d", cfg.Total, uint64(MaxTotal))
	}
	if cfg.WindowSize < 1 || cfg.WindowSize > MaxWindowSize {
		return fmt.Errorf("invalid window size %d: must be 1~%d", cfg.WindowSize, MaxWindowSize)
	}
	if cfg.ChunkSize < 1 {
		return fmt.Errorf("invalid chunk size %d", cfg.ChunkSize)
	}
	return nil
}

// Client drives one connection from the sending side: Open, Transfer, Close.
type Client struct {
	endpoint
	cfg    ClientConfig
	sender *Sender
}

// NewClient binds a client session to conn. RTT samples and send attempts
// are recorded in col.
func NewClient(conn transport.Conn, cfg ClientConfig, col *stats.Collector) *Client {
	c := &Client{
		endpoint: endpoint{conn: conn, role: "client"},
		cfg:      cfg,
	}
	c.sender = newSender(&c.endpoint, cfg, col)
	return c
}

// Transfer sends every unit through the window. It requires an established
// connection and a valid configuration.
func (c *Client) Transfer(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if c.state != StateEstablished {
		return fmt.Errorf("transfer: connection is %s", c.state)
	}
	return c.sender.Run(ctx)
}

func (c *Client) State() State    { return c.state }
func (c *Client) Sender() *Sender { return c.sender }
