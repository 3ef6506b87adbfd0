package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/1ureka/1ureka.net.gbn/internal/arq"
	"github.com/1ureka/1ureka.net.gbn/internal/config"
	"github.com/1ureka/1ureka.net.gbn/internal/stats"
	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

// RunClient runs the sending role to completion:
//  1. Open the carrier towards cfg.Addr()
//  2. Handshake
//  3. Transfer cfg.Total units through the window
//  4. Tear down, even if ctx was cancelled during the transfer
//  5. Print the RTT and loss summary
//
// An interrupt surfaces as an error wrapping context.Canceled.
func RunClient(ctx context.Context, cfg config.Config) error {
	conn, err := dialCarrier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s carrier: %w", cfg.Carrier, err)
	}
	defer conn.Close()

	util.StartTrafficReporter(ctx)

	col := stats.NewCollector()
	client := arq.NewClient(conn, arq.ClientConfig{
		WindowSize: cfg.WindowSize,
		Total:      cfg.Total,
		ChunkSize:  cfg.ChunkSize,
		Timeout:    cfg.DataTimeout,
		MaxRetries: cfg.MaxRetries,
	}, col)

	util.LogInfo("connecting to %s over %s", cfg.Addr(), cfg.Carrier)
	err = client.Open(ctx)
	if err == nil {
		err = client.Transfer(ctx)
		if errors.Is(err, context.Canceled) {
			util.LogWarning("transfer interrupted, closing connection")
		}
		err = errors.Join(err, client.Close(context.WithoutCancel(ctx)))
	}

	printClientReport(col, client.Sender())
	return err
}
