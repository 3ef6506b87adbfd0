package app

import (
	"context"
	"fmt"

	"github.com/1ureka/1ureka.net.gbn/internal/arq"
	"github.com/1ureka/1ureka.net.gbn/internal/config"
	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

// RunServer serves exactly one connection: accept the handshake, receive
// until the client's FIN is answered, then print what was delivered.
func RunServer(ctx context.Context, cfg config.Config) error {
	return runServer(ctx, cfg, arq.NewLossSimulator(cfg.LossRate, cfg.Seed))
}

func runServer(ctx context.Context, cfg config.Config, dropper arq.Dropper) error {
	conn, err := listenCarrier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s carrier: %w", cfg.Carrier, err)
	}
	defer conn.Close()

	util.StartTrafficReporter(ctx)

	server := arq.NewServer(conn, arq.ServerConfig{
		Timeout:    cfg.ControlTimeout,
		MaxRetries: cfg.MaxRetries,
	}, dropper)

	util.LogInfo("server listening on %v (loss rate %.0f%%)", conn.LocalAddr(), cfg.LossRate*100)
	err = server.Accept(ctx)
	if err == nil {
		err = server.Serve(ctx)
	}

	printServerReport(server)
	return err
}
