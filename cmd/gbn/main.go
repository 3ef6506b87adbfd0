// Command gbn is the CLI entry point.
//
// Transfers a fixed number of data units from a client to a server over an
// unreliable datagram carrier (plain UDP or a WebRTC DataChannel), recovering
// from simulated loss with Go-Back-N, and reports RTT and loss statistics.
//
// It can be launched interactively (no -role) or non-interactively via flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/1ureka/1ureka.net.gbn/internal/app"
	"github.com/1ureka/1ureka.net.gbn/internal/config"
	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

var version = "dev"

func main() {
	// Root context, cancelled on the first Ctrl+C. Teardown still runs after
	// it; a second Ctrl+C falls through to the default handler and exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	cfg := config.Default()
	role := flag.String("role", "", "Role: server or client")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "Server IP: bind address (server) or destination (client)")
	flag.IntVar(&cfg.Port, "port", 0, "Server port, 1~65535")
	carrier := flag.String("carrier", string(cfg.Carrier), "Datagram carrier: udp or webrtc")
	flag.IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "Sender window size")
	flag.IntVar(&cfg.Total, "total", cfg.Total, "Number of data units to send")
	flag.IntVar(&cfg.ChunkSize, "chunk", cfg.ChunkSize, "Bytes per data unit")
	flag.Float64Var(&cfg.LossRate, "loss", cfg.LossRate, "Server-side drop probability for data packets")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "Loss simulator seed (0 = random)")
	flag.IntVar(&cfg.MaxRetries, "retries", 0, "Bound on SYN/FIN retransmissions (0 = unbounded)")
	ice := flag.String("ice", "", "Comma-separated STUN URLs for the webrtc carrier")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if cfg.Debug {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("gbn v%s", version))
	pterm.Println()

	cfg.Role = config.Role(*role)
	cfg.Carrier = config.Carrier(*carrier)
	if *ice != "" {
		cfg.ICEServers = strings.Split(*ice, ",")
	}

	if cfg.Role == "" {
		askInteractive(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	var err error
	switch cfg.Role {
	case config.RoleServer:
		err = app.RunServer(ctx, cfg)
	case config.RoleClient:
		err = app.RunClient(ctx, cfg)
	}

	switch {
	case errors.Is(err, context.Canceled):
		util.LogWarning("interrupted by user")
	case err != nil:
		util.LogError("%v", err)
		os.Exit(1)
	default:
		util.LogInfo("connection closed")
	}
}

// ---------------------------------------------------------------------------
// Interactive prompts
// ---------------------------------------------------------------------------

// askInteractive fills in role, server IP and port when no -role flag is
// provided. The -host value is offered as the default; a -port value is kept.
func askInteractive(cfg *config.Config) {
	role, _ := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"Server: receive data units", "Client: send data units"}).
		WithDefaultText("Select your role").
		Show()
	pterm.Println()

	if strings.HasPrefix(role, "Server") {
		cfg.Role = config.RoleServer
	} else {
		cfg.Role = config.RoleClient
	}

	cfg.Host = askHost("Server IP", cfg.Host)
	if cfg.Port == 0 {
		cfg.Port = askPort("Server port (1 ~ 65535)")
	}
}

// askHost prompts the user for an IP address until a valid one is entered.
func askHost(prompt, def string) string {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			WithDefaultValue(def).
			Show()

		host := strings.TrimSpace(raw)
		if net.ParseIP(host) != nil {
			pterm.Println()
			return host
		}

		util.LogWarning("invalid IP address: %q", host)
		pterm.Println()
	}
}

// askPort prompts the user for a port number until a valid one is entered.
func askPort(prompt string) int {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			Show()

		port, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil && port >= 1 && port <= 65535 {
			pterm.Println()
			return port
		}

		util.LogWarning("invalid port number: must be 1 ~ 65535")
		pterm.Println()
	}
}
