// Package app wires configuration, carrier, protocol engine and reporting
// into the two runnable roles.
package app

import (
	"context"
	"fmt"

	"github.com/1ureka/1ureka.net.gbn/internal/config"
	"github.com/1ureka/1ureka.net.gbn/internal/signaling"
	"github.com/1ureka/1ureka.net.gbn/internal/transport"
)

func iceServers(cfg config.Config) []string {
	if len(cfg.ICEServers) > 0 {
		return cfg.ICEServers
	}
	return transport.DefaultICEServers
}

// dialCarrier opens the client side of the configured carrier.
func dialCarrier(ctx context.Context, cfg config.Config) (transport.Conn, error) {
	switch cfg.Carrier {
	case config.CarrierWebRTC:
		return signaling.EstablishAsClient(ctx, fmt.Sprintf("ws://%s/ws", cfg.Addr()), iceServers(cfg))
	default:
		return transport.DialUDP(cfg.Addr())
	}
}

// listenCarrier opens the server side of the configured carrier. For webrtc
// this blocks until signaling with the client completes.
func listenCarrier(ctx context.Context, cfg config.Config) (transport.Conn, error) {
	switch cfg.Carrier {
	case config.CarrierWebRTC:
		return signaling.EstablishAsServer(ctx, cfg.Addr(), iceServers(cfg))
	default:
		return transport.ListenUDP(cfg.Addr())
	}
}
