package signaling

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/pterm/pterm"

	"github.com/1ureka/1ureka.net.gbn/internal/transport"
	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

// EstablishAsServer runs the server-side signaling flow:
//  1. Serve /ws on listenAddr and print the endpoint
//  2. Wait for the client to connect
//  3. Create the carrier and send the Offer
//  4. Exchange the Answer and ICE candidates until the DataChannel opens
//
// The WebSocket is closed before returning. ctx bounds signaling only; the
// returned carrier stays usable until Close so teardown can still run after
// an interrupt.
func EstablishAsServer(ctx context.Context, listenAddr string, iceServers []string) (*transport.DataChannel, error) {
	srv, err := listen(listenAddr)
	if err != nil {
		return nil, err
	}
	defer srv.close()

	pterm.DefaultBox.WithTitle("WebSocket Signaling").Println(
		fmt.Sprintf("Endpoint : ws://%s/ws", srv.addr()),
	)
	util.LogInfo("waiting for client...")

	wsConn, err := srv.waitForClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for client: %w", err)
	}
	defer wsConn.Close()
	util.LogInfo("client connected from %v", wsConn.RemoteAddr())

	return establish(ctx, wsConn, iceServers, true)
}

// EstablishAsClient runs the client-side signaling flow: dial wsURL, answer
// the server's Offer, and exchange ICE candidates until the DataChannel
// opens.
func EstablishAsClient(ctx context.Context, wsURL string, iceServers []string) (*transport.DataChannel, error) {
	util.LogInfo("connecting to %s", wsURL)
	wsConn, err := connect(ctx, wsURL)
	if err != nil {
		return nil, err
	}
	defer wsConn.Close()

	return establish(ctx, wsConn, iceServers, false)
}

func establish(ctx context.Context, wsConn *websocket.Conn, iceServers []string, offerer bool) (*transport.DataChannel, error) {
	dc, err := transport.NewDataChannel(context.WithoutCancel(ctx), iceServers)
	if err != nil {
		return nil, fmt.Errorf("failed to create DataChannel: %w", err)
	}
	dc.SetAddrs(wsConn.LocalAddr(), wsConn.RemoteAddr())

	s := newSender(dc, wsConn)
	r := &receiver{pc: dc, conn: wsConn, sender: s}

	dc.OnICECandidate(func(c *webrtc.ICECandidate) {
		// Best-effort: the WebSocket may already be closed once the
		// DataChannel is open.
		if err := s.sendCandidate(c); err != nil {
			util.LogDebug("failed to send ICE candidate: %v", err)
		}
	})

	// Exits when wsConn is closed by the caller's defer.
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.watch()
	}()

	if offerer {
		if err := s.sendOffer(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("failed to send Offer: %w", err)
		}
	}

	select {
	case <-dc.Ready():
		util.LogSuccess("WebRTC DataChannel established, closing WS")
		return dc, nil

	case err := <-errCh:
		dc.Close()
		return nil, fmt.Errorf("signaling failed: %w", err)

	case <-dc.Done():
		dc.Close()
		return nil, fmt.Errorf("signaling failed: peer connection closed before the DataChannel opened")

	case <-ctx.Done():
		dc.Close()
		return nil, ctx.Err()
	}
}
