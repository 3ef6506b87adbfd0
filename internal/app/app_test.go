package app

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/1ureka/1ureka.net.gbn/internal/arq"
	"github.com/1ureka/1ureka.net.gbn/internal/config"
	"github.com/1ureka/1ureka.net.gbn/internal/protocol"
	"github.com/1ureka/1ureka.net.gbn/internal/stats"
	"github.com/1ureka/1ureka.net.gbn/internal/transport"
	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

func TestMain(m *testing.M) {
	util.Silence()
	os.Exit(m.Run())
}

func freeUDPPort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).Port
}

func loopbackConfigs(t *testing.T) (server, client config.Config) {
	cfg := config.Default()
	cfg.Port = freeUDPPort(t)
	cfg.DataTimeout = 50 * time.Millisecond
	cfg.ControlTimeout = 200 * time.Millisecond

	server, client = cfg, cfg
	server.Role = config.RoleServer
	client.Role = config.RoleClient
	require.NoError(t, server.Validate())
	require.NoError(t, client.Validate())
	return server, client
}

func TestLoopbackUDP(t *testing.T) {
	serverCfg, clientCfg := loopbackConfigs(t)
	serverCfg.Seed = 3
	clientCfg.Total = 12

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error { return RunServer(ctx, serverCfg) })
	g.Go(func() error { return RunClient(ctx, clientCfg) })
	require.NoError(t, g.Wait())
}

func TestClientInterruptStillTearsDown(t *testing.T) {
	serverCfg, clientCfg := loopbackConfigs(t)
	serverCfg.LossRate = 0.5
	serverCfg.Seed = 9
	clientCfg.Total = 1000

	serverCtx, serverCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer serverCancel()
	clientCtx, clientCancel := context.WithCancel(context.Background())
	defer clientCancel()

	errc := make(chan error, 1)
	go func() { errc <- RunServer(serverCtx, serverCfg) }()

	time.AfterFunc(300*time.Millisecond, clientCancel)
	err := RunClient(clientCtx, clientCfg)
	assert.ErrorIs(t, err, context.Canceled)

	// The server only returns nil after the full four-way close.
	require.NoError(t, <-errc)
}

func TestServerCountsDrops(t *testing.T) {
	serverCfg, clientCfg := loopbackConfigs(t)
	clientCfg.Total = 6

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	dropped := map[uint32]bool{}
	everyOtherFirstTime := arq.DropperFunc(func(pkt *protocol.Packet) bool {
		if pkt.Seq%2 == 0 && !dropped[pkt.Seq] {
			dropped[pkt.Seq] = true
			return true
		}
		return false
	})

	var g errgroup.Group
	g.Go(func() error { return runServer(ctx, serverCfg, everyOtherFirstTime) })
	g.Go(func() error { return RunClient(ctx, clientCfg) })
	require.NoError(t, g.Wait())
	assert.Len(t, dropped, 3)
}

func TestClientReport(t *testing.T) {
	a, b := transport.Pipe()
	defer a.Close()
	defer b.Close()

	col := stats.NewCollector()
	client := arq.NewClient(a, arq.ClientConfig{WindowSize: 1, Total: 1, ChunkSize: 8, Timeout: time.Second}, col)

	_, err := clientReport(col, client.Sender())
	assert.ErrorIs(t, err, stats.ErrNoSamples)

	col.AddAttempt()
	col.AddAttempt()
	col.SetUnits(1)
	col.AddRTT(4 * time.Millisecond)

	data, err := clientReport(col, client.Sender())
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, data[0])
	assert.Contains(t, data, []string{"Loss rate", "50.00%"})
	assert.Contains(t, data, []string{"Mean RTT", "4.00 ms"})
}
