package transport

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

const (
	highWaterMark   = 256 * 1024 // drop outbound datagrams while bufferedAmount exceeds this
	inboxBufferSize = 256        // inbound datagram queue capacity
)

// DataChannel wraps a single PeerConnection + DataChannel pair as a datagram
// Conn. Signaling is driven through the exposed SDP/ICE methods; once Ready
// fires, ReadPacket/WritePacket carry protocol datagrams.
type DataChannel struct {
	pc *webrtc.PeerConnection
	dc *webrtc.DataChannel

	inbox      chan []byte
	openSignal chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.RWMutex
	localAddr  net.Addr
	remoteAddr net.Addr

	closeOnce sync.Once
	closeErr  error
}

// NewDataChannel creates a PeerConnection with a pre-negotiated unreliable
// DataChannel. The carrier is alive until Close, ctx cancellation, or the
// channel closing remotely.
func NewDataChannel(ctx context.Context, iceServers []string) (*DataChannel, error) {
	pc, err := newPeerConnection(iceServers)
	if err != nil {
		return nil, err
	}

	dc, err := newDataChannel(pc)
	if err != nil {
		pc.Close()
		return nil, err
	}

	tCtx, tCancel := context.WithCancel(ctx)

	t := &DataChannel{
		pc:         pc,
		dc:         dc,
		inbox:      make(chan []byte, inboxBufferSize),
		openSignal: make(chan struct{}),
		ctx:        tCtx,
		cancel:     tCancel,
	}

	var openOnce sync.Once
	dc.OnOpen(func() {
		openOnce.Do(func() { close(t.openSignal) })
	})

	dc.OnClose(func() {
		util.LogDebug("DataChannel closed")
		tCancel()
	})

	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		data := make([]byte, len(msg.Data))
		copy(data, msg.Data)
		util.Traffic.AddRecv(len(data))

		select {
		case t.inbox <- data:
		default:
			util.LogDebug("DataChannel inbox full, dropping datagram")
		}
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		util.LogDebug("PeerConnection state: %s", state.String())
		if state == webrtc.PeerConnectionStateFailed {
			tCancel()
		}
	})

	return t, nil
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Ready returns a channel that is closed once the DataChannel is open.
func (t *DataChannel) Ready() <-chan struct{} {
	return t.openSignal
}

// Done returns a channel that is closed when the carrier shuts down.
func (t *DataChannel) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Close shuts down the DataChannel and PeerConnection.
func (t *DataChannel) Close() error {
	t.closeOnce.Do(func() {
		t.cancel()
		t.closeErr = errors.Join(t.dc.Close(), t.pc.Close())
	})
	return t.closeErr
}

// SetAddrs records the endpoint addresses learned during signaling. They
// only label log lines.
func (t *DataChannel) SetAddrs(local, remote net.Addr) {
	t.mu.Lock()
	t.localAddr, t.remoteAddr = local, remote
	t.mu.Unlock()
}

func (t *DataChannel) LocalAddr() net.Addr {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.localAddr
}

func (t *DataChannel) RemoteAddr() net.Addr {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.remoteAddr
}

// ---------------------------------------------------------------------------
// Signaling
// ---------------------------------------------------------------------------

// CreateOffer generates an SDP offer.
func (t *DataChannel) CreateOffer() (webrtc.SessionDescription, error) {
	return t.pc.CreateOffer(nil)
}

// CreateAnswer generates an SDP answer.
func (t *DataChannel) CreateAnswer() (webrtc.SessionDescription, error) {
	return t.pc.CreateAnswer(nil)
}

// SetLocalDescription applies the local SDP.
func (t *DataChannel) SetLocalDescription(sdp webrtc.SessionDescription) error {
	return t.pc.SetLocalDescription(sdp)
}

// SetRemoteDescription applies the remote SDP.
func (t *DataChannel) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	return t.pc.SetRemoteDescription(sdp)
}

// OnICECandidate registers a callback invoked for every gathered local
// candidate. A nil candidate signals the end of gathering.
func (t *DataChannel) OnICECandidate(fn func(*webrtc.ICECandidate)) {
	t.pc.OnICECandidate(fn)
}

// AddICECandidate adds a remote candidate received through signaling.
func (t *DataChannel) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	return t.pc.AddICECandidate(candidate)
}

// ---------------------------------------------------------------------------
// Data
// ---------------------------------------------------------------------------

func (t *DataChannel) ReadPacket(deadline time.Time) ([]byte, error) {
	var timeout <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case data := <-t.inbox:
		return data, nil
	case <-timeout:
		return nil, ErrTimeout
	case <-t.ctx.Done():
		return nil, ErrClosed
	}
}

// WritePacket blocks until the channel is open, then sends one message.
// Above the high-water mark the datagram is dropped, as a congested socket
// would.
func (t *DataChannel) WritePacket(b []byte) error {
	select {
	case <-t.openSignal:
	case <-t.ctx.Done():
		return ErrClosed
	}

	if t.dc.BufferedAmount() > uint64(highWaterMark) {
		util.LogDebug("DataChannel buffer above high-water mark, dropping datagram")
		return nil
	}

	if err := t.dc.Send(b); err != nil {
		return err
	}
	util.Traffic.AddSent(len(b))
	return nil
}
