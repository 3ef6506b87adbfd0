package signaling

import (
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v4"
)

// wsReader is the read half of a WebSocket connection.
type wsReader interface {
	ReadJSON(v interface{}) error
}

// receiver applies inbound signaling messages to the peer.
type receiver struct {
	pc     peer
	conn   wsReader
	sender *sender

	// Candidates can overtake the description they belong to, so they wait
	// here until a remote description is set.
	haveRemote bool
	pending    []webrtc.ICECandidateInit
}

// watch reads messages until the WebSocket fails or closes.
func (r *receiver) watch() error {
	for {
		var msg message
		if err := r.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read WS message: %w", err)
		}
		if err := r.handle(msg); err != nil {
			return err
		}
	}
}

func (r *receiver) handle(msg message) error {
	switch msg.Type {
	case msgTypeOffer:
		if err := r.setRemote(webrtc.SDPTypeOffer, msg.SDP); err != nil {
			return err
		}
		return r.sender.sendAnswer()

	case msgTypeAnswer:
		return r.setRemote(webrtc.SDPTypeAnswer, msg.SDP)

	case msgTypeCandidate:
		var init webrtc.ICECandidateInit
		if err := json.Unmarshal([]byte(msg.Candidate), &init); err != nil {
			return fmt.Errorf("failed to parse ICE candidate: %w", err)
		}
		if !r.haveRemote {
			r.pending = append(r.pending, init)
			return nil
		}
		return r.pc.AddICECandidate(init)

	default:
		return fmt.Errorf("unknown signaling message type %q", msg.Type)
	}
}

func (r *receiver) setRemote(typ webrtc.SDPType, sdp string) error {
	if err := r.pc.SetRemoteDescription(webrtc.SessionDescription{Type: typ, SDP: sdp}); err != nil {
		return fmt.Errorf("failed to set remote %s: %w", typ, err)
	}
	r.haveRemote = true

	for _, c := range r.pending {
		if err := r.pc.AddICECandidate(c); err != nil {
			return err
		}
	}
	r.pending = nil
	return nil
}
