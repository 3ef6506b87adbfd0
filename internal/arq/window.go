package arq

import "time"

// windowEntry is one unacknowledged unit.
type windowEntry struct {
	seq     uint32
	sentAt  time.Time
	payload []byte
	used    bool
}

// window holds outstanding units in a ring indexed by seq modulo its size.
// Outstanding sequence numbers always span fewer than size consecutive
// values, so no two share a slot.
type window struct {
	slots []windowEntry
	count int
}

func newWindow(size int) *window {
	return &window{slots: make([]windowEntry, size)}
}

func (w *window) slot(seq uint32) *windowEntry {
	return &w.slots[seq%uint32(len(w.slots))]
}

// put records seq as sent at sentAt, replacing an earlier send of it.
func (w *window) put(seq uint32, sentAt time.Time, payload []byte) {
	e := w.slot(seq)
	if !e.used {
		w.count++
	}
	*e = windowEntry{seq: seq, sentAt: sentAt, payload: payload, used: true}
}

func (w *window) get(seq uint32) (*windowEntry, bool) {
	e := w.slot(seq)
	if !e.used || e.seq != seq {
		return nil, false
	}
	return e, true
}

// ackThrough drops every entry in [from, ack] and returns how many it removed.
func (w *window) ackThrough(from, ack uint32) int {
	removed := 0
	for seq := from; seq <= ack; seq++ {
		if e, ok := w.get(seq); ok {
			*e = windowEntry{}
			w.count--
			removed++
		}
		if seq == ^uint32(0) {
			break
		}
	}
	return removed
}

func (w *window) len() int { return w.count }
