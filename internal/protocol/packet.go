// Package protocol defines the datagram format shared by both peers.
package protocol

import "time"

// Flag bits carried in the header's flags byte. The remaining bits are unused.
const (
	FlagFIN uint8 = 0x01 // bit 0
	FlagSYN uint8 = 0x02 // bit 1
)

// HeaderSize is the fixed header size: Seq(4) + Ack(4) + Flags(1) + Timestamp(4).
const HeaderSize = 13

// Packet is a single protocol datagram. The payload length is implied by the
// datagram boundary; there is no length field on the wire.
type Packet struct {
	Seq       uint32
	Ack       uint32
	Flags     uint8
	Timestamp uint32 // Unix seconds at encode time
	Payload   []byte
}

// NewPacket builds a packet stamped with the current time.
func NewPacket(seq, ack uint32, flags uint8, payload []byte) *Packet {
	return &Packet{
		Seq:       seq,
		Ack:       ack,
		Flags:     flags,
		Timestamp: uint32(time.Now().Unix()),
		Payload:   payload,
	}
}

func (p *Packet) SYN() bool { return p.Flags&FlagSYN != 0 }
func (p *Packet) FIN() bool { return p.Flags&FlagFIN != 0 }

// HasAck reports whether the packet acknowledges anything. The header has no
// ACK bit, so a non-zero ack field plays that role.
func (p *Packet) HasAck() bool { return p.Ack != 0 }

// IsPureAck reports whether the packet carries neither flags nor data.
func (p *Packet) IsPureAck() bool {
	return p.Flags&(FlagSYN|FlagFIN) == 0 && len(p.Payload) == 0
}
