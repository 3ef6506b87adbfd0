package protocol

import (
	"encoding/binary"
	"fmt"
)

// DecodeError is returned when a datagram is too short to hold a header.
type DecodeError struct {
	Len int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("packet too short: %d bytes (need at least %d)", e.Len, HeaderSize)
}

// Encode serializes a Packet as header||payload, big-endian.
func Encode(pkt *Packet) []byte {
	buf := make([]byte, HeaderSize+len(pkt.Payload))
	binary.BigEndian.PutUint32(buf[0:4], pkt.Seq)
	binary.BigEndian.PutUint32(buf[4:8], pkt.Ack)
	buf[8] = pkt.Flags & (FlagSYN | FlagFIN)
	binary.BigEndian.PutUint32(buf[9:13], pkt.Timestamp)
	copy(buf[HeaderSize:], pkt.Payload)
	return buf
}

// Decode deserializes a datagram. Every byte past the header is payload.
func Decode(data []byte) (*Packet, error) {
	if len(data) < HeaderSize {
		return nil, &DecodeError{Len: len(data)}
	}
	pkt := &Packet{
		Seq:       binary.BigEndian.Uint32(data[0:4]),
		Ack:       binary.BigEndian.Uint32(data[4:8]),
		Flags:     data[8] & (FlagSYN | FlagFIN),
		Timestamp: binary.BigEndian.Uint32(data[9:13]),
	}
	if len(data) > HeaderSize {
		pkt.Payload = make([]byte, len(data)-HeaderSize)
		copy(pkt.Payload, data[HeaderSize:])
	}
	return pkt, nil
}
