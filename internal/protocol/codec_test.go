package protocol

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeDecodeRoundTrip verifies that encoding and decoding are inverse
// operations across flag combinations, boundary values and payload sizes.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		pkt  *Packet
	}{
		{
			name: "SYN with no payload",
			pkt:  &Packet{Seq: 0, Ack: 0, Flags: FlagSYN, Timestamp: 1700000000},
		},
		{
			name: "SYN+ACK",
			pkt:  &Packet{Seq: 1, Ack: 1, Flags: FlagSYN, Timestamp: 42},
		},
		{
			name: "FIN at boundary values",
			pkt:  &Packet{Seq: math.MaxUint32, Ack: math.MaxUint32, Flags: FlagFIN, Timestamp: math.MaxUint32},
		},
		{
			name: "SYN and FIN together",
			pkt:  &Packet{Seq: 7, Ack: 9, Flags: FlagSYN | FlagFIN},
		},
		{
			name: "data unit",
			pkt:  &Packet{Seq: 3, Ack: 0, Payload: bytes.Repeat([]byte("X"), 80)},
		},
		{
			name: "large payload",
			pkt:  &Packet{Seq: 999, Ack: 12, Payload: make([]byte, 1400)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := Encode(tc.pkt)
			require.Len(t, encoded, HeaderSize+len(tc.pkt.Payload))

			decoded, err := Decode(encoded)
			require.NoError(t, err)

			assert.Equal(t, tc.pkt.Seq, decoded.Seq)
			assert.Equal(t, tc.pkt.Ack, decoded.Ack)
			assert.Equal(t, tc.pkt.SYN(), decoded.SYN())
			assert.Equal(t, tc.pkt.FIN(), decoded.FIN())
			assert.Equal(t, tc.pkt.Timestamp, decoded.Timestamp)
			assert.True(t, bytes.Equal(tc.pkt.Payload, decoded.Payload), "payload mismatch")
		})
	}
}

// TestEncodeLayout pins the big-endian header layout byte by byte.
func TestEncodeLayout(t *testing.T) {
	pkt := &Packet{Seq: 0x01020304, Ack: 0x05060708, Flags: FlagSYN | FlagFIN, Timestamp: 0x0A0B0C0D, Payload: []byte("hi")}

	want := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		0x03,
		0x0A, 0x0B, 0x0C, 0x0D,
		'h', 'i',
	}
	assert.Equal(t, want, Encode(pkt))
}

// TestEncodeMasksUnusedFlagBits verifies only bits 0 and 1 reach the wire.
func TestEncodeMasksUnusedFlagBits(t *testing.T) {
	encoded := Encode(&Packet{Flags: 0xFF})
	assert.Equal(t, FlagSYN|FlagFIN, encoded[8])
}

// TestDecodeTooShort verifies that Decode rejects anything shorter than the
// header and never returns a partially populated packet.
func TestDecodeTooShort(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		pkt, err := Decode(make([]byte, n))
		require.Error(t, err, "length %d", n)
		assert.Nil(t, pkt)

		var decErr *DecodeError
		require.ErrorAs(t, err, &decErr)
		assert.Equal(t, n, decErr.Len)
	}
}

// TestDecodeExactHeaderSize verifies that a header-only datagram decodes with
// an empty payload.
func TestDecodeExactHeaderSize(t *testing.T) {
	encoded := Encode(NewPacket(1, 1, 0, nil))
	require.Len(t, encoded, HeaderSize)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded.Payload)
	assert.True(t, decoded.IsPureAck())
	assert.True(t, decoded.HasAck())
}

// TestDecodeCopiesPayload verifies the decoded payload does not alias the
// receive buffer, which transports reuse between reads.
func TestDecodeCopiesPayload(t *testing.T) {
	buf := Encode(&Packet{Seq: 1, Payload: []byte("abc")})

	decoded, err := Decode(buf)
	require.NoError(t, err)

	buf[HeaderSize] = 'z'
	assert.Equal(t, []byte("abc"), decoded.Payload)
}

func TestPacketPredicates(t *testing.T) {
	assert.True(t, (&Packet{Flags: FlagSYN}).SYN())
	assert.False(t, (&Packet{Flags: FlagSYN}).FIN())
	assert.True(t, (&Packet{Flags: FlagFIN}).FIN())
	assert.False(t, (&Packet{Ack: 0}).HasAck())
	assert.False(t, (&Packet{Seq: 2, Payload: []byte{1}}).IsPureAck())
	assert.False(t, (&Packet{Flags: FlagFIN}).IsPureAck())
}
