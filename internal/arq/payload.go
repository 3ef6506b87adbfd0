package arq

import (
	"fmt"
	"strings"
)

// ByteRange returns the 1-based inclusive byte range unit seq covers.
func ByteRange(seq uint32, chunkSize int) (start, end int) {
	return (int(seq)-1)*chunkSize + 1, int(seq) * chunkSize
}

// UnitPayload builds the application data for unit seq: an ASCII label of
// its byte range, right-padded with 'X' to exactly chunkSize bytes.
func UnitPayload(seq uint32, chunkSize int) []byte {
	start, end := ByteRange(seq, chunkSize)
	label := fmt.Sprintf("Data from byte %d to %d", start, end)
	if len(label) >= chunkSize {
		return []byte(label[:chunkSize])
	}
	return []byte(label + strings.Repeat("X", chunkSize-len(label)))
}
