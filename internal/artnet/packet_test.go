package artnet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	buf := make([]byte, 18+MaxUniverseBytes)
	n := EncodePacket(buf, 7, 42, data)
	require.Equal(t, 18+len(data), n)

	seq, universe, decoded, ok := DecodePacket(buf[:n])
	require.True(t, ok)
	require.Equal(t, uint8(7), seq)
	require.Equal(t, uint16(42), universe)
	require.Equal(t, data, decoded)
}

func TestEncodePacketHeaderBytes(t *testing.T) {
	buf := make([]byte, 18+MaxUniverseBytes)
	n := EncodePacket(buf, 1, 0, []byte{1, 2, 3})
	require.Equal(t, "Art-Net\x00", string(buf[0:8]))
	require.Equal(t, byte(0x00), buf[8])
	require.Equal(t, byte(0x50), buf[9])
	require.Equal(t, byte(0x00), buf[10])
	require.Equal(t, byte(0x0e), buf[11])
	require.Equal(t, 21, n)
}

func TestEncodePacketTruncatesOversizedPayload(t *testing.T) {
	oversized := make([]byte, MaxUniverseBytes+100)
	buf := make([]byte, 18+MaxUniverseBytes)
	n := EncodePacket(buf, 1, 0, oversized)
	require.Equal(t, 18+MaxUniverseBytes, n)
}

func TestDecodePacketRejectsBadHeader(t *testing.T) {
	bad := make([]byte, 18)
	copy(bad, "Not-ArtX")
	_, _, _, ok := DecodePacket(bad)
	require.False(t, ok)
}

func TestDecodePacketRejectsShortPacket(t *testing.T) {
	_, _, _, ok := DecodePacket(make([]byte, 10))
	require.False(t, ok)
}

func TestNextSequenceWrapsSkippingZero(t *testing.T) {
	require.Equal(t, uint8(2), nextSequence(1))
	require.Equal(t, uint8(1), nextSequence(255))
}

func TestUniverseChunkSizeNeverSplitsAPixel(t *testing.T) {
	// 171 pixels * 3 bytes = 513 bytes: the first chunk must stop at a pixel
	// boundary (510, not 512) so pixel 170's RGB bytes never straddle two
	// universes.
	const totalBytes = 171 * 3
	first := universeChunkSize(totalBytes, 0)
	require.Equal(t, 510, first)
	require.Zero(t, first%3)

	second := universeChunkSize(totalBytes, first)
	require.Equal(t, totalBytes-first, second)
}

func TestUniverseChunkSizeExactMultiple(t *testing.T) {
	const totalBytes = 170 * 3
	require.Equal(t, totalBytes, universeChunkSize(totalBytes, 0))
}
