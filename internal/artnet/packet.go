// Package artnet implements the LED Output component of spec.md §4.4: ArtNet
// DMX packet encoding and per-controller UDP dispatch. Grounded in the
// teacher's internal/driver package (a Driver interface wrapping a
// device-specific wire format builder) and internal/gamesense/client.go
// (fire-and-forget network send with non-fatal per-send errors), reworked
// from a single local USB HID device to many networked ArtNet universes.
package artnet

import "encoding/binary"

// Port is the fixed ArtNet UDP port of spec.md §4.4.
const Port = 6454

// MaxUniverseBytes is the maximum DMX payload per packet.
const MaxUniverseBytes = 512

var artNetID = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0}

const (
	opDMX       = 0x5000
	protocolVer = 14
)

// EncodePacket builds the wire-format ArtNet DMX packet of spec.md §4.4:
// 8-byte ID, little-endian opcode, big-endian protocol version, sequence,
// physical byte, little-endian universe, big-endian length, then the DMX
// payload verbatim (no padding).
func EncodePacket(dst []byte, sequence uint8, universe uint16, data []byte) int {
	if len(data) > MaxUniverseBytes {
		data = data[:MaxUniverseBytes]
	}
	copy(dst[0:8], artNetID[:])
	binary.LittleEndian.PutUint16(dst[8:10], opDMX)
	binary.BigEndian.PutUint16(dst[10:12], protocolVer)
	dst[12] = sequence
	dst[13] = 0 // physical
	binary.LittleEndian.PutUint16(dst[14:16], universe)
	binary.BigEndian.PutUint16(dst[16:18], uint16(len(data)))
	n := copy(dst[18:], data)
	return 18 + n
}

// DecodePacket parses a wire-format packet, returning false if the header
// doesn't match ArtNet DMX. Used by tests and the Simulator's loopback
// verification.
func DecodePacket(pkt []byte) (sequence uint8, universe uint16, data []byte, ok bool) {
	if len(pkt) < 18 {
		return 0, 0, nil, false
	}
	for i := 0; i < 8; i++ {
		if pkt[i] != artNetID[i] {
			return 0, 0, nil, false
		}
	}
	if binary.LittleEndian.Uint16(pkt[8:10]) != opDMX {
		return 0, 0, nil, false
	}
	if binary.BigEndian.Uint16(pkt[10:12]) != protocolVer {
		return 0, 0, nil, false
	}
	sequence = pkt[12]
	universe = binary.LittleEndian.Uint16(pkt[14:16])
	length := binary.BigEndian.Uint16(pkt[16:18])
	if int(length) > len(pkt)-18 {
		return 0, 0, nil, false
	}
	data = pkt[18 : 18+int(length)]
	return sequence, universe, data, true
}

// nextSequence advances an ArtNet sequence counter, wrapping 1..255 and
// skipping 0 (which spec.md §6 reserves for "sequencing disabled").
func nextSequence(seq uint8) uint8 {
	seq++
	if seq == 0 {
		seq = 1
	}
	return seq
}
