// Package vgm parses VGM (Video Game Music) logs and interprets their
// command stream against a YM2612 and an SN76489.
package vgm

import (
	"encoding/binary"
	"fmt"
)

// Header is the subset of the VGM file header this player cares about:
// the two chip clocks and where the command stream begins. Grounded on
// VGM_HEADER in original_source/vgmplay.h.
type Header struct {
	Version     uint32
	PSGClock    uint32
	YM2612Clock uint32
	DataOffset  uint32

	TotalSamples uint32
	LoopOffset   uint32
	LoopSamples  uint32
}

const (
	offFCC         = 0x00
	offVersion     = 0x08
	offPSGClock    = 0x0C
	offTotalSample = 0x18
	offLoopOffset  = 0x1C
	offLoopSamples = 0x20
	offYM2612Clock = 0x2C
	offDataOffset  = 0x34

	minHeaderLen = 0x40

	// DefaultPSGClock and DefaultYM2612Clock are substituted when the
	// corresponding header field is 0, per spec.
	DefaultPSGClock    = 3579545
	DefaultYM2612Clock = 7670453
)

var fcc = [4]byte{'V', 'g', 'm', ' '}

// ParseHeader reads a VGM header from the start of data. data must already
// be ungzipped (see the VGZ handling in cmd/vgmplay).
func ParseHeader(data []byte) (Header, error) {
	if len(data) < minHeaderLen {
		return Header{}, fmt.Errorf("vgm: file too short for a header (%d bytes)", len(data))
	}
	if data[0] != fcc[0] || data[1] != fcc[1] || data[2] != fcc[2] || data[3] != fcc[3] {
		return Header{}, fmt.Errorf("vgm: missing 'Vgm ' magic")
	}

	h := Header{
		Version:      binary.LittleEndian.Uint32(data[offVersion:]),
		PSGClock:     binary.LittleEndian.Uint32(data[offPSGClock:]),
		YM2612Clock:  binary.LittleEndian.Uint32(data[offYM2612Clock:]),
		TotalSamples: binary.LittleEndian.Uint32(data[offTotalSample:]),
		LoopOffset:   binary.LittleEndian.Uint32(data[offLoopOffset:]),
		LoopSamples:  binary.LittleEndian.Uint32(data[offLoopSamples:]),
	}

	dataOffset := binary.LittleEndian.Uint32(data[offDataOffset:])
	if h.Version >= 0x150 {
		h.DataOffset = offDataOffset + dataOffset
	} else {
		h.DataOffset = minHeaderLen
	}
	if int(h.DataOffset) > len(data) {
		return Header{}, fmt.Errorf("vgm: data offset %#x beyond file length %#x", h.DataOffset, len(data))
	}

	// Clock fields may set the dual-chip bit (0x40000000); this player
	// only ever drives one instance of each chip, so mask it off.
	h.PSGClock &^= 0x40000000
	h.YM2612Clock &^= 0x40000000

	if h.PSGClock == 0 {
		h.PSGClock = DefaultPSGClock
	}
	if h.YM2612Clock == 0 {
		h.YM2612Clock = DefaultYM2612Clock
	}

	return h, nil
}
