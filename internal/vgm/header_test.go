package vgm

import (
	"encoding/binary"
	"testing"
)

func makeHeader(version, psgClock, ymClock, dataOffsetField uint32) []byte {
	buf := make([]byte, 0x100)
	copy(buf[0:4], "Vgm ")
	binary.LittleEndian.PutUint32(buf[offVersion:], version)
	binary.LittleEndian.PutUint32(buf[offPSGClock:], psgClock)
	binary.LittleEndian.PutUint32(buf[offYM2612Clock:], ymClock)
	binary.LittleEndian.PutUint32(buf[offDataOffset:], dataOffsetField)
	return buf
}

func TestParseHeaderModernVersionUsesRelativeDataOffset(t *testing.T) {
	data := makeHeader(0x161, 3579545, 7670453, 0x0C) // data starts at 0x34+0x0C=0x40
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.DataOffset != 0x40 {
		t.Fatalf("DataOffset = %#x, want 0x40", h.DataOffset)
	}
	if h.PSGClock != 3579545 || h.YM2612Clock != 7670453 {
		t.Fatalf("clocks = %d/%d, want 3579545/7670453", h.PSGClock, h.YM2612Clock)
	}
}

func TestParseHeaderLegacyVersionUsesFixedOffset(t *testing.T) {
	data := makeHeader(0x101, 3579545, 7670453, 0)
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.DataOffset != minHeaderLen {
		t.Fatalf("DataOffset = %#x, want %#x", h.DataOffset, minHeaderLen)
	}
}

func TestParseHeaderZeroClocksUseDefaults(t *testing.T) {
	data := makeHeader(0x161, 0, 0, 0x0C)
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.PSGClock != DefaultPSGClock || h.YM2612Clock != DefaultYM2612Clock {
		t.Fatalf("clocks = %d/%d, want defaults %d/%d", h.PSGClock, h.YM2612Clock, DefaultPSGClock, DefaultYM2612Clock)
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	data := makeHeader(0x161, 0, 0, 0)
	data[0] = 'X'
	if _, err := ParseHeader(data); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestParseHeaderRejectsShortFile(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 4)); err == nil {
		t.Fatalf("expected error for short file")
	}
}
