package sn76489

import "testing"

func TestLatchedVolumeWrite(t *testing.T) {
	c := NewChip(3579545, 44100, Sega)
	c.Write(0x90) // latch channel 0, volume, data 0 (max)
	if c.volume[0] != 0 {
		t.Fatalf("volume[0] = %d, want 0", c.volume[0])
	}
}

func TestTwoByteToneWrite(t *testing.T) {
	c := NewChip(3579545, 44100, Sega)
	c.Write(0x8F) // latch channel 0 tone, low 4 bits = 0xF
	c.Write(0x3F) // data byte, high 6 bits = 0x3F
	want := uint16(0x3FF)
	if c.toneReg[0] != want {
		t.Fatalf("toneReg[0] = %#x, want %#x", c.toneReg[0], want)
	}
}

func TestToneZeroAsOneForSega(t *testing.T) {
	c := NewChip(3579545, 44100, Sega)
	c.Write(0x80) // latch channel 0 tone, data 0
	c.Write(0x00) // high bits 0 too -> toneReg[0] == 0
	if c.toneReg[0] != 0 {
		t.Fatalf("toneReg[0] = %d, want 0", c.toneReg[0])
	}
	c.Write(0x9F) // volume channel0 = max so output is audible
	buf := make([]int32, 64)
	c.Update(buf, len(buf))
	if c.toneCount[0] == 0 {
		t.Fatalf("tone counter reloaded to 0, Sega variant must treat 0 as 1")
	}
}

func TestNoiseFeedbackTapsDifferByVariant(t *testing.T) {
	sega := NewChip(3579545, 44100, Sega)
	ti := NewChip(3579545, 44100, TI)
	if sega.noiseTaps == ti.noiseTaps {
		t.Fatalf("expected Sega and TI noise tap masks to differ")
	}
	if sega.feedbackShift == ti.feedbackShift {
		t.Fatalf("expected Sega (16-bit) and TI (15-bit) LFSR widths to differ")
	}
}

func TestUpdateProducesNonZeroOutputWhenUnmuted(t *testing.T) {
	c := NewChip(3579545, 44100, Sega)
	c.Write(0x86) // tone0 low nibble 6
	c.Write(0x00) // tone0 high bits 0 -> small divider, audible frequency
	c.Write(0x90) // volume0 = 0 (max)

	buf := make([]int32, 256)
	c.Update(buf, len(buf))

	nonZero := false
	for _, v := range buf {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("expected at least one non-zero sample from an unmuted tone channel")
	}
}
