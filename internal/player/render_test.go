package player

import (
	"encoding/binary"
	"testing"
)

func buildVGM(stream []byte) []byte {
	header := make([]byte, 0x40)
	copy(header[0:4], "Vgm ")
	binary.LittleEndian.PutUint32(header[0x08:], 0x150)
	binary.LittleEndian.PutUint32(header[0x0C:], 3579545)
	binary.LittleEndian.PutUint32(header[0x2C:], 7670453)
	binary.LittleEndian.PutUint32(header[0x34:], 0x0C) // data at 0x34+0x0C=0x40
	return append(header, stream...)
}

func TestRenderIntoProducesRequestedFramesThenStops(t *testing.T) {
	data := buildVGM([]byte{
		0x52, 0x28, 0xF0, // key on channel 0
		0x61, 0x20, 0x00, // wait 32 samples
		0x66, // end
	})
	p, err := New(data, false)
	if err != nil {
		t.Fatal(err)
	}

	out := make([]int16, 128) // 64 frames requested, only 32 available
	n := p.RenderInto(out)
	if n != 32 {
		t.Fatalf("RenderInto returned %d frames, want 32", n)
	}
	if !p.Ended() {
		t.Fatalf("expected playback to have ended")
	}
}

func TestRenderIntoLoopsWhenRequested(t *testing.T) {
	header := make([]byte, 0x40)
	copy(header[0:4], "Vgm ")
	binary.LittleEndian.PutUint32(header[0x08:], 0x150)
	binary.LittleEndian.PutUint32(header[0x0C:], 3579545)
	binary.LittleEndian.PutUint32(header[0x2C:], 7670453)
	binary.LittleEndian.PutUint32(header[0x34:], 0x0C)
	binary.LittleEndian.PutUint32(header[0x1C:], 0x40) // loop offset = data start

	stream := []byte{0x61, 0x10, 0x00, 0x66}
	data := append(header, stream...)

	p, err := New(data, true)
	if err != nil {
		t.Fatal(err)
	}

	out := make([]int16, 16*2*3) // three loop iterations worth of frames
	n := p.RenderInto(out)
	if n != 16*3 {
		t.Fatalf("RenderInto with loop returned %d frames, want %d", n, 16*3)
	}
}

func TestClip16SaturatesAtInt16Bounds(t *testing.T) {
	if clip16(100000) != 0x7FFF {
		t.Fatalf("clip16(100000) = %d, want 0x7FFF", clip16(100000))
	}
	if clip16(-100000) != -0x7FFF {
		t.Fatalf("clip16(-100000) = %d, want -0x7FFF", clip16(-100000))
	}
	if clip16(42) != 42 {
		t.Fatalf("clip16(42) = %d, want 42", clip16(42))
	}
}
