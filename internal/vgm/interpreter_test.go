package vgm

import (
	"encoding/binary"
	"testing"

	"github.com/h1romas4/m5stack-synth-emulation/internal/sn76489"
	"github.com/h1romas4/m5stack-synth-emulation/internal/ym2612"
)

func newTestInterpreter(t *testing.T, stream []byte) *Interpreter {
	t.Helper()
	// makeHeader returns a 0x100-byte buffer, so the data offset (relative
	// to 0x34) points just past it, where the stream is appended.
	header := makeHeader(0x150, 3579545, 7670453, 0x100-offDataOffset)
	data := append(header, stream...)
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	ym := ym2612.NewChip(float64(h.YM2612Clock), 44100)
	psg := sn76489.NewChip(float64(h.PSGClock), 44100, sn76489.Sega)
	return New(data, h, ym, psg)
}

func TestStepDecodesWaitShort(t *testing.T) {
	in := newTestInterpreter(t, []byte{0x61, 0x10, 0x00, 0x66})
	wait, ended, err := in.Step()
	if err != nil || ended || wait != 0x10 {
		t.Fatalf("wait=%d ended=%v err=%v, want 16,false,nil", wait, ended, err)
	}
}

func TestStepDecodesNibbleWaits(t *testing.T) {
	in := newTestInterpreter(t, []byte{0x75, 0x66})
	wait, ended, err := in.Step()
	if err != nil || ended || wait != 6 {
		t.Fatalf("wait=%d ended=%v err=%v, want 6,false,nil", wait, ended, err)
	}
}

func TestStepEndsOnCommand66(t *testing.T) {
	in := newTestInterpreter(t, []byte{0x66})
	_, ended, err := in.Step()
	if err != nil || !ended {
		t.Fatalf("ended=%v err=%v, want true,nil", ended, err)
	}
}

func TestStepDispatchesYM2612Writes(t *testing.T) {
	in := newTestInterpreter(t, []byte{0x52, 0x28, 0xF0, 0x66})
	if _, _, err := in.Step(); err != nil {
		t.Fatal(err)
	}
	if v, ok := in.ym.Register(0x28); !ok || v != 0xF0 {
		t.Fatalf("Register(0x28) = %#x,%v, want 0xf0,true", v, ok)
	}
	if in.ym.Status() != 0 {
		t.Fatalf("unexpected status bits set")
	}
}

func TestUnknownCommandInvokesCallback(t *testing.T) {
	in := newTestInterpreter(t, []byte{0xFE, 0x66})
	var gotCmd byte
	called := false
	in.OnUnknownCommand(func(cmd byte, pos uint32) {
		called = true
		gotCmd = cmd
	})
	if _, _, err := in.Step(); err != nil {
		t.Fatal(err)
	}
	if !called || gotCmd != 0xFE {
		t.Fatalf("expected unknown-command callback for 0xFE")
	}
}

func TestDataBlockIsSkippedAndPCMCaptured(t *testing.T) {
	block := make([]byte, 4)
	binary.LittleEndian.PutUint32(block, 2)
	stream := append([]byte{0x67, 0x66, 0x00}, block...)
	stream = append(stream, 0xAA, 0xBB)
	stream = append(stream, 0x80, 0x66) // DAC write from pcm[0], then end
	in := newTestInterpreter(t, stream)

	if _, _, err := in.Step(); err != nil { // 0x67 data block
		t.Fatal(err)
	}
	if len(in.pcmBank) != 2 || in.pcmBank[0] != 0xAA {
		t.Fatalf("pcmBank = %v, want [0xAA 0xBB]", in.pcmBank)
	}
	if _, _, err := in.Step(); err != nil { // 0x80
		t.Fatal(err)
	}
	if in.pcmPos != 1 {
		t.Fatalf("pcmPos = %d, want 1 after one DAC write", in.pcmPos)
	}
}
