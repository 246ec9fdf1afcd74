package vgm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/h1romas4/m5stack-synth-emulation/internal/sn76489"
	"github.com/h1romas4/m5stack-synth-emulation/internal/ym2612"
)

// Interpreter walks a VGM command stream, dispatching register writes to a
// YM2612 and an SN76489 and reporting the wait (in samples) after each
// command. Grounded on parse_vgm in original_source/vgmplay.cpp, extended
// per this module's spec to handle PCM data blocks (0x67) and DAC stream
// writes/seeks (0x80-0x8F, 0xE0) that the reference implementation left
// as "not implemented" stubs.
type Interpreter struct {
	data []byte
	pos  uint32

	loopOffset uint32

	pcmBank []byte
	pcmPos  int

	ym  *ym2612.Chip
	psg *sn76489.Chip

	onUnknown func(cmd byte, pos uint32)
}

// New builds an Interpreter positioned at the header's data offset.
func New(data []byte, h Header, ym *ym2612.Chip, psg *sn76489.Chip) *Interpreter {
	return &Interpreter{
		data:       data,
		pos:        h.DataOffset,
		loopOffset: h.LoopOffset,
		ym:         ym,
		psg:        psg,
	}
}

// OnUnknownCommand installs a callback invoked for any command byte this
// interpreter doesn't recognize, before skipping one byte and continuing.
func (in *Interpreter) OnUnknownCommand(fn func(cmd byte, pos uint32)) {
	in.onUnknown = fn
}

// AtLoopPoint reports whether the stream has a loop offset and the
// interpreter currently sits at it (used by callers implementing
// infinite/looped playback).
func (in *Interpreter) AtLoopPoint() bool {
	return in.loopOffset != 0 && in.pos == in.loopOffset
}

// Rewind jumps back to the stream's loop point, if any; returns false if
// the file declares no loop.
func (in *Interpreter) Rewind() bool {
	if in.loopOffset == 0 {
		return false
	}
	in.pos = in.loopOffset
	return true
}

func (in *Interpreter) u8() byte {
	v := in.data[in.pos]
	in.pos++
	return v
}

func (in *Interpreter) u16() uint16 {
	v := binary.LittleEndian.Uint16(in.data[in.pos:])
	in.pos += 2
	return v
}

func (in *Interpreter) u32() uint32 {
	v := binary.LittleEndian.Uint32(in.data[in.pos:])
	in.pos += 4
	return v
}

// Step executes one command and returns the number of samples to wait
// before the next one, and whether the stream has ended (0x66).
func (in *Interpreter) Step() (wait uint16, ended bool, err error) {
	if in.pos >= uint32(len(in.data)) {
		return 0, true, io.ErrUnexpectedEOF
	}

	cmd := in.u8()
	switch {
	case cmd == 0x50:
		in.psg.Write(in.u8())
	case cmd == 0x52 || cmd == 0x53:
		reg := in.u8()
		dat := in.u8()
		port := int((cmd & 1) << 1)
		in.ym.Write(port, reg)
		in.ym.Write(port+1, dat)
	case cmd == 0x4F || cmd == 0x51 || cmd == 0x54 || cmd == 0x55 || cmd == 0x56 || cmd == 0x57:
		// GG stereo / other-chip writes this player doesn't model: consume
		// and discard their fixed operand width.
		in.u8()
		if cmd != 0x4F {
			in.u8()
		}
	case cmd == 0x61:
		wait = in.u16()
	case cmd == 0x62:
		wait = 735
	case cmd == 0x63:
		wait = 882
	case cmd == 0x66:
		return 0, true, nil
	case cmd == 0x67:
		in.readDataBlock()
	case cmd >= 0x70 && cmd <= 0x7F:
		wait = uint16(cmd&0x0F) + 1
	case cmd >= 0x80 && cmd <= 0x8F:
		if in.pcmBank != nil && in.pcmPos < len(in.pcmBank) {
			sample := in.pcmBank[in.pcmPos]
			in.pcmPos++
			in.ym.Write(0, 0x2A)
			in.ym.Write(1, sample)
		}
		wait = uint16(cmd & 0x0F)
	case cmd == 0xE0:
		in.pcmPos = int(in.u32())
	default:
		if in.onUnknown != nil {
			in.onUnknown(cmd, in.pos-1)
		}
	}
	return wait, false, nil
}

// readDataBlock handles the 0x67 data-block command: 0x66 marker byte,
// one-byte data type, a 32-bit length, then the raw bytes. Only type
// 0x00 (YM2612 PCM, used by the 0x80-0x8F DAC-stream commands) is kept;
// any other type is skipped. Grounded on spec's description of the
// mechanism the reference vgmplay.cpp stubbed out.
func (in *Interpreter) readDataBlock() {
	_ = in.u8() // 0x66 marker
	dataType := in.u8()
	size := in.u32()
	end := in.pos + size
	if end > uint32(len(in.data)) {
		end = uint32(len(in.data))
	}
	if dataType == 0x00 {
		in.pcmBank = in.data[in.pos:end]
		in.pcmPos = 0
	}
	in.pos = end
}

// Err wraps an interpreter position into an error, used by callers that
// want to report where a malformed stream was detected.
func (in *Interpreter) Err(msg string) error {
	return fmt.Errorf("vgm: %s at offset %#x", msg, in.pos)
}
