// Package player drives a vgm.Interpreter against a YM2612 and an
// SN76489, rendering interleaved signed 16-bit stereo PCM in
// MaxUpdateLength-sized chunks. Grounded on the render loop in
// original_source/vgmplay.cpp's main().
package player

import (
	"github.com/h1romas4/m5stack-synth-emulation/internal/sn76489"
	"github.com/h1romas4/m5stack-synth-emulation/internal/vgm"
	"github.com/h1romas4/m5stack-synth-emulation/internal/ym2612"
)

// SampleRate is the fixed output rate this player renders at.
const SampleRate = 44100

// Player owns the two sound chips and the command-stream interpreter and
// turns VGM playback into a stream of interleaved stereo samples.
type Player struct {
	interp *vgm.Interpreter
	ym     *ym2612.Chip
	psg    *sn76489.Chip

	header vgm.Header

	pendingSamples uint32
	ended          bool
	loop           bool

	bufL, bufR, bufMix [ym2612.MaxUpdateLength]int32

	framesRendered uint64
}

// New constructs a Player for the given VGM file contents. loop selects
// whether playback rewinds to the file's loop point instead of stopping
// at the end when one is present.
func New(data []byte, loop bool) (*Player, error) {
	h, err := vgm.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	ym := ym2612.NewChip(float64(h.YM2612Clock), SampleRate)
	psg := sn76489.NewChip(float64(h.PSGClock), SampleRate, sn76489.Sega)
	interp := vgm.New(data, h, ym, psg)

	return &Player{
		interp: interp,
		ym:     ym,
		psg:    psg,
		header: h,
		loop:   loop,
	}, nil
}

// Header returns the parsed VGM header.
func (p *Player) Header() vgm.Header {
	return p.header
}

// Ended reports whether playback has reached the end of the stream
// (and, when not looping, will not produce any further samples).
func (p *Player) Ended() bool {
	return p.ended
}

// OnUnknownCommand forwards to the underlying interpreter.
func (p *Player) OnUnknownCommand(fn func(cmd byte, pos uint32)) {
	p.interp.OnUnknownCommand(fn)
}

// RenderInto fills out (interleaved L,R int16 pairs, so len(out) must be
// even) with up to len(out)/2 samples and returns how many sample pairs
// were actually written. It returns fewer than requested only once
// playback has ended and either looping is disabled or the stream
// declares no loop point.
func (p *Player) RenderInto(out []int16) int {
	frames := len(out) / 2
	written := 0

	for written < frames {
		if p.ended {
			if !p.loop || !p.interp.Rewind() {
				return written
			}
			p.ended = false
		}

		for p.pendingSamples == 0 && !p.ended {
			wait, ended, err := p.interp.Step()
			if err != nil {
				p.ended = true
				break
			}
			p.pendingSamples += uint32(wait)
			if ended {
				p.ended = true
			}
			if wait != 0 {
				break
			}
		}

		if p.pendingSamples == 0 {
			continue
		}

		chunk := int(p.pendingSamples)
		if chunk > frames-written {
			chunk = frames - written
		}
		if chunk > ym2612.MaxUpdateLength {
			chunk = ym2612.MaxUpdateLength
		}
		if chunk == 0 {
			continue
		}

		bufL := p.bufL[:chunk]
		bufR := p.bufR[:chunk]
		bufMix := p.bufMix[:chunk]

		p.ym.Update(bufL, bufR, chunk)
		for i := range bufMix {
			bufMix[i] = 0
		}
		p.psg.Update(bufMix, chunk)

		for i := 0; i < chunk; i++ {
			out[(written+i)*2+0] = clip16(bufL[i] + bufMix[i])
			out[(written+i)*2+1] = clip16(bufR[i] + bufMix[i])
		}

		written += chunk
		p.pendingSamples -= uint32(chunk)
		p.framesRendered += uint64(chunk)
	}

	return written
}

func clip16(v int32) int16 {
	switch {
	case v < -0x7FFF:
		return -0x7FFF
	case v > 0x7FFF:
		return 0x7FFF
	default:
		return int16(v)
	}
}
