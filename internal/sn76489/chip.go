// Package sn76489 implements a cycle-accurate software model of the
// SN76489 PSG: three square-wave tone channels and one LFSR-driven noise
// channel, each with independent 4-bit attenuation.
package sn76489

// ToneZero controls how a tone register value of 0 is handled by the
// tone-counter reload: real SN76489 variants disagree on this.
type ToneZero int

const (
	ToneZeroAsOne  ToneZero = iota // Sega (SMS/GG/Genesis): tone reg 0 behaves as 1
	ToneZeroAs1024                 // TI: tone reg 0 behaves as 1024
)

// Config captures the chip-variant differences between the original TI
// SN76489 and Sega's on-board PSG (used in the Genesis/Mega Drive).
type Config struct {
	LFSRBits       int    // 15 for TI, 16 for Sega
	WhiteNoiseTaps uint16 // tap mask: 0x0003 (TI, bits 0/1), 0x0009 (Sega, bits 0/3)
	ToneZero       ToneZero
}

// Sega is the PSG variant wired into the Mega Drive/Genesis.
var Sega = Config{LFSRBits: 16, WhiteNoiseTaps: 0x0009, ToneZero: ToneZeroAsOne}

// TI is the original Texas Instruments SN76489 variant.
var TI = Config{LFSRBits: 15, WhiteNoiseTaps: 0x0003, ToneZero: ToneZeroAs1024}

// volumeTab converts a 4-bit attenuation value (0 = max, 15 = silent) to a
// signed 16-bit-range amplitude, roughly -2dB per step, matching the
// chip's documented logarithmic attenuator.
var volumeTab [16]int32

func init() {
	const full = 0x1FFF // leaves headroom for 4-channel summing plus YM2612 mixing
	x := float64(full)
	for i := 0; i < 15; i++ {
		volumeTab[i] = int32(x)
		x /= 1.2589254 // 10^(2/20), i.e. -2dB
	}
	volumeTab[15] = 0
}

// Chip emulates one SN76489: three tone generators plus a noise generator,
// driven by a clock/16 tone-counter divider and a float64 (not fixed-point)
// clock-to-sample-rate accumulator. Grounded on the reference
// SN76489 core's Write/Clock/Sample split, adapted from float32 unipolar
// mixing to the signed-PCM accumulation this module's render path uses.
type Chip struct {
	toneReg    [3]uint16
	toneCount  [3]uint16
	toneOutput [3]bool

	noiseReg    uint8
	noiseCount  uint16
	noiseShift  uint16
	noiseToggle bool
	noiseOut    bool

	volume [4]uint8 // 0-2 tone, 3 noise; 0 = max, 15 = off (power-on default)

	latchedChannel uint8
	latchedType    uint8 // 0 = tone/noise, 1 = volume

	feedbackShift uint
	lfsrInitial   uint16
	noiseTaps     uint16
	toneZeroValue uint16

	clockDivider int

	clocksPerSample float64
	clockCounter    float64
}

// NewChip constructs an SN76489 for the given variant, clocked at clock Hz
// and rendering at rate samples/sec.
func NewChip(clock, rate float64, cfg Config) *Chip {
	feedbackShift := uint(cfg.LFSRBits - 1)
	lfsrInitial := uint16(1) << feedbackShift
	toneZeroValue := uint16(1)
	if cfg.ToneZero == ToneZeroAs1024 {
		toneZeroValue = 1024
	}
	c := &Chip{
		clocksPerSample: clock / rate,
		noiseShift:      lfsrInitial,
		feedbackShift:   feedbackShift,
		lfsrInitial:     lfsrInitial,
		noiseTaps:       cfg.WhiteNoiseTaps,
		toneZeroValue:   toneZeroValue,
	}
	for i := range c.volume {
		c.volume[i] = 0x0F
	}
	return c
}

// Write handles one byte written to the PSG's single I/O port: either a
// latch/data byte (bit 7 set) selecting a channel and register, or a
// second data byte continuing a tone-register write.
func (c *Chip) Write(value byte) {
	if value&0x80 != 0 {
		c.latchedChannel = (value >> 5) & 3
		c.latchedType = (value >> 4) & 1
		data := value & 0x0F

		if c.latchedType == 1 {
			c.volume[c.latchedChannel] = data
			return
		}
		if c.latchedChannel < 3 {
			c.toneReg[c.latchedChannel] = (c.toneReg[c.latchedChannel] & 0x3F0) | uint16(data)
		} else {
			c.noiseReg = data & 0x07
			c.noiseShift = c.lfsrInitial
		}
		return
	}

	if c.latchedType != 0 {
		return
	}
	if c.latchedChannel < 3 {
		data := uint16(value & 0x3F)
		c.toneReg[c.latchedChannel] = (c.toneReg[c.latchedChannel] & 0x0F) | (data << 4)
	} else {
		c.noiseReg = value & 0x07
		c.noiseShift = c.lfsrInitial
	}
}

// clock advances the chip by one input clock cycle (1/16th of a tone-
// counter tick).
func (c *Chip) clock() {
	c.clockDivider++
	if c.clockDivider < 16 {
		return
	}
	c.clockDivider = 0

	for i := 0; i < 3; i++ {
		if c.toneCount[i] > 0 {
			c.toneCount[i]--
		}
		if c.toneCount[i] > 0 {
			continue
		}
		if c.toneReg[i] == 0 {
			c.toneCount[i] = c.toneZeroValue
		} else {
			c.toneCount[i] = c.toneReg[i]
		}
		c.toneOutput[i] = !c.toneOutput[i]
	}

	if c.noiseCount > 0 {
		c.noiseCount--
	}
	if c.noiseCount > 0 {
		return
	}
	switch c.noiseReg & 0x03 {
	case 0:
		c.noiseCount = 0x10
	case 1:
		c.noiseCount = 0x20
	case 2:
		c.noiseCount = 0x40
	case 3:
		if c.toneReg[2] == 0 {
			c.noiseCount = c.toneZeroValue
		} else {
			c.noiseCount = c.toneReg[2]
		}
	}

	c.noiseToggle = !c.noiseToggle
	if !c.noiseToggle {
		return
	}

	c.noiseOut = c.noiseShift&1 != 0

	var feedback uint16
	if c.noiseReg&0x04 != 0 {
		tapped := c.noiseShift & c.noiseTaps
		tapped ^= tapped >> 8
		tapped ^= tapped >> 4
		tapped ^= tapped >> 2
		tapped ^= tapped >> 1
		feedback = (tapped & 1) << c.feedbackShift
	} else {
		feedback = (c.noiseShift & 1) << c.feedbackShift
	}
	c.noiseShift = (c.noiseShift >> 1) | feedback
}

// sample returns the chip's current output amplitude: the sum of every
// channel whose square-wave output is currently high, attenuated per its
// volume register.
func (c *Chip) sample() int32 {
	var out int32
	for i := 0; i < 3; i++ {
		if c.toneOutput[i] {
			out += volumeTab[c.volume[i]]
		}
	}
	if c.noiseOut {
		out += volumeTab[c.volume[3]]
	}
	return out
}

// tick advances the chip to its next output sample and returns it.
func (c *Chip) tick() int32 {
	c.clockCounter += c.clocksPerSample
	for c.clockCounter >= 1 {
		c.clock()
		c.clockCounter--
	}
	return c.sample()
}

// Update renders length samples, adding each one into buf (mono,
// pre-existing content preserved so the PSG can be mixed with another
// chip's output in place). This is the "mono-short" update form a VGM
// driver uses to mix the PSG's output into a separately-rendered stereo
// FM buffer.
func (c *Chip) Update(buf []int32, length int) {
	for i := 0; i < length; i++ {
		buf[i] += c.tick()
	}
}

// UpdateStereo renders length samples, adding the chip's mono output into
// both bufL and bufR in place — the "stereo-int" update form for drivers
// that accumulate every chip directly into a pair of stereo buffers.
func (c *Chip) UpdateStereo(bufL, bufR []int32, length int) {
	for i := 0; i < length; i++ {
		s := c.tick()
		bufL[i] += s
		bufR[i] += s
	}
}
