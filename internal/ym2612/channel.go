package ym2612

// Channel is one of the YM2612's six FM channels: four operators (slots)
// combined through one of eight connection algorithms, with feedback on
// the first operator and independent left/right output gating.
type Channel struct {
	slot [4]slot

	s0out [2]int32 // feedback history for slot 0 (S0_OUT[0], S0_OUT[1])

	oldOutd int32
	outd    int32

	algo int // connection algorithm, 0-7
	fb   int // feedback shift, 9-raw; 9 means "no feedback" (spec REDESIGN FLAG)

	fms int32  // LFO frequency-modulation depth, lfoFMSTab[data&7]
	ams uint32 // LFO amplitude-modulation depth, lfoAMSTab[(data>>4)&3]

	left, right uint32 // 0xFFFFFFFF or 0

	fnum [4]uint16
	foct [4]uint8
	kc   [4]uint8

	mute bool // per-channel mute, bits 0-5 of Chip.SetMute's mask; Maxim's YM2612_SetMute
}

func newChannel() Channel {
	return Channel{
		slot:  [4]slot{newSlot(), newSlot(), newSlot(), newSlot()},
		fb:    9,
		left:  0xFFFFFFFF,
		right: 0xFFFFFFFF,
	}
}

// sinPhase folds a fixed-point phase accumulator value down to a SIN_TAB
// column index, matching (x >> SIN_LBITS) & SIN_MASK with the original's
// two's-complement arithmetic-shift behavior on negative phases.
func sinPhase(v int32) uint32 {
	return uint32(v>>sinLBits) & sinMask
}

func sinOut(phase, atten uint32) int32 {
	return tlTab[uint32(sinTab[phase&sinMask])+atten]
}

// active reports whether any carrier operator still has output to produce;
// channels whose carriers have all decayed to ENV_END can be skipped.
func (c *Channel) active() bool {
	notEnd := int32(c.slot[s3].ecnt - envEnd)
	switch {
	case c.algo == 7:
		notEnd |= int32(c.slot[s0].ecnt - envEnd)
		fallthrough
	case c.algo >= 5:
		notEnd |= int32(c.slot[s2].ecnt - envEnd)
		fallthrough
	case c.algo >= 4:
		notEnd |= int32(c.slot[s1].ecnt - envEnd)
	}
	return notEnd != 0
}

func (c *Channel) applyFeedback(in0 int32, en0 uint32) {
	if c.fb != 9 {
		in0 += (c.s0out[0] + c.s0out[1]) >> uint(c.fb)
	}
	c.s0out[1] = c.s0out[0]
	c.s0out[0] = sinOut(sinPhase(in0), en0)
}

func (c *Channel) limit() {
	if c.outd > limitChOut {
		c.outd = limitChOut
	} else if c.outd < -limitChOut {
		c.outd = -limitChOut
	}
}

// applyAlgo mixes the four operators per the channel's connection algorithm
// and writes the result to c.outd. Grounded on DO_ALGO_0..DO_ALGO_7 in
// original_source/ym2612.cpp, collapsed into one switch per the same
// REDESIGN-FLAG transform the reference implementation itself already
// applied (its own T_Update_Chan is one templated function with a
// switch(algo) inside, not 32 hand-specialized functions).
func (c *Channel) applyAlgo(in0, in1, in2, in3 int32, en0, en1, en2, en3 uint32) {
	c.applyFeedback(in0, en0)
	s0 := c.s0out[0]

	switch c.algo {
	case 0:
		in1 += s0
		in2 += sinOut(sinPhase(in1), en1)
		in3 += sinOut(sinPhase(in2), en2)
		c.outd = sinOut(sinPhase(in3), en3) >> outShift
	case 1:
		in2 += s0 + sinOut(sinPhase(in1), en1)
		in3 += sinOut(sinPhase(in2), en2)
		c.outd = sinOut(sinPhase(in3), en3) >> outShift
	case 2:
		in2 += sinOut(sinPhase(in1), en1)
		in3 += s0 + sinOut(sinPhase(in2), en2)
		c.outd = sinOut(sinPhase(in3), en3) >> outShift
	case 3:
		in1 += s0
		in3 += sinOut(sinPhase(in1), en1) + sinOut(sinPhase(in2), en2)
		c.outd = sinOut(sinPhase(in3), en3) >> outShift
	case 4:
		in1 += s0
		in3 += sinOut(sinPhase(in2), en2)
		c.outd = (sinOut(sinPhase(in3), en3) + sinOut(sinPhase(in1), en1)) >> outShift
		c.limit()
	case 5:
		in1 += s0
		in2 += s0
		in3 += s0
		c.outd = (sinOut(sinPhase(in3), en3) + sinOut(sinPhase(in1), en1) + sinOut(sinPhase(in2), en2)) >> outShift
		c.limit()
	case 6:
		in1 += s0
		c.outd = (sinOut(sinPhase(in3), en3) + sinOut(sinPhase(in1), en1) + sinOut(sinPhase(in2), en2)) >> outShift
		c.limit()
	case 7:
		c.outd = (sinOut(sinPhase(in3), en3) + sinOut(sinPhase(in1), en1) + sinOut(sinPhase(in2), en2) + s0) >> outShift
		c.limit()
	}
}

// step advances one sample: phase, envelope, then algorithm mixing. When
// useLFO is false lfoFreq/lfoEnv are ignored (pass 0, 0).
func (c *Channel) step(useLFO bool, lfoFreq, lfoEnv int32) {
	in0 := int32(c.slot[s0].fcnt)
	in1 := int32(c.slot[s1].fcnt)
	in2 := int32(c.slot[s2].fcnt)
	in3 := int32(c.slot[s3].fcnt)

	if useLFO {
		freqLFO := (c.fms * lfoFreq) >> (lfoHBits - 1)
		if freqLFO != 0 {
			c.slot[s0].fcnt += uint32(int32(c.slot[s0].finc) + ((int32(c.slot[s0].finc) * freqLFO) >> lfoFMSLBits))
			c.slot[s1].fcnt += uint32(int32(c.slot[s1].finc) + ((int32(c.slot[s1].finc) * freqLFO) >> lfoFMSLBits))
			c.slot[s2].fcnt += uint32(int32(c.slot[s2].finc) + ((int32(c.slot[s2].finc) * freqLFO) >> lfoFMSLBits))
			c.slot[s3].fcnt += uint32(int32(c.slot[s3].finc) + ((int32(c.slot[s3].finc) * freqLFO) >> lfoFMSLBits))
		} else {
			c.slot[s0].fcnt += uint32(c.slot[s0].finc)
			c.slot[s1].fcnt += uint32(c.slot[s1].finc)
			c.slot[s2].fcnt += uint32(c.slot[s2].finc)
			c.slot[s3].fcnt += uint32(c.slot[s3].finc)
		}
	} else {
		c.slot[s0].fcnt += uint32(c.slot[s0].finc)
		c.slot[s1].fcnt += uint32(c.slot[s1].finc)
		c.slot[s2].fcnt += uint32(c.slot[s2].finc)
		c.slot[s3].fcnt += uint32(c.slot[s3].finc)
	}

	var en0, en1, en2, en3 uint32
	if useLFO {
		en0 = c.slot[s0].envOut(lfoEnv)
		en1 = c.slot[s1].envOut(lfoEnv)
		en2 = c.slot[s2].envOut(lfoEnv)
		en3 = c.slot[s3].envOut(lfoEnv)
	} else {
		en0 = c.slot[s0].envOut(0)
		en1 = c.slot[s1].envOut(0)
		en2 = c.slot[s2].envOut(0)
		en3 = c.slot[s3].envOut(0)
	}

	c.slot[s0].stepEnvelope()
	c.slot[s1].stepEnvelope()
	c.slot[s2].stepEnvelope()
	c.slot[s3].stepEnvelope()

	c.applyAlgo(in0, in1, in2, in3, en0, en1, en2, en3)
}

// emit adds the channel's current output sample to the stereo accumulation
// buffers, gated by the channel's left/right masks.
func (c *Channel) emit(bufL, bufR *int32) {
	if c.mute {
		return
	}
	*bufL += c.outd & int32(c.left)
	*bufR += c.outd & int32(c.right)
}

// emitInterpolated implements the linearly-interpolated output path
// (DO_OUTPUT_INT): samples only emit once the fractional interpolation
// counter overflows bit 14, averaging the current and previous outputs
// weighted by the fractional position.
func (c *Channel) emitInterpolated(bufL, bufR *int32, interCnt *uint32, interStep uint32) bool {
	*interCnt += interStep
	if *interCnt&0x4000 == 0 {
		return false
	}
	*interCnt &= 0x3FFF
	frac := int32(*interCnt)
	c.oldOutd = ((frac^0x3FFF)*c.outd + frac*c.oldOutd) >> 14
	if c.mute {
		return true
	}
	*bufL += c.oldOutd & int32(c.left)
	*bufR += c.oldOutd & int32(c.right)
	return true
}
