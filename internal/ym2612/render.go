package ym2612

// fincFor computes a slot-0 base phase increment for an F-number/octave
// pair, scaled by rateTables.fincTab (built assuming octave 7). Grounded
// on CALC_FINC_CH.
func fincFor(rt *rateTables, fnum uint16, foct uint8) uint32 {
	shift := 7 - int(foct)
	if shift >= 0 {
		return rt.fincTab[fnum] >> uint(shift)
	}
	return rt.fincTab[fnum] << uint(-shift)
}

// recomputeChannel refreshes phase increments for every slot in channel n
// when its frequency registers have changed (slot 0's finc holds -1 as the
// invalidation flag). Channel 2 draws its four operators from independent
// F-numbers while the mode register's channel-3 special-mode bit is set.
func (c *Chip) recomputeChannel(n int) {
	ch := &c.channel[n]
	if ch.slot[0].finc != -1 {
		return
	}

	if n == 2 && c.mode&0x40 != 0 {
		// Physical slot order is S0,S2,S1,S3 (array indices 0,1,2,3; see
		// the S0-S3 constants): SLOT[S0]<-FNUM[2], SLOT[S1]<-FNUM[3],
		// SLOT[S2]<-FNUM[1], SLOT[S3]<-FNUM[0] (the channel's own
		// frequency). Grounded on YM2612_Update's channel-3 special-mode
		// CALC_FINC_SL calls.
		slotFnum := [4]uint16{c.ch2Fnum[2], c.ch2Fnum[1], c.ch2Fnum[3], ch.fnum[0]}
		slotFoct := [4]uint8{c.ch2Foct[2], c.ch2Foct[1], c.ch2Foct[3], ch.foct[0]}
		slotKc := [4]uint8{c.ch2Kc[2], c.ch2Kc[1], c.ch2Kc[3], ch.kc[0]}
		for i := 0; i < 4; i++ {
			finc := fincFor(c.rt, slotFnum[i], slotFoct[i])
			ch.slot[i].calcFinc(c.rt, finc, int(slotKc[i]))
		}
		return
	}

	finc := fincFor(c.rt, ch.fnum[0], ch.foct[0])
	for i := range ch.slot {
		ch.slot[i].calcFinc(c.rt, finc, int(ch.kc[0]))
	}
}

// Update renders length samples (length must not exceed MaxUpdateLength)
// into bufL/bufR, accumulating the five FM channels plus, unless the DAC
// is enabled, channel 6's own FM output. Grounded on YM2612_Update.
func (c *Chip) Update(bufL, bufR []int32, length int) {
	for i := 0; i < length; i++ {
		bufL[i] = 0
		bufR[i] = 0
	}

	for n := 0; n < 6; n++ {
		c.recomputeChannel(n)
	}

	useLFO := c.lfoInc != 0
	var lfoFreqUp, lfoEnvUp []int32
	if useLFO {
		lfoFreqUp = make([]int32, length)
		lfoEnvUp = make([]int32, length)
		for i := 0; i < length; i++ {
			c.lfoCnt += c.lfoInc
			idx := (c.lfoCnt >> lfoLBits) & lfoMask
			lfoFreqUp[i] = lfoFreqTab[idx]
			lfoEnvUp[i] = lfoEnvTab[idx]
		}
	}

	interCnt := c.interCnt
	for n := 0; n < 6; n++ {
		if n == 5 && c.dacEnable {
			continue
		}
		ch := &c.channel[n]
		if !ch.active() {
			continue
		}
		ic := interCnt
		for i := 0; i < length; i++ {
			var freq, env int32
			if useLFO {
				freq, env = lfoFreqUp[i], lfoEnvUp[i]
			}
			ch.step(useLFO, freq, env)
			if c.interpolate {
				ch.emitInterpolated(&bufL[i], &bufR[i], &ic, c.interStep)
			} else {
				ch.emit(&bufL[i], &bufR[i])
			}
		}
	}
	if c.interpolate {
		c.interCnt += c.interStep * uint32(length)
		c.interCnt &= 0x3FFF
	}

	c.dacAndTimersUpdate(bufL, bufR, length)
}

// csmKeyControl keys on all four operators of channel 3 — CSM (Channel
// Sync Mode) always targets channel 3, regardless of which channel a
// program is otherwise driving. Grounded on CSM_Key_Control.
func (c *Chip) csmKeyControl() {
	ch := &c.channel[2]
	keyOn(&ch.slot[s0])
	keyOn(&ch.slot[s1])
	keyOn(&ch.slot[s2])
	keyOn(&ch.slot[s3])
}

// dacAndTimersUpdate mixes in the DAC channel (when enabled) and advances
// both hardware timers, setting status bits on overflow and firing CSM
// key-on when Timer A overflows under CSM mode. Grounded on
// YM2612_DacAndTimers_Update.
func (c *Chip) dacAndTimersUpdate(bufL, bufR []int32, length int) {
	if c.dacEnable && c.dacData != 0 {
		left := int32(c.channel[5].left)
		right := int32(c.channel[5].right)
		for i := 0; i < length; i++ {
			bufL[i] += c.dacData & left
			bufR[i] += c.dacData & right
		}
	}

	step := int64(c.timerBase) * int64(length)

	if c.mode&1 != 0 {
		c.timerACount -= step
		if c.timerACount <= 0 {
			if c.mode&4 != 0 {
				c.status |= 1
			}
			c.timerACount += int64(1024-c.timerAPeriod) << 12
			if c.mode&0x80 != 0 {
				c.csmKeyControl()
			}
		}
	}
	if c.mode&2 != 0 {
		c.timerBCount -= step
		if c.timerBCount <= 0 {
			if c.mode&8 != 0 {
				c.status |= 2
			}
			c.timerBCount += int64(256-c.timerBPeriod) << (4 + 12)
		}
	}
}

// Status returns the current timer-overflow status byte (bits 0/1).
func (c *Chip) Status() byte {
	return c.status
}
