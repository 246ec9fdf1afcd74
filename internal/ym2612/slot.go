package ym2612

// slot models one of a channel's four FM operators: phase generator,
// envelope generator, and the register-derived parameters that drive both.
type slot struct {
	dtRow int   // detune table row, 0-7 (bits 4-6 of register 0x30)
	mul   int32 // MUL*2, or 1 if register MUL field is 0

	tl  int32  // total level, 0-127, straight from register 0x40
	tll uint32 // TL scaled into envelope units

	ksrShift uint // KSR_S = 3 - (data>>6), from register 0x50
	ksr      int  // cached key-scale value, kc>>ksrShift

	arBase int // index into rateTables.arTab, or -1 if rate is 0 (null)
	drBase int // index into rateTables.drTab (shared by DR/SR), or -1
	srBase int
	rrBase int

	sll uint32 // sustain level, from rateTables-independent slTab

	// seg holds register 0x90's bits 0-3 when SSG-EG is enabled (bit 3
	// set, the "E" below), else 0. Bits, high to low: E(nable),
	// At(tack-negate), Al(ternate), H(old). The eight shapes:
	//
	//	E At Al H
	//	1  0  0  0  \\\\
	//	1  0  0  1  \___
	//	1  0  1  0  \/\/
	//	1  0  1  1  \‾‾‾ (held high after one decay)
	//	1  1  0  0  ////
	//	1  1  0  1  /‾‾‾ (held high)
	//	1  1  1  0  /\/\
	//	1  1  1  1  /___ (held low after one rise)
	//
	// envSustainNext implements the Alternate/Hold bookkeeping.
	seg uint8

	amsOn    bool
	amsShift uint32 // one of lfoAMSTab; 31 when amsOn is false (no modulation)

	ecurp envPhase
	ecnt  uint32
	ecmp  uint32
	einc  uint32

	eincA, eincD, eincS, eincR uint32

	chgEnM uint32 // key-on reseed mask; 0 right after an algorithm/ALGO change

	fcnt uint32 // phase counter
	finc int32  // phase increment; -1 on slot 0 means "needs CALC_FINC_CH"
}

func newSlot() slot {
	return slot{
		mul:    1,
		arBase: -1,
		drBase: -1,
		srBase: -1,
		rrBase: -1,
		ecurp:  envPhaseRelease,
		ecnt:   envEnd,
		amsShift: 31,
		chgEnM: 0xFFFFFFFF,
	}
}

// calcFinc recomputes the phase increment and, if the key-scale value
// changed, the cached envelope rate increments — grounded on
// CALC_FINC_SL in original_source/ym2612.cpp.
func (sl *slot) calcFinc(rt *rateTables, finc uint32, kc int) {
	sl.finc = int32(finc+uint32(rt.dtTab[sl.dtRow][kc])) * sl.mul

	ksr := kc >> sl.ksrShift
	if sl.ksr == ksr {
		return
	}
	sl.ksr = ksr

	sl.eincA = rt.ar(sl.arBase, ksr)
	sl.eincD = rt.dr(sl.drBase, ksr)
	sl.eincS = rt.dr(sl.srBase, ksr)
	sl.eincR = rt.dr(sl.rrBase, ksr)

	switch {
	case sl.ecurp == envPhaseAttack:
		sl.einc = sl.eincA
	case sl.ecurp == envPhaseDecay:
		sl.einc = sl.eincD
	case sl.ecnt < envEnd:
		switch sl.ecurp {
		case envPhaseSustain:
			sl.einc = sl.eincS
		case envPhaseRelease:
			sl.einc = sl.eincR
		}
	}
}

func keyOn(sl *slot) {
	if sl.ecurp != envPhaseRelease {
		return
	}
	sl.fcnt = 0
	sl.ecnt = (decayToAttack[envTab[sl.ecnt>>envLBits]] + envAttackStart) & sl.chgEnM
	sl.chgEnM = 0xFFFFFFFF
	sl.einc = sl.eincA
	sl.ecmp = envDecayStart
	sl.ecurp = envPhaseAttack
}

func keyOff(sl *slot) {
	if sl.ecurp == envPhaseRelease {
		return
	}
	if sl.ecnt < envDecayStart {
		sl.ecnt = (envTab[sl.ecnt>>envLBits] << envLBits) + envDecayStart
	}
	sl.einc = sl.eincR
	sl.ecmp = envEnd
	sl.ecurp = envPhaseRelease
}

func envAttackNext(sl *slot) {
	// Verified with Gynoug even in HQ (explode SFX) in the reference
	// implementation; preserved bit-for-bit.
	sl.ecnt = envDecayStart
	sl.einc = sl.eincD
	sl.ecmp = sl.sll
	sl.ecurp = envPhaseDecay
}

func envDecayNext(sl *slot) {
	sl.ecnt = sl.sll
	sl.einc = sl.eincS
	sl.ecmp = envEnd
	sl.ecurp = envPhaseSustain
}

func envSustainNext(sl *slot) {
	if sl.seg&8 != 0 {
		if sl.seg&1 != 0 {
			sl.ecnt = envEnd
			sl.einc = 0
			sl.ecmp = envEnd + 1
		} else {
			sl.ecnt = 0
			sl.einc = sl.eincA
			sl.ecmp = envDecayStart
			sl.ecurp = envPhaseAttack
		}
		sl.seg ^= (sl.seg & 2) << 1
		return
	}
	sl.ecnt = envEnd
	sl.einc = 0
	sl.ecmp = envEnd + 1
}

func envReleaseNext(sl *slot) {
	sl.ecnt = envEnd
	sl.einc = 0
	sl.ecmp = envEnd + 1
}

// envNext dispatches on the slot's current envelope phase. Goes in place of
// the original's 8-entry function-pointer table (ENV_NEXT_EVENT); phases 4-7
// never occur in practice (ecurp only ever holds 0-3) so they fall to the
// default no-op case.
func envNext(sl *slot) {
	switch sl.ecurp {
	case envPhaseAttack:
		envAttackNext(sl)
	case envPhaseDecay:
		envDecayNext(sl)
	case envPhaseSustain:
		envSustainNext(sl)
	case envPhaseRelease:
		envReleaseNext(sl)
	}
}

// stepEnvelope advances the envelope counter by one sample and fires the
// phase transition if it has reached its comparison target.
func (sl *slot) stepEnvelope() {
	sl.ecnt += sl.einc
	if sl.ecnt >= sl.ecmp {
		envNext(sl)
	}
}

// envOut returns the current envelope attenuation (TL-scaled, LFO-AMS
// applied) for use as a SIN_TAB column index.
func (sl *slot) envOut(lfoEnv int32) uint32 {
	out := envTab[sl.ecnt>>envLBits] + sl.tll
	if lfoEnv != 0 {
		out += uint32(lfoEnv) >> sl.amsShift
	}
	return out
}
