// Package ym2612 implements a cycle-accurate software model of the Sega
// Mega Drive's YM2612 six-channel FM synthesizer, including its built-in
// DAC channel.
package ym2612

import "math"

// Fixed-point phase/envelope bit widths. Kept as named constants rather than
// magic numbers since every shift in slot.go and channel.go is derived from
// these.
const (
	sinHBits = 12
	sinLBits = 14 // min(26-sinHBits, 16)
	envHBits = 12
	envLBits = 16 // 28 - envHBits
	lfoHBits = 10
	lfoLBits = 18 // 28 - lfoHBits

	sinLength = 1 << sinHBits
	envLength = 1 << envHBits
	lfoLength = 1 << lfoHBits

	tlLength = envLength * 3

	sinMask = sinLength - 1
	envMask = envLength - 1
	lfoMask = lfoLength - 1

	envStep = 96.0 / float64(envLength)

	envAttackStart = 0
	envDecayStart  = envLength << envLBits
	envEnd         = 2 * envLength << envLBits

	maxOutBits = sinHBits + sinLBits + 2
	maxOut     = (1 << maxOutBits) - 1

	outputBits  = 15
	outBits     = outputBits - 2
	outShift    = maxOutBits - outBits
	limitChOut  = (1 << outBits) * 3 / 2 - 1

	arRate = 399128
	drRate = 5514396

	lfoFMSLBits = 9

	// MAX_UPDATE_LENGTH: the largest sample count a single Update call may
	// be asked to render in one go. Kept at spec's canonical 512 rather
	// than the 256 seen in one original_source snapshot (see DESIGN.md).
	MaxUpdateLength = 512
)

var lfoFMSShift = float64(int(1) << lfoFMSLBits)
var lfoFMSBase = int(0.05946309436 * 0.0338 * lfoFMSShift)

// Slot indices within a channel. The ordering is not 0,1,2,3 — it matches
// the YM2612's own internal slot wiring, preserved exactly because the
// special channel-3 per-operator frequency mode depends on it.
const (
	s0 = 0
	s1 = 2
	s2 = 1
	s3 = 3
)

// envelope phase constants, matching the YM2612's own ENV_NEXT_EVENT index
// order: 0-3 are the real phases, 4-7 all resolve to the no-op transition.
type envPhase int

const (
	envPhaseAttack envPhase = iota
	envPhaseDecay
	envPhaseSustain
	envPhaseRelease
	envPhaseOff // and 5,6,7 alias to this; never written explicitly
)

// Package-level tables independent of clock/sample rate: shared and
// immutable after package init, safe across chip instances (spec §5).
var (
	tlTab  [tlLength * 2]int32
	sinTab [sinLength]int32 // index into tlTab (offset, not pointer)

	envTab        [2*envLength + 8]uint32
	decayToAttack [envLength]uint32
	slTab         [16]uint32

	lfoEnvTab  [lfoLength]int32
	lfoFreqTab [lfoLength]int32

	fkeyTab = [16]uint8{
		0, 0, 0, 0,
		0, 0, 0, 1,
		2, 3, 3, 3,
		3, 3, 3, 3,
	}

	lfoAMSTab = [4]uint32{31, 4, 1, 0}

	lfoFMSTab = [8]int32{
		int32(lfoFMSBase) * 0, int32(lfoFMSBase) * 1,
		int32(lfoFMSBase) * 2, int32(lfoFMSBase) * 3,
		int32(lfoFMSBase) * 4, int32(lfoFMSBase) * 6,
		int32(lfoFMSBase) * 12, int32(lfoFMSBase) * 24,
	}

	// Default detune table indexed by [FD][KC], FD = bits 4-6 of register 0x30.
	dtDefTab = [4][32]uint8{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2,
			2, 3, 3, 3, 4, 4, 4, 5, 5, 6, 6, 7, 8, 8, 8, 8},
		{1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5,
			5, 6, 6, 7, 8, 8, 9, 10, 11, 12, 13, 14, 16, 16, 16, 16},
		{2, 2, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5, 5, 6, 6, 7,
			8, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 20, 22, 22, 22, 22},
	}
)

const pgCutOff = int(78.0 / envStep)

func init() {
	// Total level table: dB-linearized, negative mirror for the other
	// phase quadrants. TL_TAB[i] + TL_TAB[tlLength+i] == 0 for all i
	// (spec §8 testable property).
	for i := 0; i < tlLength; i++ {
		if i >= pgCutOff {
			tlTab[i] = 0
			tlTab[tlLength+i] = 0
			continue
		}
		x := float64(maxOut) / math.Pow(10, (envStep*float64(i))/20)
		tlTab[i] = int32(x)
		tlTab[tlLength+i] = -int32(x)
	}

	// Sine table: stores an *offset* into tlTab rather than a pointer,
	// since Go has no raw pointer arithmetic into a shared array the way
	// the original C does; the offset is added back in channel.go's sinOut.
	sinTab[0] = int32(pgCutOff)
	sinTab[sinLength/2] = int32(pgCutOff)
	for i := 1; i <= sinLength/4; i++ {
		x := math.Sin(2.0 * math.Pi * float64(i) / float64(sinLength))
		x = 20 * math.Log10(1/x)
		j := int(x / envStep)
		if j > pgCutOff {
			j = pgCutOff
		}
		sinTab[i] = int32(j)
		sinTab[sinLength/2-i] = int32(j)
		sinTab[sinLength/2+i] = int32(tlLength + j)
		sinTab[sinLength-i] = int32(tlLength + j)
	}

	// LFO waveform tables.
	for i := 0; i < lfoLength; i++ {
		x := math.Sin(2.0 * math.Pi * float64(i) / float64(lfoLength))
		x = (x + 1.0) / 2.0
		x *= 11.8 / envStep
		lfoEnvTab[i] = int32(x)

		y := math.Sin(2.0 * math.Pi * float64(i) / float64(lfoLength))
		y *= float64((1 << (lfoHBits - 1)) - 1)
		lfoFreqTab[i] = int32(y)
	}

	// Envelope attack/decay curve.
	for i := 0; i < envLength; i++ {
		attack := math.Pow(float64(envLength-1-i)/float64(envLength), 8)
		attack *= float64(envLength)
		envTab[i] = uint32(attack)

		decay := float64(i) / float64(envLength)
		decay *= float64(envLength)
		envTab[envLength+i] = uint32(decay)
	}
	envTab[envEnd>>envLBits] = envLength - 1

	// Decay-to-attack conversion, used when a key-on arrives mid-release.
	j := envLength - 1
	for i := 0; i < envLength; i++ {
		for j > 0 && envTab[j] < uint32(i) {
			j--
		}
		decayToAttack[i] = uint32(j) << envLBits
	}

	// Sustain level table; entry 15 is the "volume off" sentinel.
	for i := 0; i < 15; i++ {
		x := float64(i) * 3 / envStep
		slTab[i] = (uint32(x) << envLBits) + envDecayStart
	}
	slTab[15] = (uint32(envLength-1) << envLBits) + envDecayStart
}
