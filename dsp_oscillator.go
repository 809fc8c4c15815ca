// dsp_oscillator.go - Phase-accumulating sine/square oscillator

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import "math"

const TWO_PI = 2 * math.Pi

// Oscillator is a phase accumulator. Phase lives in [0, 2*pi) and is wrapped
// on every advance, never lazily, so it cannot drift over long runs.
type Oscillator struct {
	phase      float64
	sampleRate float64
}

func NewOscillator(sampleRate float64) *Oscillator {
	return &Oscillator{sampleRate: sampleRate}
}

// Phase returns the current phase without advancing it.
func (osc *Oscillator) Phase() float64 {
	return osc.phase
}

// PhaseOf returns the current phase displaced by offset radians, normalized
// into [0, 2*pi). Read-only: the accumulator does not advance.
func (osc *Oscillator) PhaseOf(offset float64) float64 {
	p := math.Mod(osc.phase+offset, TWO_PI)
	if p < 0 {
		p += TWO_PI
	}
	return p
}

// Advance steps the phase by one sample period of the given frequency.
func (osc *Oscillator) Advance(freq float64) {
	osc.phase += TWO_PI * freq / osc.sampleRate
	osc.phase = math.Mod(osc.phase, TWO_PI)
	if osc.phase < 0 {
		osc.phase += TWO_PI
	}
}

// Sine emits amp*sin(phase) for the current phase, then advances.
func (osc *Oscillator) Sine(freq, amp float64) float64 {
	v := amp * math.Sin(osc.phase)
	osc.Advance(freq)
	return v
}

// Square emits amp*sign(sin(phase)) for the current phase, then advances.
func (osc *Oscillator) Square(freq, amp float64) float64 {
	v := amp * signum(math.Sin(osc.phase))
	osc.Advance(freq)
	return v
}

// Reset returns the phase to zero.
func (osc *Oscillator) Reset() {
	osc.phase = 0
}

// signum is the three-valued sign used by the square oscillator and the
// digital mixer: +1, -1, or 0 at exact zero crossings.
func signum(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
