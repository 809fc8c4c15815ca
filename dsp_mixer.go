// dsp_mixer.go - Phase-sensitive detector: analog and digital I/Q mixer

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import "math"

// MixerMode selects the demodulation flavour.
type MixerMode int

const (
	MIXER_ANALOG MixerMode = iota
	MIXER_DIGITAL
)

func (m MixerMode) String() string {
	if m == MIXER_DIGITAL {
		return "digital"
	}
	return "analog"
}

// DIGITAL_MIXER_GAIN scales the square-wave mixer so its output is directly
// comparable to the analog one: 2/pi is the fundamental amplitude of a unit
// square wave. A convention, not a calibration.
const DIGITAL_MIXER_GAIN = 2.0 / math.Pi

// Mixer multiplies a conditioned input against the reference (analog) or the
// reference's square wave (digital), yielding baseband I and Q.
type Mixer struct {
	mode MixerMode
}

func NewMixer(mode MixerMode) *Mixer {
	return &Mixer{mode: mode}
}

func (mx *Mixer) Mode() MixerMode {
	return mx.mode
}

func (mx *Mixer) SetMode(mode MixerMode) {
	mx.mode = mode
}

// Mix demodulates one sample. thetaRef is the reference oscillator phase for
// this sample; refAmp gates the digital mixer (a dead reference mixes to 0).
// Q uses the quadrature reference sin(theta+pi/2) = cos(theta).
func (mx *Mixer) Mix(sample, thetaRef, refAmp float64) (i, q float64) {
	if mx.mode == MIXER_DIGITAL {
		if refAmp <= 0 {
			return 0, 0
		}
		i = sample * signum(math.Sin(thetaRef)) * DIGITAL_MIXER_GAIN
		q = sample * signum(math.Cos(thetaRef)) * DIGITAL_MIXER_GAIN
		return i, q
	}
	i = sample * math.Sin(thetaRef)
	q = sample * math.Cos(thetaRef)
	return i, q
}
