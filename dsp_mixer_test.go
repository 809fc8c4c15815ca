// dsp_mixer_test.go - Phase-sensitive detector tests

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"math"
	"testing"
)

func TestMixer_Analog(t *testing.T) {
	mx := NewMixer(MIXER_ANALOG)
	for _, theta := range []float64{0, 0.3, math.Pi / 2, math.Pi, 4.71, 6.0} {
		const s = 0.8
		i, q := mx.Mix(s, theta, 1.0)
		if math.Abs(i-s*math.Sin(theta)) > 1e-15 {
			t.Errorf("theta=%g: I = %g, want %g", theta, i, s*math.Sin(theta))
		}
		if math.Abs(q-s*math.Cos(theta)) > 1e-15 {
			t.Errorf("theta=%g: Q = %g, want %g", theta, q, s*math.Cos(theta))
		}
	}
}

// TestMixer_DigitalSquareWave: digital I is the input times the sign of the
// reference sine, scaled by 2/pi; Q uses the quadrature square.
func TestMixer_DigitalSquareWave(t *testing.T) {
	mx := NewMixer(MIXER_DIGITAL)
	for _, theta := range []float64{0.3, 2.0, 4.0, 5.9} {
		const s = 1.0
		i, q := mx.Mix(s, theta, 1.0)
		wantI := signum(math.Sin(theta)) * DIGITAL_MIXER_GAIN
		wantQ := signum(math.Cos(theta)) * DIGITAL_MIXER_GAIN
		if math.Abs(i-wantI) > 1e-15 || math.Abs(q-wantQ) > 1e-15 {
			t.Errorf("theta=%g: (I,Q) = (%g,%g), want (%g,%g)", theta, i, q, wantI, wantQ)
		}
	}
}

// TestMixer_DigitalDeadReference: amplitude 0 gates the digital mixer to 0.
func TestMixer_DigitalDeadReference(t *testing.T) {
	mx := NewMixer(MIXER_DIGITAL)
	i, q := mx.Mix(1.0, 0.5, 0)
	if i != 0 || q != 0 {
		t.Fatalf("dead reference: (I,Q) = (%g,%g), want (0,0)", i, q)
	}
}

// TestMixer_DigitalBasebandRatio measures the DC recovered from a carrier by
// both mixer modes. With the 2/pi convention the digital baseband comes out
// at 8/pi^2 of the analog one; the convention makes the *outputs comparable*,
// not equal.
func TestMixer_DigitalBasebandRatio(t *testing.T) {
	const fs = 50000.0
	const freq = 100.0
	analog := NewMixer(MIXER_ANALOG)
	digital := NewMixer(MIXER_DIGITAL)

	osc := NewOscillator(fs)
	var sumA, sumD float64
	n := int(fs) // exactly 100 carrier cycles
	for k := 0; k < n; k++ {
		theta := osc.Phase()
		s := osc.Sine(freq, 1)
		ia, _ := analog.Mix(s, theta, 1)
		id, _ := digital.Mix(s, theta, 1)
		sumA += ia
		sumD += id
	}
	ratio := sumD / sumA
	want := 8 / (math.Pi * math.Pi)
	if math.Abs(ratio-want) > 0.01 {
		t.Errorf("digital/analog baseband ratio = %g, want %g", ratio, want)
	}
}

func TestMixerMode_String(t *testing.T) {
	if MIXER_ANALOG.String() != "analog" || MIXER_DIGITAL.String() != "digital" {
		t.Fatal("mixer mode names changed")
	}
}
