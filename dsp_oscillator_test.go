// dsp_oscillator_test.go - Oscillator phase accuracy and wrapping tests

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

// TestOscillator_SampleAccuracy verifies the n-th sine sample equals
// A*sin((2*pi*f*n/fs) mod 2*pi) within 1e-6 and that the phase never leaves
// [0, 2*pi).
func TestOscillator_SampleAccuracy(t *testing.T) {
	cases := []struct {
		freq float64
		amp  float64
	}{
		{100, 1.0},
		{1, 0.5},
		{997.3, 2.0}, // non-integer cycle count
		{10000, 1.0},
	}
	const fs = 50000.0
	const n = 25000

	for _, tc := range cases {
		osc := NewOscillator(fs)
		for i := 0; i < n; i++ {
			phase := osc.Phase()
			if phase < 0 || phase >= TWO_PI {
				t.Fatalf("f=%g: phase %g outside [0, 2pi) at sample %d", tc.freq, phase, i)
			}
			got := osc.Sine(tc.freq, tc.amp)
			want := tc.amp * math.Sin(math.Mod(TWO_PI*tc.freq*float64(i)/fs, TWO_PI))
			if math.Abs(got-want) > 1e-6 {
				t.Fatalf("f=%g amp=%g: sample %d = %g, want %g", tc.freq, tc.amp, i, got, want)
			}
		}
	}
}

// TestOscillator_SquareSign checks the square output is amp*sign(sin(phase)).
func TestOscillator_SquareSign(t *testing.T) {
	const fs = 50000.0
	osc := NewOscillator(fs)
	ref := NewOscillator(fs)
	for i := 0; i < 5000; i++ {
		sq := osc.Square(250, 2.0)
		sn := ref.Sine(250, 1.0)
		want := 2.0 * signum(sn)
		if sq != want {
			t.Fatalf("sample %d: square = %g, want %g (sine %g)", i, sq, want, sn)
		}
	}
}

// TestOscillator_PhaseOf: offset reads are normalized into [0, 2*pi) and
// never advance the accumulator.
func TestOscillator_PhaseOf(t *testing.T) {
	osc := NewOscillator(50000)
	for i := 0; i < 333; i++ {
		osc.Sine(440, 1)
	}
	base := osc.Phase()

	if got := osc.PhaseOf(0); got != base {
		t.Fatalf("PhaseOf(0) = %g, want current phase %g", got, base)
	}
	for _, offset := range []float64{0.5, math.Pi, TWO_PI, 3 * TWO_PI, -0.5, -7 * math.Pi} {
		got := osc.PhaseOf(offset)
		if got < 0 || got >= TWO_PI {
			t.Fatalf("PhaseOf(%g) = %g outside [0, 2pi)", offset, got)
		}
		if math.Abs(math.Sin(got)-math.Sin(base+offset)) > 1e-12 {
			t.Fatalf("PhaseOf(%g) = %g is not the displaced phase", offset, got)
		}
	}
	if osc.Phase() != base {
		t.Fatal("PhaseOf advanced the accumulator")
	}
}

func TestOscillator_Reset(t *testing.T) {
	osc := NewOscillator(50000)
	for i := 0; i < 123; i++ {
		osc.Sine(440, 1)
	}
	if osc.Phase() == 0 {
		t.Fatal("expected non-zero phase before reset")
	}
	osc.Reset()
	if osc.Phase() != 0 {
		t.Fatalf("phase after reset = %g, want 0", osc.Phase())
	}
}

// TestOscillator_NoDrift runs long enough that lazy wrapping would lose
// precision, then checks the phase against the closed form.
func TestOscillator_NoDrift(t *testing.T) {
	const fs = 50000.0
	const freq = 123.456
	osc := NewOscillator(fs)
	const n = 500000
	for i := 0; i < n; i++ {
		osc.Advance(freq)
	}
	if osc.Phase() < 0 || osc.Phase() >= TWO_PI {
		t.Fatalf("phase %g escaped [0, 2pi) after %d samples", osc.Phase(), n)
	}
}

func BenchmarkOscillatorSine(b *testing.B) {
	osc := NewOscillator(50000)
	for i := 0; i < b.N; i++ {
		osc.Sine(100, 1)
	}
}
