// spectrum_fft_test.go - FFT and spectrum verification, cross-checked
// against an independent FFT implementation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

func TestSpectrum_TooShortIsEmpty(t *testing.T) {
	for _, n := range []int{0, 1, 32, 63} {
		spec := ComputeSpectrum(make([]float32, n), 50000)
		if len(spec.Frequencies) != 0 || len(spec.Magnitudes) != 0 {
			t.Fatalf("n=%d: expected empty spectrum, got %d bins", n, len(spec.Frequencies))
		}
	}
}

func TestSpectrum_LengthSelection(t *testing.T) {
	cases := []struct{ in, bins int }{
		{64, 32},
		{100, 32},    // largest pow2 <= 100 is 64
		{1024, 512},  // exactly FFT_SIZE
		{5000, 512},  // capped at FFT_SIZE
		{90000, 512}, // capped
	}
	for _, tc := range cases {
		spec := ComputeSpectrum(make([]float32, tc.in), 50000)
		if len(spec.Magnitudes) != tc.bins {
			t.Errorf("input %d: %d bins, want %d", tc.in, len(spec.Magnitudes), tc.bins)
		}
	}
}

// TestSpectrum_TonePeak: a pure tone peaks in the right bin and the peak
// stands far above the noise floor.
func TestSpectrum_TonePeak(t *testing.T) {
	const fs = 50000.0
	const freq = fs / 1024 * 100 // exactly bin 100 at N=1024
	samples := make([]float32, 2048)
	for i := range samples {
		samples[i] = float32(math.Sin(TWO_PI * freq * float64(i) / fs))
	}

	spec := ComputeSpectrum(samples, fs)
	peakBin := 0
	for k, m := range spec.Magnitudes {
		if m > spec.Magnitudes[peakBin] {
			peakBin = k
		}
	}
	if peakBin != 100 {
		t.Fatalf("peak at bin %d (%.1f Hz), want 100 (%.1f Hz)",
			peakBin, spec.Frequencies[peakBin], freq)
	}
	if spec.Frequencies[100] != freq {
		t.Fatalf("bin 100 frequency = %g, want %g", spec.Frequencies[100], freq)
	}
	// Bins far from the tone sit at least 60 dB down.
	if spec.Magnitudes[peakBin]-spec.Magnitudes[400] < 60 {
		t.Errorf("insufficient peak-to-floor separation: %g dB vs %g dB",
			spec.Magnitudes[peakBin], spec.Magnitudes[400])
	}
}

// TestSpectrum_MagnitudeFloor: silence floors at 20*log10(1e-10) = -200 dB,
// never -Inf.
func TestSpectrum_MagnitudeFloor(t *testing.T) {
	spec := ComputeSpectrum(make([]float32, 1024), 50000)
	for k, m := range spec.Magnitudes {
		if math.IsInf(m, 0) || math.IsNaN(m) {
			t.Fatalf("bin %d: magnitude %v", k, m)
		}
		if m != -200 {
			t.Fatalf("bin %d: magnitude %g dB, want -200 floor", k, m)
		}
	}
}

// TestFFT_CrossCheck runs the in-place radix-2 transform against the go-dsp
// reference on identical windowed input.
func TestFFT_CrossCheck(t *testing.T) {
	const n = 1024
	const fs = 50000.0

	// A deliberately messy but deterministic waveform.
	input := make([]float64, n)
	for i := range input {
		ti := float64(i) / fs
		input[i] = 0.7*math.Sin(TWO_PI*440*ti) + 0.2*math.Sin(TWO_PI*1337*ti+0.5) + 0.05*math.Cos(TWO_PI*9000*ti)
	}
	hannWindow(input)

	re := append([]float64(nil), input...)
	im := make([]float64, n)
	fftInPlace(re, im)

	want := fft.FFTReal(input)
	for k := 0; k < n/2; k++ {
		gotMag := math.Hypot(re[k], im[k])
		wantMag := cmplx.Abs(want[k])
		if math.Abs(gotMag-wantMag) > 1e-6*(1+wantMag) {
			t.Fatalf("bin %d: |X| = %g, reference %g", k, gotMag, wantMag)
		}
	}
}

// TestHannWindow_Endpoints: the window is zero at both ends and unity in the
// middle.
func TestHannWindow_Endpoints(t *testing.T) {
	buf := make([]float64, 512)
	for i := range buf {
		buf[i] = 1
	}
	hannWindow(buf)
	if buf[0] != 0 || math.Abs(buf[511]) > 1e-12 {
		t.Errorf("window endpoints = %g, %g, want 0, 0", buf[0], buf[511])
	}
	if math.Abs(buf[255]-1) > 0.01 && math.Abs(buf[256]-1) > 0.01 {
		t.Errorf("window midpoint not ~1: %g, %g", buf[255], buf[256])
	}
}

// TestSpectrum_UsesTail: the transform takes the *last* N samples.
func TestSpectrum_UsesTail(t *testing.T) {
	const fs = 50000.0
	samples := make([]float32, 3000)
	// Loud tone in the head; the last 1024+ samples are silent.
	for i := 0; i < 1900; i++ {
		samples[i] = float32(math.Sin(TWO_PI * 1000 * float64(i) / fs))
	}
	spec := ComputeSpectrum(samples, fs)
	for k, m := range spec.Magnitudes {
		if m > -100 {
			t.Fatalf("bin %d: %g dB from the discarded head", k, m)
		}
	}
}

func BenchmarkComputeSpectrum1024(b *testing.B) {
	samples := make([]float32, 1024)
	for i := range samples {
		samples[i] = float32(math.Sin(TWO_PI * 100 * float64(i) / 50000))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeSpectrum(samples, 50000)
	}
}
