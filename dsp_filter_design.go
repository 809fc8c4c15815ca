// dsp_filter_design.go - Butterworth LP/HP and RBJ band-pass biquad design

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrInvalidCorner is returned when a corner frequency falls outside the open
// interval (0, fs/2). The engine keeps its previous coefficients in that case.
var ErrInvalidCorner = errors.New("filter corner outside (0, fs/2)")

// Butterworth section Qs for the supported orders.
const (
	BUTTERWORTH_Q2    = math.Sqrt2 / 2 // single 2nd-order section
	BUTTERWORTH_Q4_LO = 0.5412
	BUTTERWORTH_Q4_HI = 1.3066
)

// BPF_ORDER4_BW_FACTOR widens each of the two cascaded band-pass sections so
// that the composite -3 dB bandwidth lands near the requested one. Empirical,
// good to a few percent over the usable range.
const BPF_ORDER4_BW_FACTOR = 1.55

func validateCorner(freq, sampleRate float64) error {
	if freq <= 0 || freq >= sampleRate/2 {
		return fmt.Errorf("%w: %g Hz at fs=%g", ErrInvalidCorner, freq, sampleRate)
	}
	return nil
}

// rbjLowPass is the RBJ cookbook low-pass section.
func rbjLowPass(freq, sampleRate, q float64) BiquadCoeffs {
	w0 := TWO_PI * freq / sampleRate
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha
	return BiquadCoeffs{
		B0: (1 - cosW) / 2 / a0,
		B1: (1 - cosW) / a0,
		B2: (1 - cosW) / 2 / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha) / a0,
	}
}

// rbjHighPass is the RBJ cookbook high-pass section.
func rbjHighPass(freq, sampleRate, q float64) BiquadCoeffs {
	w0 := TWO_PI * freq / sampleRate
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha
	return BiquadCoeffs{
		B0: (1 + cosW) / 2 / a0,
		B1: -(1 + cosW) / a0,
		B2: (1 + cosW) / 2 / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha) / a0,
	}
}

// rbjBandPass is the RBJ constant-skirt section with 0 dB peak gain.
func rbjBandPass(center, sampleRate, q float64) BiquadCoeffs {
	w0 := TWO_PI * center / sampleRate
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha
	return BiquadCoeffs{
		B0: alpha / a0,
		B1: 0,
		B2: -alpha / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha) / a0,
	}
}

// onePoleLowPass expresses a bilinear-transform one-pole LP as a degenerate
// biquad (b2 = a2 = 0).
func onePoleLowPass(freq, sampleRate float64) BiquadCoeffs {
	k := math.Tan(math.Pi * freq / sampleRate) // prewarped
	return BiquadCoeffs{
		B0: k / (k + 1),
		B1: k / (k + 1),
		A1: (k - 1) / (k + 1),
	}
}

func onePoleHighPass(freq, sampleRate float64) BiquadCoeffs {
	k := math.Tan(math.Pi * freq / sampleRate)
	return BiquadCoeffs{
		B0: 1 / (k + 1),
		B1: -1 / (k + 1),
		A1: (k - 1) / (k + 1),
	}
}

// DesignLowPass produces a Butterworth low-pass cascade of the given order
// (1, 2 or 4) as normalized biquad sections.
func DesignLowPass(cutoff, sampleRate float64, order int) ([]BiquadCoeffs, error) {
	if err := validateCorner(cutoff, sampleRate); err != nil {
		return nil, err
	}
	switch normalizeOrder(order) {
	case 1:
		return []BiquadCoeffs{onePoleLowPass(cutoff, sampleRate)}, nil
	case 2:
		return []BiquadCoeffs{rbjLowPass(cutoff, sampleRate, BUTTERWORTH_Q2)}, nil
	default:
		return []BiquadCoeffs{
			rbjLowPass(cutoff, sampleRate, BUTTERWORTH_Q4_LO),
			rbjLowPass(cutoff, sampleRate, BUTTERWORTH_Q4_HI),
		}, nil
	}
}

// DesignHighPass mirrors DesignLowPass with the high-pass recipes.
func DesignHighPass(cutoff, sampleRate float64, order int) ([]BiquadCoeffs, error) {
	if err := validateCorner(cutoff, sampleRate); err != nil {
		return nil, err
	}
	switch normalizeOrder(order) {
	case 1:
		return []BiquadCoeffs{onePoleHighPass(cutoff, sampleRate)}, nil
	case 2:
		return []BiquadCoeffs{rbjHighPass(cutoff, sampleRate, BUTTERWORTH_Q2)}, nil
	default:
		return []BiquadCoeffs{
			rbjHighPass(cutoff, sampleRate, BUTTERWORTH_Q4_LO),
			rbjHighPass(cutoff, sampleRate, BUTTERWORTH_Q4_HI),
		}, nil
	}
}

// DesignBandPass produces the RBJ band-pass section with Q = center/bandwidth.
// Orders 1 and 2 use a single section; order 4 cascades two sections each
// designed for bandwidth*BPF_ORDER4_BW_FACTOR so the composite -3 dB width
// matches the target.
func DesignBandPass(center, bandwidth, sampleRate float64, order int) ([]BiquadCoeffs, error) {
	if err := validateCorner(center, sampleRate); err != nil {
		return nil, err
	}
	if bandwidth <= 0 {
		return nil, fmt.Errorf("%w: bandwidth %g Hz", ErrInvalidCorner, bandwidth)
	}
	if normalizeOrder(order) == 4 {
		q := center / (bandwidth * BPF_ORDER4_BW_FACTOR)
		sec := rbjBandPass(center, sampleRate, q)
		return []BiquadCoeffs{sec, sec}, nil
	}
	q := center / bandwidth
	return []BiquadCoeffs{rbjBandPass(center, sampleRate, q)}, nil
}

// PhaseResponse evaluates arg(H(e^jw)) of one section at frequency f.
func PhaseResponse(c BiquadCoeffs, freq, sampleRate float64) float64 {
	w := TWO_PI * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1
	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return cmplx.Phase(num / den)
}

// CascadedPhase sums the per-section phase responses of a cascade.
func CascadedPhase(sections []BiquadCoeffs, freq, sampleRate float64) float64 {
	var sum float64
	for _, sec := range sections {
		sum += PhaseResponse(sec, freq, sampleRate)
	}
	return sum
}

// MagnitudeResponse evaluates |H(e^jw)| of one section at frequency f.
func MagnitudeResponse(c BiquadCoeffs, freq, sampleRate float64) float64 {
	w := TWO_PI * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1
	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return cmplx.Abs(num / den)
}

// CascadedMagnitude multiplies the per-section magnitudes of a cascade.
func CascadedMagnitude(sections []BiquadCoeffs, freq, sampleRate float64) float64 {
	mag := 1.0
	for _, sec := range sections {
		mag *= MagnitudeResponse(sec, freq, sampleRate)
	}
	return mag
}
