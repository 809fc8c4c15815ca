// dsp_biquad.go - Direct-Form-I biquad section and cascade

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

// BiquadCoeffs holds one second-order section, normalized so a0 == 1.
type BiquadCoeffs struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// BiquadSection is a Direct-Form-I realization: two past inputs, two past
// outputs. Coefficients are replaced atomically on reconfig; state is only
// touched by Process and Reset.
type BiquadSection struct {
	coeffs         BiquadCoeffs
	x1, x2, y1, y2 float64
}

// Process runs one sample through the section and shifts the delay lines.
func (sec *BiquadSection) Process(x float64) float64 {
	c := &sec.coeffs
	y := c.B0*x + c.B1*sec.x1 + c.B2*sec.x2 - c.A1*sec.y1 - c.A2*sec.y2
	sec.x2 = sec.x1
	sec.x1 = x
	sec.y2 = sec.y1
	sec.y1 = y
	return y
}

// Reset zeroes the delay lines, keeping coefficients.
func (sec *BiquadSection) Reset() {
	sec.x1, sec.x2, sec.y1, sec.y2 = 0, 0, 0, 0
}

// BiquadChain is an ordered cascade of sections.
type BiquadChain struct {
	sections []BiquadSection
}

func NewBiquadChain(coeffs []BiquadCoeffs) *BiquadChain {
	chain := &BiquadChain{}
	chain.rebuild(coeffs)
	return chain
}

func (chain *BiquadChain) rebuild(coeffs []BiquadCoeffs) {
	chain.sections = make([]BiquadSection, len(coeffs))
	for i := range coeffs {
		chain.sections[i].coeffs = coeffs[i]
	}
}

// Process pipes one sample through every section in order.
func (chain *BiquadChain) Process(x float64) float64 {
	for i := range chain.sections {
		x = chain.sections[i].Process(x)
	}
	return x
}

// Reset zeroes all section state.
func (chain *BiquadChain) Reset() {
	for i := range chain.sections {
		chain.sections[i].Reset()
	}
}

// ReplaceCoefficients swaps in a new coefficient set. If the section count
// matches, state is carried over; otherwise the cascade is rebuilt from
// scratch with zeroed state.
func (chain *BiquadChain) ReplaceCoefficients(coeffs []BiquadCoeffs) {
	if len(coeffs) == len(chain.sections) {
		for i := range coeffs {
			chain.sections[i].coeffs = coeffs[i]
		}
		return
	}
	chain.rebuild(coeffs)
}

// NumSections returns the cascade length.
func (chain *BiquadChain) NumSections() int {
	return len(chain.sections)
}

// Coefficients returns a copy of the current coefficient set.
func (chain *BiquadChain) Coefficients() []BiquadCoeffs {
	out := make([]BiquadCoeffs, len(chain.sections))
	for i := range chain.sections {
		out[i] = chain.sections[i].coeffs
	}
	return out
}
