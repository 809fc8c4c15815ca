// dsp_interferer.go - Bank of deterministic sinusoidal interferers

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import "math"

// InterfererBank sums N sinusoids with independent persistent phases.
// Phases are randomized once at install; amplitude-only updates leave them
// alone so a running tone does not click when its level is turned.
type InterfererBank struct {
	sampleRate float64
	uniform    UniformSource
	freqs      []float64
	amps       []float64
	phases     []float64
}

// NewInterfererBank installs the given list with fresh random phases.
func NewInterfererBank(sampleRate float64, list []InterfererParams, src UniformSource) *InterfererBank {
	bank := &InterfererBank{sampleRate: sampleRate, uniform: src}
	if bank.uniform == nil {
		bank.uniform = NewNoiseGen(nil).Uniform
	}
	bank.install(list)
	return bank
}

func (bank *InterfererBank) install(list []InterfererParams) {
	bank.freqs = make([]float64, len(list))
	bank.amps = make([]float64, len(list))
	bank.phases = make([]float64, len(list))
	for i, it := range list {
		bank.freqs[i] = it.Frequency
		bank.amps[i] = it.Amplitude
		bank.phases[i] = bank.uniform() * TWO_PI
	}
}

// Generate sums the bank for the current sample, then advances every phase.
func (bank *InterfererBank) Generate() float64 {
	var sum float64
	for i := range bank.freqs {
		sum += bank.amps[i] * math.Sin(bank.phases[i])
		bank.phases[i] = math.Mod(bank.phases[i]+TWO_PI*bank.freqs[i]/bank.sampleRate, TWO_PI)
	}
	return sum
}

// Update applies a new list. When length and per-slot frequencies match the
// live bank, only amplitudes are overwritten in place and phases persist.
// Any structural difference rebuilds the bank with fresh random phases.
// Reports whether a rebuild happened.
func (bank *InterfererBank) Update(list []InterfererParams) bool {
	if len(list) == len(bank.freqs) {
		same := true
		for i, it := range list {
			if it.Frequency != bank.freqs[i] {
				same = false
				break
			}
		}
		if same {
			for i, it := range list {
				bank.amps[i] = it.Amplitude
			}
			return false
		}
	}
	bank.install(list)
	return true
}

// Len returns the number of installed interferers.
func (bank *InterfererBank) Len() int {
	return len(bank.freqs)
}
