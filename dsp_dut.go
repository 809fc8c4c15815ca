// dsp_dut.go - Simulated device under test: reference + AM-modulated sensor

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import "math"

// DUTSample is one sample's worth of generator outputs, before noise.
type DUTSample struct {
	ThetaRef    float64 // reference phase used for this sample
	Reference   float64 // A_ref * sin(theta)
	Modulating  float64 // A_sensor * index * m, for visualization
	SensorClean float64 // A_sensor * sin(theta+phi) * index * m
}

// DUTGenerator produces the reference and the phase-shifted, amplitude-
// modulated sensor output. The modulation is double-sideband suppressed-
// carrier: the sensor is the *product* of carrier and modulator, not
// carrier*(1+index*m). The demodulated amplitude therefore settles at
// A_sensor*index/2.
type DUTGenerator struct {
	oscRef *Oscillator
	oscMod *Oscillator

	refFreq       float64
	refAmp        float64
	modFreq       float64
	modIndex      float64
	phaseShiftRad float64
	sensorAmp     float64
}

func NewDUTGenerator(sampleRate float64, sig SignalParams) *DUTGenerator {
	dut := &DUTGenerator{
		oscRef: NewOscillator(sampleRate),
		oscMod: NewOscillator(sampleRate),
	}
	dut.SetParams(sig)
	return dut
}

// SetParams adopts new signal parameters. Oscillator phases persist so the
// reference stays continuous across amplitude or phase-shift tweaks.
func (dut *DUTGenerator) SetParams(sig SignalParams) {
	dut.refFreq = sig.ReferenceFrequency
	dut.refAmp = sig.ReferenceAmplitude
	dut.modFreq = sig.ModulatingFrequency
	dut.modIndex = sig.ModulationIndex
	dut.phaseShiftRad = sig.PhaseShiftDeg * math.Pi / 180.0
	dut.sensorAmp = sig.SensorOutputAmplitude
}

// Step generates one sample. The reference phase and its shifted read are
// taken before either oscillator advances; the modulating oscillator
// advances even at index 0 so its phase stays in sync when modulation is
// re-enabled.
func (dut *DUTGenerator) Step() DUTSample {
	theta := dut.oscRef.Phase()
	carrierPhase := dut.oscRef.PhaseOf(dut.phaseShiftRad)
	reference := dut.oscRef.Sine(dut.refFreq, dut.refAmp)

	var m float64
	if dut.modIndex > 0 {
		m = dut.oscMod.Sine(dut.modFreq, 1)
	} else {
		dut.oscMod.Advance(dut.modFreq)
	}

	carrier := math.Sin(carrierPhase)
	return DUTSample{
		ThetaRef:    theta,
		Reference:   reference,
		Modulating:  dut.sensorAmp * dut.modIndex * m,
		SensorClean: dut.sensorAmp * carrier * dut.modIndex * m,
	}
}

// PhaseShiftRad returns the active phase shift in radians.
func (dut *DUTGenerator) PhaseShiftRad() float64 {
	return dut.phaseShiftRad
}

// Reset zeroes both oscillator phases.
func (dut *DUTGenerator) Reset() {
	dut.oscRef.Reset()
	dut.oscMod.Reset()
}
