// dsp_dut_test.go - DUT generator modulation semantics tests

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

func testSignalParams() SignalParams {
	return SignalParams{
		ReferenceFrequency:    100,
		ReferenceAmplitude:    1,
		ModulatingFrequency:   10,
		ModulationIndex:       0.5,
		PhaseShiftDeg:         30,
		SensorOutputAmplitude: 1,
	}
}

// TestDUT_DSBSC: the sensor is the *product* of carrier and modulator
// (suppressed carrier, not conventional AM). With index=0 the sensor is
// exactly zero.
func TestDUT_DSBSC(t *testing.T) {
	const fs = 50000.0
	sig := testSignalParams()
	dut := NewDUTGenerator(fs, sig)
	phi := sig.PhaseShiftDeg * math.Pi / 180

	for n := 0; n < 20000; n++ {
		s := dut.Step()
		thetaRef := math.Mod(TWO_PI*sig.ReferenceFrequency*float64(n)/fs, TWO_PI)
		thetaMod := math.Mod(TWO_PI*sig.ModulatingFrequency*float64(n)/fs, TWO_PI)
		m := math.Sin(thetaMod)

		wantRef := math.Sin(thetaRef)
		wantClean := math.Sin(thetaRef+phi) * sig.ModulationIndex * m
		wantMod := sig.ModulationIndex * m

		if math.Abs(s.Reference-wantRef) > 1e-6 {
			t.Fatalf("sample %d: reference = %g, want %g", n, s.Reference, wantRef)
		}
		if math.Abs(s.SensorClean-wantClean) > 1e-6 {
			t.Fatalf("sample %d: sensorClean = %g, want %g", n, s.SensorClean, wantClean)
		}
		if math.Abs(s.Modulating-wantMod) > 1e-6 {
			t.Fatalf("sample %d: modulating = %g, want %g", n, s.Modulating, wantMod)
		}
	}
}

func TestDUT_ZeroIndexSilencesSensor(t *testing.T) {
	sig := testSignalParams()
	sig.ModulationIndex = 0
	dut := NewDUTGenerator(50000, sig)
	for n := 0; n < 5000; n++ {
		s := dut.Step()
		if s.SensorClean != 0 || s.Modulating != 0 {
			t.Fatalf("sample %d: sensor not silent at index=0", n)
		}
	}
}

// TestDUT_ModOscillatorStaysInSync: the modulating oscillator advances even
// at index=0, so re-enabling modulation resumes at the phase it would have
// had, not at zero.
func TestDUT_ModOscillatorStaysInSync(t *testing.T) {
	const fs = 50000.0
	sig := testSignalParams()

	a := NewDUTGenerator(fs, sig)

	b := NewDUTGenerator(fs, sig)
	off := sig
	off.ModulationIndex = 0

	const silent = 1234
	for n := 0; n < silent; n++ {
		a.Step()
	}
	b.SetParams(off)
	for n := 0; n < silent; n++ {
		b.Step()
	}
	b.SetParams(sig)

	sa := a.Step()
	sb := b.Step()
	if math.Abs(sa.SensorClean-sb.SensorClean) > 1e-9 {
		t.Fatalf("modulator desynced: %g vs %g", sa.SensorClean, sb.SensorClean)
	}
}

// TestDUT_PhaseShiftOnlyAffectsSensor: the reference output ignores the
// phase shift; only the sensor carrier carries it.
func TestDUT_PhaseShiftOnlyAffectsSensor(t *testing.T) {
	const fs = 50000.0
	sigA := testSignalParams()
	sigA.PhaseShiftDeg = 0
	sigB := testSignalParams()
	sigB.PhaseShiftDeg = 90

	a := NewDUTGenerator(fs, sigA)
	b := NewDUTGenerator(fs, sigB)
	for n := 0; n < 1000; n++ {
		sa, sb := a.Step(), b.Step()
		if sa.Reference != sb.Reference {
			t.Fatalf("sample %d: reference depends on phase shift", n)
		}
	}
}
