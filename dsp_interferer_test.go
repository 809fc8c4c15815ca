// dsp_interferer_test.go - Interferer bank update semantics tests

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

func TestInterfererBank_SumOfSines(t *testing.T) {
	// Zero-valued uniform source pins all initial phases to 0.
	zero := func() float64 { return 0 }
	const fs = 50000.0
	bank := NewInterfererBank(fs, []InterfererParams{
		{ID: 1, Frequency: 50, Amplitude: 0.5},
		{ID: 2, Frequency: 150, Amplitude: 0.25},
	}, zero)

	for i := 0; i < 10000; i++ {
		got := bank.Generate()
		p1 := math.Mod(TWO_PI*50*float64(i)/fs, TWO_PI)
		p2 := math.Mod(TWO_PI*150*float64(i)/fs, TWO_PI)
		want := 0.5*math.Sin(p1) + 0.25*math.Sin(p2)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("sample %d: sum = %g, want %g", i, got, want)
		}
	}
}

// TestInterfererBank_AmplitudeOnlyUpdate verifies amplitude edits preserve
// phases: the post-update output must remain continuous with the pre-update
// sequence, only rescaled.
func TestInterfererBank_AmplitudeOnlyUpdate(t *testing.T) {
	zero := func() float64 { return 0 }
	const fs = 50000.0
	bank := NewInterfererBank(fs, []InterfererParams{{ID: 1, Frequency: 60, Amplitude: 1.0}}, zero)

	for i := 0; i < 777; i++ {
		bank.Generate()
	}
	if rebuilt := bank.Update([]InterfererParams{{ID: 1, Frequency: 60, Amplitude: 2.0}}); rebuilt {
		t.Fatal("amplitude-only update rebuilt the bank")
	}

	got := bank.Generate()
	want := 2.0 * math.Sin(math.Mod(TWO_PI*60*777/fs, TWO_PI))
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("post-update sample = %g, want %g (phase must persist)", got, want)
	}
}

func TestInterfererBank_StructuralUpdateRebuilds(t *testing.T) {
	zero := func() float64 { return 0 }
	bank := NewInterfererBank(50000, []InterfererParams{{ID: 1, Frequency: 60, Amplitude: 1}}, zero)

	if rebuilt := bank.Update([]InterfererParams{{ID: 1, Frequency: 61, Amplitude: 1}}); !rebuilt {
		t.Fatal("frequency change did not rebuild the bank")
	}
	if rebuilt := bank.Update([]InterfererParams{
		{ID: 1, Frequency: 61, Amplitude: 1},
		{ID: 2, Frequency: 120, Amplitude: 0.1},
	}); !rebuilt {
		t.Fatal("length change did not rebuild the bank")
	}
	if bank.Len() != 2 {
		t.Fatalf("bank length = %d, want 2", bank.Len())
	}
}

func TestInterfererBank_Empty(t *testing.T) {
	bank := NewInterfererBank(50000, nil, nil)
	for i := 0; i < 100; i++ {
		if v := bank.Generate(); v != 0 {
			t.Fatalf("empty bank produced %g, want 0", v)
		}
	}
}
