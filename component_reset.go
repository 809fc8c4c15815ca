// component_reset.go - Reset() methods for chain components (hard reset support)

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import "time"

// ChainRunner.Reset restores the whole chain to its start-of-run state:
// oscillator phases, filter delay lines, noise spare cache, all 13 rings,
// the accumulator and the sample counter. Parameters and coefficients are
// preserved.
func (cr *ChainRunner) Reset() {
	cr.dut.Reset()
	cr.noise.Reset()
	cr.bpf.Reset()
	cr.lpfI.Reset()
	cr.lpfQ.Reset()
	for ch := range cr.rings {
		cr.rings[ch].Clear()
	}
	cr.iSum = 0
	cr.qSum = 0
	cr.avgCount = 0
	cr.sampleCount = 0
	cr.lastSampleTime = time.Time{}
	cr.lastPublishTime = time.Time{}
	cr.lastOutputs = ScalarOutputs{}
}
