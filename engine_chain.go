// engine_chain.go - Per-sample DSP chain, accumulators and snapshot publishing

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"math"
	"time"
)

// MAX_SAMPLES_PER_TICK bounds one scheduler tick's work so a long stall never
// turns into an unbounded catch-up burst. Overrun is not an error: the engine
// under-produces and lets real time drift.
const MAX_SAMPLES_PER_TICK = 2000

// ScalarOutputs are the time-averaged demodulator outputs for one snapshot.
type ScalarOutputs struct {
	I            float64 `json:"i"`
	Q            float64 `json:"q"`
	SignedOutput float64 `json:"signedOutput"`
	PhaseDeg     float64 `json:"phase"`
}

// FrameReady announces a freshly published snapshot.
type FrameReady struct {
	Outputs             ScalarOutputs `json:"outputs"`
	EffectiveSampleRate float64       `json:"effectiveSampleRate"`
	DataLength          int           `json:"dataLength"`
}

// ChainRunner owns the full signal chain and the 13 history rings. It is
// driven from a single goroutine: the scheduler calls Tick and PublishIfDue,
// and parameter updates arrive over the same goroutine via the control loop.
// Nothing in here is locked.
type ChainRunner struct {
	params EngineParams

	dut         *DUTGenerator
	noise       *NoiseGen
	interferers *InterfererBank
	bpf         *BiquadChain
	lpfI        *BiquadChain
	lpfQ        *BiquadChain
	mixer       *Mixer

	rings [NUM_CHANNELS]*RingBuffer
	db    *DoubleBuffer

	iSum        float64
	qSum        float64
	avgCount    int
	sampleCount uint64

	// Phase the BPF contributes at the reference frequency; subtracted from
	// the reported phase so a centered BPF reads zero.
	bpfPhaseOffsetRad float64

	lastSampleTime  time.Time
	lastPublishTime time.Time

	tap            *monitorTap
	monitorChannel int

	lastOutputs ScalarOutputs
}

// NewChainRunner builds the DSP graph for the given parameters. src seeds the
// noise and interferer phase randomness; nil gets a time-seeded source.
func NewChainRunner(params EngineParams, db *DoubleBuffer, src UniformSource) (*ChainRunner, error) {
	params.Normalize()

	bpfCoeffs, err := DesignBandPass(params.BPF.CenterFrequency, params.BPF.Bandwidth,
		params.SampleRate, params.BPF.Order)
	if err != nil {
		return nil, err
	}
	lpfCoeffs, err := DesignLowPass(params.LPF.CutoffFrequency, params.SampleRate, params.LPF.Order)
	if err != nil {
		return nil, err
	}

	noise := NewNoiseGen(src)
	cr := &ChainRunner{
		params:         params,
		dut:            NewDUTGenerator(params.SampleRate, params.Signal),
		noise:          noise,
		interferers:    NewInterfererBank(params.SampleRate, params.Signal.Interferers, noise.Uniform),
		bpf:            NewBiquadChain(bpfCoeffs),
		lpfI:           NewBiquadChain(lpfCoeffs),
		lpfQ:           NewBiquadChain(lpfCoeffs),
		mixer:          NewMixer(params.Mixer.Mode),
		db:             db,
		monitorChannel: -1,
	}
	for ch := range cr.rings {
		cr.rings[ch] = NewRingBuffer(params.RingCapacity)
	}
	if params.BPF.Enabled {
		cr.bpfPhaseOffsetRad = CascadedPhase(bpfCoeffs, params.Signal.ReferenceFrequency, params.SampleRate)
	}
	return cr, nil
}

// Params returns the held parameter snapshot.
func (cr *ChainRunner) Params() EngineParams {
	return cr.params
}

// SetMonitor attaches an audio tap fed with the selected channel; channel -1
// disables the feed.
func (cr *ChainRunner) SetMonitor(tap *monitorTap, channel int) {
	cr.tap = tap
	cr.SetMonitorChannel(channel)
}

func (cr *ChainRunner) SetMonitorChannel(channel int) {
	if channel < -1 || channel >= NUM_CHANNELS {
		channel = -1
	}
	cr.monitorChannel = channel
}

// ProcessSample runs the chain for exactly one sample and appends every tap
// to its ring.
func (cr *ChainRunner) ProcessSample() {
	sig := &cr.params.Signal

	dut := cr.dut.Step()
	noiseV := cr.noise.Gaussian(sig.WhiteNoiseAmplitude) + cr.interferers.Generate()
	sensor := dut.SensorClean + noiseV

	afterBpf := sensor
	if cr.params.BPF.Enabled {
		afterBpf = cr.bpf.Process(sensor)
	}

	mixI, mixQ := cr.mixer.Mix(afterBpf, dut.ThetaRef, sig.ReferenceAmplitude)
	iFilt := cr.lpfI.Process(mixI)
	qFilt := cr.lpfQ.Process(mixQ)

	phi := cr.dut.PhaseShiftRad()
	signed := iFilt*math.Cos(phi) + qFilt*math.Sin(phi)

	t := float64(cr.sampleCount) / cr.params.SampleRate

	var values [NUM_CHANNELS]float64
	values[CHAN_REFERENCE] = dut.Reference
	values[CHAN_MODULATING] = dut.Modulating
	values[CHAN_MODULATING_PLUS_NOISE] = dut.Modulating + noiseV
	values[CHAN_SENSOR_CLEAN] = dut.SensorClean
	values[CHAN_NOISE] = noiseV
	values[CHAN_SENSOR] = sensor
	values[CHAN_AFTER_BPF] = afterBpf
	values[CHAN_MIXER_I] = mixI
	values[CHAN_MIXER_Q] = mixQ
	values[CHAN_I_OUTPUT] = iFilt
	values[CHAN_Q_OUTPUT] = qFilt
	values[CHAN_SIGNED_OUTPUT] = signed
	values[CHAN_TIME] = t

	for ch := range cr.rings {
		cr.rings[ch].Push(float32(values[ch]))
	}
	if cr.tap != nil && cr.monitorChannel >= 0 {
		cr.tap.Push(float32(values[cr.monitorChannel]))
	}

	cr.iSum += iFilt
	cr.qSum += qFilt
	cr.avgCount++
	cr.sampleCount++
}

// ProcessBatch runs n samples back to back. Tests and the script host use
// this to advance simulated time without a wall clock.
func (cr *ChainRunner) ProcessBatch(n int) {
	for i := 0; i < n; i++ {
		cr.ProcessSample()
	}
}

// Tick produces every sample whose theoretical timestamp has elapsed since
// the previous tick, capped at MAX_SAMPLES_PER_TICK. A backward clock jump
// yields due <= 0 and produces nothing. Returns the number produced.
func (cr *ChainRunner) Tick(now time.Time) int {
	if cr.lastSampleTime.IsZero() {
		cr.lastSampleTime = now
		return 0
	}
	due := int(now.Sub(cr.lastSampleTime).Seconds() * cr.params.SampleRate)
	cr.lastSampleTime = now
	if due <= 0 {
		return 0
	}
	if due > MAX_SAMPLES_PER_TICK {
		due = MAX_SAMPLES_PER_TICK
	}
	cr.ProcessBatch(due)
	return due
}

// snapshotPeriod is the publish cadence derived from snapshotRate.
func (cr *ChainRunner) snapshotPeriod() time.Duration {
	return time.Duration(float64(time.Second) / cr.params.SnapshotRate)
}

// PublishIfDue writes a snapshot and flips the double buffer when the
// cadence interval has elapsed.
func (cr *ChainRunner) PublishIfDue(now time.Time) (FrameReady, bool) {
	if cr.lastPublishTime.IsZero() {
		cr.lastPublishTime = now
		return FrameReady{}, false
	}
	if now.Sub(cr.lastPublishTime) < cr.snapshotPeriod() {
		return FrameReady{}, false
	}
	cr.lastPublishTime = now
	return cr.PublishSnapshot(), true
}

// PublishSnapshot decimates all 13 rings into the inactive block, computes
// the averaged outputs, resets the accumulator and flips the flag. The flip
// happens strictly after every channel is fully written.
func (cr *ChainRunner) PublishSnapshot() FrameReady {
	views := cr.db.AcquireWrite()
	points := cr.db.Points()
	dataLen := 0
	for ch := range cr.rings {
		dataLen = cr.rings[ch].SnapshotInto(views[ch], points)
	}

	outputs := cr.computeOutputs()
	cr.iSum = 0
	cr.qSum = 0
	cr.avgCount = 0

	cr.db.Publish()

	stride := cr.rings[0].DecimationStride(points)
	ev := FrameReady{
		Outputs:             outputs,
		EffectiveSampleRate: cr.params.SampleRate / float64(stride),
		DataLength:          dataLen,
	}
	cr.lastOutputs = outputs
	return ev
}

// computeOutputs folds the accumulator into averaged I/Q, the phase-shifted
// signed output and the reported phase. With an empty accumulator atan2(0,0)
// evaluates to 0 (Go's math.Atan2 convention; documented, not accidental).
func (cr *ChainRunner) computeOutputs() ScalarOutputs {
	var iAvg, qAvg float64
	if cr.avgCount > 0 {
		iAvg = cr.iSum / float64(cr.avgCount)
		qAvg = cr.qSum / float64(cr.avgCount)
	}
	phi := cr.dut.PhaseShiftRad()
	phase := math.Atan2(qAvg, iAvg)*180/math.Pi - cr.bpfPhaseOffsetRad*180/math.Pi
	return ScalarOutputs{
		I:            iAvg,
		Q:            qAvg,
		SignedOutput: iAvg*math.Cos(phi) + qAvg*math.Sin(phi),
		PhaseDeg:     wrapPhaseDeg(phase),
	}
}

// wrapPhaseDeg folds an angle into (-180, 180].
func wrapPhaseDeg(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// LastOutputs returns the outputs of the most recent snapshot.
func (cr *ChainRunner) LastOutputs() ScalarOutputs {
	return cr.lastOutputs
}

// SampleCount returns the number of samples processed since start/reset.
func (cr *ChainRunner) SampleCount() uint64 {
	return cr.sampleCount
}

// BpfPhaseOffsetRad exposes the current band-pass phase correction.
func (cr *ChainRunner) BpfPhaseOffsetRad() float64 {
	return cr.bpfPhaseOffsetRad
}

// UpdateParams merges a diff into the held parameters. If the change alters
// the demodulated response (reference frequency, either filter, mixer mode,
// modulating frequency, or interferer structure), the accumulator, all
// filter state and all 13 rings are discarded so no stale pre-change sample
// survives alongside post-change ones, and the BPF phase correction is
// recomputed. A design failure (ErrInvalidCorner) refuses the whole update
// and keeps the prior coefficients and parameters.
func (cr *ChainRunner) UpdateParams(diff *ParamsUpdate) error {
	merged := cr.params
	merged.Signal.Interferers = append([]InterfererParams(nil), cr.params.Signal.Interferers...)
	diff.ApplyTo(&merged)
	merged.Normalize()

	// Engine geometry is fixed at Start.
	merged.SampleRate = cr.params.SampleRate
	merged.RingCapacity = cr.params.RingCapacity
	merged.SnapshotPoints = cr.params.SnapshotPoints
	merged.SnapshotRate = cr.params.SnapshotRate

	reset := responseChanged(&cr.params, &merged) ||
		interferersStructuralChange(cr.params.Signal.Interferers, merged.Signal.Interferers)

	var bpfCoeffs, lpfCoeffs []BiquadCoeffs
	if reset {
		var err error
		bpfCoeffs, err = DesignBandPass(merged.BPF.CenterFrequency, merged.BPF.Bandwidth,
			merged.SampleRate, merged.BPF.Order)
		if err != nil {
			return err
		}
		lpfCoeffs, err = DesignLowPass(merged.LPF.CutoffFrequency, merged.SampleRate, merged.LPF.Order)
		if err != nil {
			return err
		}
	}

	cr.params = merged
	cr.dut.SetParams(merged.Signal)
	cr.mixer.SetMode(merged.Mixer.Mode)
	cr.interferers.Update(merged.Signal.Interferers)

	if reset {
		cr.bpf.ReplaceCoefficients(bpfCoeffs)
		cr.bpf.Reset()
		cr.lpfI.ReplaceCoefficients(lpfCoeffs)
		cr.lpfI.Reset()
		cr.lpfQ.ReplaceCoefficients(lpfCoeffs)
		cr.lpfQ.Reset()
		cr.iSum = 0
		cr.qSum = 0
		cr.avgCount = 0
		for ch := range cr.rings {
			cr.rings[ch].Clear()
		}
		if merged.BPF.Enabled {
			cr.bpfPhaseOffsetRad = CascadedPhase(bpfCoeffs, merged.Signal.ReferenceFrequency, merged.SampleRate)
		} else {
			cr.bpfPhaseOffsetRad = 0
		}
	}
	return nil
}
