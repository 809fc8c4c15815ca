// engine_config.go - Parameter model, defaults, clamps and update diffs

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import "math"

// Engine-level defaults
const (
	DEFAULT_SAMPLE_RATE     = 50000.0
	DEFAULT_RING_CAPACITY   = 100000
	DEFAULT_SNAPSHOT_POINTS = 10000
	DEFAULT_SNAPSHOT_RATE   = 30.0
	DEFAULT_TIME_SCALE      = 20.0 // ms per division
)

// Signal source defaults
const (
	DEFAULT_REF_FREQ      = 100.0
	DEFAULT_REF_AMP       = 1.0
	DEFAULT_MOD_FREQ      = 10.0
	DEFAULT_MOD_INDEX     = 0.5
	DEFAULT_PHASE_SHIFT   = 0.0
	DEFAULT_SENSOR_AMP    = 1.0
	DEFAULT_WHITE_NOISE   = 0.1
	DEFAULT_BPF_CENTER    = 100.0
	DEFAULT_BPF_BW        = 50.0
	DEFAULT_BPF_ORDER     = 2
	DEFAULT_LPF_CUTOFF    = 10.0
	DEFAULT_LPF_ORDER     = 2
	DEFAULT_SCHED_TICK_MS = 5
)

// Clamp limits for interactive fields. Out-of-range values are clamped,
// never rejected: the control surface is a knob, not an API contract.
const (
	MIN_REF_FREQ   = 1.0
	MAX_REF_FREQ   = 1000.0
	MIN_MOD_FREQ   = 0.1
	MIN_BPF_CORNER = 1.0
	MIN_LPF_CUTOFF = 0.1
	MIN_TIME_SCALE = 1.0
	MAX_TIME_SCALE = 200.0
)

// InterfererParams describes one deterministic sinusoidal interferer.
// The ID is stable across updates so amplitude-only edits can be matched
// to the live bank entry without restarting its phase.
type InterfererParams struct {
	ID        int     `json:"id"`
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
}

// SignalParams configures the simulated device under test.
type SignalParams struct {
	ReferenceFrequency    float64            `json:"referenceFrequency"`
	ReferenceAmplitude    float64            `json:"referenceAmplitude"`
	ModulatingFrequency   float64            `json:"modulatingFrequency"`
	ModulationIndex       float64            `json:"modulationIndex"`
	PhaseShiftDeg         float64            `json:"phaseShift"`
	SensorOutputAmplitude float64            `json:"sensorOutputAmplitude"`
	WhiteNoiseAmplitude   float64            `json:"whiteNoiseAmplitude"` // Gaussian sigma, volts
	Interferers           []InterfererParams `json:"interferers"`
}

// BandPassParams configures the pre-mixer band-pass stage.
type BandPassParams struct {
	Enabled         bool    `json:"enabled"`
	CenterFrequency float64 `json:"centerFrequency"`
	Bandwidth       float64 `json:"bandwidth"`
	Order           int     `json:"order"` // 1, 2 or 4
}

// LowPassParams configures the post-mixer output filters (I and Q share it).
type LowPassParams struct {
	CutoffFrequency float64 `json:"cutoffFrequency"`
	Order           int     `json:"order"` // 1, 2 or 4
}

// MixerParams selects the phase-sensitive detector flavour.
type MixerParams struct {
	Mode MixerMode `json:"mode"`
}

// EngineParams is the complete immutable parameter snapshot handed to the
// engine at Start and merged into by UpdateParams diffs.
type EngineParams struct {
	SampleRate        float64        `json:"sampleRate"`
	RingCapacity      int            `json:"ringCapacity"`
	SnapshotPoints    int            `json:"snapshotPoints"`
	SnapshotRate      float64        `json:"snapshotRate"`
	TimeScaleMsPerDiv float64        `json:"timeScale"`
	Signal            SignalParams   `json:"signal"`
	BPF               BandPassParams `json:"bpf"`
	LPF               LowPassParams  `json:"lpf"`
	Mixer             MixerParams    `json:"mixer"`
}

// DefaultEngineParams returns the factory configuration: a 100 Hz carrier
// amplitude-modulated at 10 Hz, mild white noise, 2nd-order BPF around the
// carrier and a 10 Hz output LPF.
func DefaultEngineParams() EngineParams {
	return EngineParams{
		SampleRate:        DEFAULT_SAMPLE_RATE,
		RingCapacity:      DEFAULT_RING_CAPACITY,
		SnapshotPoints:    DEFAULT_SNAPSHOT_POINTS,
		SnapshotRate:      DEFAULT_SNAPSHOT_RATE,
		TimeScaleMsPerDiv: DEFAULT_TIME_SCALE,
		Signal: SignalParams{
			ReferenceFrequency:    DEFAULT_REF_FREQ,
			ReferenceAmplitude:    DEFAULT_REF_AMP,
			ModulatingFrequency:   DEFAULT_MOD_FREQ,
			ModulationIndex:       DEFAULT_MOD_INDEX,
			PhaseShiftDeg:         DEFAULT_PHASE_SHIFT,
			SensorOutputAmplitude: DEFAULT_SENSOR_AMP,
			WhiteNoiseAmplitude:   DEFAULT_WHITE_NOISE,
			Interferers:           nil,
		},
		BPF: BandPassParams{
			Enabled:         true,
			CenterFrequency: DEFAULT_BPF_CENTER,
			Bandwidth:       DEFAULT_BPF_BW,
			Order:           DEFAULT_BPF_ORDER,
		},
		LPF: LowPassParams{
			CutoffFrequency: DEFAULT_LPF_CUTOFF,
			Order:           DEFAULT_LPF_ORDER,
		},
		Mixer: MixerParams{Mode: MIXER_ANALOG},
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizePhaseDeg wraps an arbitrary angle into [0, 360).
func normalizePhaseDeg(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// normalizeOrder snaps a requested filter order onto the supported set {1,2,4}.
func normalizeOrder(order int) int {
	switch {
	case order >= 4:
		return 4
	case order >= 2:
		return 2
	default:
		return 1
	}
}

// Normalize clamps every field into its legal range in place. Engine-level
// sizes fall back to defaults when non-positive; ringCapacity >= snapshotPoints
// is enforced by shrinking the snapshot.
func (p *EngineParams) Normalize() {
	if p.SampleRate <= 0 {
		p.SampleRate = DEFAULT_SAMPLE_RATE
	}
	if p.RingCapacity <= 0 {
		p.RingCapacity = DEFAULT_RING_CAPACITY
	}
	if p.SnapshotPoints <= 0 {
		p.SnapshotPoints = DEFAULT_SNAPSHOT_POINTS
	}
	if p.SnapshotPoints > p.RingCapacity {
		p.SnapshotPoints = p.RingCapacity
	}
	if p.SnapshotRate <= 0 {
		p.SnapshotRate = DEFAULT_SNAPSHOT_RATE
	}
	p.TimeScaleMsPerDiv = clampFloat(p.TimeScaleMsPerDiv, MIN_TIME_SCALE, MAX_TIME_SCALE)

	s := &p.Signal
	s.ReferenceFrequency = clampFloat(s.ReferenceFrequency, MIN_REF_FREQ, MAX_REF_FREQ)
	s.ReferenceAmplitude = math.Max(s.ReferenceAmplitude, 0)
	s.ModulatingFrequency = math.Max(s.ModulatingFrequency, MIN_MOD_FREQ)
	s.ModulationIndex = clampFloat(s.ModulationIndex, 0, 1)
	s.PhaseShiftDeg = normalizePhaseDeg(s.PhaseShiftDeg)
	s.SensorOutputAmplitude = math.Max(s.SensorOutputAmplitude, 0)
	s.WhiteNoiseAmplitude = math.Max(s.WhiteNoiseAmplitude, 0)
	for i := range s.Interferers {
		s.Interferers[i].Frequency = math.Max(s.Interferers[i].Frequency, 1.0)
		s.Interferers[i].Amplitude = math.Max(s.Interferers[i].Amplitude, 0)
	}

	p.BPF.CenterFrequency = math.Max(p.BPF.CenterFrequency, MIN_BPF_CORNER)
	p.BPF.Bandwidth = math.Max(p.BPF.Bandwidth, MIN_BPF_CORNER)
	p.BPF.Order = normalizeOrder(p.BPF.Order)

	p.LPF.CutoffFrequency = math.Max(p.LPF.CutoffFrequency, MIN_LPF_CUTOFF)
	p.LPF.Order = normalizeOrder(p.LPF.Order)

	if p.Mixer.Mode != MIXER_DIGITAL {
		p.Mixer.Mode = MIXER_ANALOG
	}
}

// PhaseShiftRad returns the configured phase shift in radians.
func (p *EngineParams) PhaseShiftRad() float64 {
	return p.Signal.PhaseShiftDeg * math.Pi / 180.0
}

// ParamsUpdate is a field-wise diff against the held EngineParams. Nil fields
// are left untouched; Interferers replaces the ordered list wholesale.
// Engine-level sizes (sample rate, ring geometry) are fixed at Start and are
// deliberately absent here.
type ParamsUpdate struct {
	ReferenceFrequency    *float64            `json:"referenceFrequency,omitempty"`
	ReferenceAmplitude    *float64            `json:"referenceAmplitude,omitempty"`
	ModulatingFrequency   *float64            `json:"modulatingFrequency,omitempty"`
	ModulationIndex       *float64            `json:"modulationIndex,omitempty"`
	PhaseShiftDeg         *float64            `json:"phaseShift,omitempty"`
	SensorOutputAmplitude *float64            `json:"sensorOutputAmplitude,omitempty"`
	WhiteNoiseAmplitude   *float64            `json:"whiteNoiseAmplitude,omitempty"`
	Interferers           *[]InterfererParams `json:"interferers,omitempty"`
	BPFEnabled            *bool               `json:"bpfEnabled,omitempty"`
	BPFCenterFrequency    *float64            `json:"bpfCenterFrequency,omitempty"`
	BPFBandwidth          *float64            `json:"bpfBandwidth,omitempty"`
	BPFOrder              *int                `json:"bpfOrder,omitempty"`
	LPFCutoffFrequency    *float64            `json:"lpfCutoffFrequency,omitempty"`
	LPFOrder              *int                `json:"lpfOrder,omitempty"`
	MixerMode             *MixerMode          `json:"mixerMode,omitempty"`
	TimeScaleMsPerDiv     *float64            `json:"timeScale,omitempty"`
}

// ApplyTo merges the supplied fields into p. The caller normalizes afterwards.
func (u *ParamsUpdate) ApplyTo(p *EngineParams) {
	if u.ReferenceFrequency != nil {
		p.Signal.ReferenceFrequency = *u.ReferenceFrequency
	}
	if u.ReferenceAmplitude != nil {
		p.Signal.ReferenceAmplitude = *u.ReferenceAmplitude
	}
	if u.ModulatingFrequency != nil {
		p.Signal.ModulatingFrequency = *u.ModulatingFrequency
	}
	if u.ModulationIndex != nil {
		p.Signal.ModulationIndex = *u.ModulationIndex
	}
	if u.PhaseShiftDeg != nil {
		p.Signal.PhaseShiftDeg = *u.PhaseShiftDeg
	}
	if u.SensorOutputAmplitude != nil {
		p.Signal.SensorOutputAmplitude = *u.SensorOutputAmplitude
	}
	if u.WhiteNoiseAmplitude != nil {
		p.Signal.WhiteNoiseAmplitude = *u.WhiteNoiseAmplitude
	}
	if u.Interferers != nil {
		p.Signal.Interferers = append([]InterfererParams(nil), (*u.Interferers)...)
	}
	if u.BPFEnabled != nil {
		p.BPF.Enabled = *u.BPFEnabled
	}
	if u.BPFCenterFrequency != nil {
		p.BPF.CenterFrequency = *u.BPFCenterFrequency
	}
	if u.BPFBandwidth != nil {
		p.BPF.Bandwidth = *u.BPFBandwidth
	}
	if u.BPFOrder != nil {
		p.BPF.Order = *u.BPFOrder
	}
	if u.LPFCutoffFrequency != nil {
		p.LPF.CutoffFrequency = *u.LPFCutoffFrequency
	}
	if u.LPFOrder != nil {
		p.LPF.Order = *u.LPFOrder
	}
	if u.MixerMode != nil {
		p.Mixer.Mode = *u.MixerMode
	}
	if u.TimeScaleMsPerDiv != nil {
		p.TimeScaleMsPerDiv = *u.TimeScaleMsPerDiv
	}
}

// responseChanged reports whether old and new differ in any way that alters
// the demodulated response: reference frequency, either filter, the mixer
// mode or the modulating frequency. Such a change invalidates held filter
// state, the output accumulator and everything already in the rings.
func responseChanged(old, new *EngineParams) bool {
	if old.Signal.ReferenceFrequency != new.Signal.ReferenceFrequency {
		return true
	}
	if old.Signal.ModulatingFrequency != new.Signal.ModulatingFrequency {
		return true
	}
	if old.BPF != new.BPF {
		return true
	}
	if old.LPF != new.LPF {
		return true
	}
	if old.Mixer.Mode != new.Mixer.Mode {
		return true
	}
	return false
}

// interferersStructuralChange reports whether the interferer list changed in
// length or in any frequency. Amplitude-only edits are applied in place by
// the bank, preserving phases.
func interferersStructuralChange(old, new []InterfererParams) bool {
	if len(old) != len(new) {
		return true
	}
	for i := range old {
		if old[i].Frequency != new[i].Frequency {
			return true
		}
	}
	return false
}

// interferersChanged reports any difference at all, structural or not.
func interferersChanged(old, new []InterfererParams) bool {
	if len(old) != len(new) {
		return true
	}
	for i := range old {
		if old[i] != new[i] {
			return true
		}
	}
	return false
}
