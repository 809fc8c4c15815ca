// engine_facade.go - Engine lifecycle and control/event message surface

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
)

const (
	CONTROL_CHANNEL_DEPTH = 32
	EVENT_CHANNEL_DEPTH   = 8
)

var (
	ErrNotInitialized = errors.New("engine not initialized")
	ErrNotRunning     = errors.New("engine not running")
	ErrAlreadyRunning = errors.New("engine already running")
)

type ctrlKind int

const (
	CTRL_UPDATE ctrlKind = iota
	CTRL_MONITOR
)

type controlMsg struct {
	kind    ctrlKind
	update  *ParamsUpdate
	channel int
	reply   chan error
}

// Engine is the facade over the DSP producer. The consumer side holds it,
// reads the active double-buffer block, and drives it exclusively through
// messages: Init wires the shared region, Start builds the graph and spins
// the producer goroutine, UpdateParams posts diffs, Stop tears down.
type Engine struct {
	mu          sync.Mutex
	db          *DoubleBuffer
	points      int
	initialized bool
	running     atomic.Bool

	ctrl   chan controlMsg
	events chan FrameReady
	stopCh chan struct{}
	done   chan struct{}
	runner *ChainRunner

	tap            *monitorTap
	monitorChannel int

	lastFrame atomic.Pointer[FrameReady]

	// Pinned uniform source for deterministic runs; nil in production.
	uniformSrc UniformSource
}

func NewEngine() *Engine {
	return &Engine{
		events:         make(chan FrameReady, EVENT_CHANNEL_DEPTH),
		tap:            newMonitorTap(),
		monitorChannel: -1,
	}
}

// Init lays the double buffer over a caller-provided shared region. Must
// precede every other control message; a region too small for the declared
// snapshot size is refused with ErrShapeMismatch.
func (e *Engine) Init(shared []byte, snapshotPoints int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running.Load() {
		return ErrAlreadyRunning
	}
	db, err := NewDoubleBuffer(shared, snapshotPoints)
	if err != nil {
		log.Printf("engine: init refused: %v", err)
		return err
	}
	e.db = db
	e.points = snapshotPoints
	e.initialized = true
	return nil
}

// Start builds the DSP graph for params and launches the producer loop.
// Before Init it is logged and ignored, per the control contract.
func (e *Engine) Start(params EngineParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		log.Printf("engine: Start before Init ignored")
		return ErrNotInitialized
	}
	if e.running.Load() {
		return ErrAlreadyRunning
	}

	// The shared region fixes the snapshot geometry.
	params.SnapshotPoints = e.points

	runner, err := NewChainRunner(params, e.db, e.uniformSrc)
	if err != nil {
		return err
	}
	runner.SetMonitor(e.tap, e.monitorChannel)

	e.runner = runner
	e.ctrl = make(chan controlMsg, CONTROL_CHANNEL_DEPTH)
	e.stopCh = make(chan struct{})
	e.done = make(chan struct{})
	e.running.Store(true)
	go e.runLoop(runner)
	return nil
}

// Stop halts the producer loop, waits for the in-progress tick to finish and
// releases the DSP graph. Safe to call when already stopped.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running.Load() {
		return
	}
	close(e.stopCh)
	<-e.done
	e.running.Store(false)
	e.runner.Reset()
	e.runner = nil
}

// UpdateParams posts a field-wise diff to the producer and waits for the
// verdict. Design failures (ErrInvalidCorner) leave the running chain
// untouched.
func (e *Engine) UpdateParams(diff ParamsUpdate) error {
	if !e.running.Load() {
		if !e.initialized {
			log.Printf("engine: UpdateParams before Init ignored")
			return ErrNotInitialized
		}
		return ErrNotRunning
	}
	reply := make(chan error, 1)
	select {
	case e.ctrl <- controlMsg{kind: CTRL_UPDATE, update: &diff, reply: reply}:
	case <-e.done:
		return ErrNotRunning
	}
	select {
	case err := <-reply:
		return err
	case <-e.done:
		return ErrNotRunning
	}
}

// SetMonitorChannel routes the given chain tap (CHAN_*) to the audio
// monitor; -1 silences it.
func (e *Engine) SetMonitorChannel(channel int) error {
	e.mu.Lock()
	e.monitorChannel = channel
	e.mu.Unlock()
	if !e.running.Load() {
		return nil
	}
	reply := make(chan error, 1)
	select {
	case e.ctrl <- controlMsg{kind: CTRL_MONITOR, channel: channel, reply: reply}:
	case <-e.done:
		return ErrNotRunning
	}
	select {
	case err := <-reply:
		return err
	case <-e.done:
		return ErrNotRunning
	}
}

// Events is the FrameReady feed, ~snapshotRate Hz. Sends never block the
// producer; a slow consumer misses frames, it does not stall the chain.
func (e *Engine) Events() <-chan FrameReady {
	return e.events
}

// AcquireRead exposes the active snapshot block to the consumer.
func (e *Engine) AcquireRead() (*[NUM_CHANNELS][]float32, error) {
	if !e.initialized {
		return nil, ErrNotInitialized
	}
	return e.db.AcquireRead(), nil
}

// LatestFrame returns the most recently published frame, if any.
func (e *Engine) LatestFrame() (FrameReady, bool) {
	p := e.lastFrame.Load()
	if p == nil {
		return FrameReady{}, false
	}
	return *p, true
}

// Tap exposes the monitor ring to audio backends.
func (e *Engine) Tap() *monitorTap {
	return e.tap
}

// Running reports whether the producer loop is live.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Points returns the snapshot geometry fixed at Init.
func (e *Engine) Points() int {
	return e.points
}
