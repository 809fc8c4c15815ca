//go:build !headless

// audio_backend_oto.go - OTO v3 audio monitor output

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// UNDERRUN_DECAY shrinks the held sample while the tap is starved, ramping
// the output to silence in a few milliseconds instead of stepping to zero.
const UNDERRUN_DECAY = 0.995

// OtoMonitor plays whichever chain tap the engine routes to the monitor
// ring. The device pulls; the tap is fixed at construction and the only
// mutable state is start/stop, so Read needs no synchronization at all.
type OtoMonitor struct {
	ctx    *oto.Context
	player *oto.Player
	tap    *monitorTap

	pull []float32 // staging buffer between tap and device
	held float32   // last played sample, decayed across underruns

	mu      sync.Mutex
	started bool
}

// NewOtoMonitor opens the audio device at the engine's native rate and wires
// it straight to the tap.
func NewOtoMonitor(sampleRate int, tap *monitorTap) (*OtoMonitor, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	om := &OtoMonitor{
		ctx:  ctx,
		tap:  tap,
		pull: make([]float32, 4096),
	}
	om.player = ctx.NewPlayer(om)
	return om, nil
}

// Read drains the tap into the device buffer. A starved tap does not block:
// the last sample is repeated with exponential decay, so a paused or silent
// engine fades out rather than clicking.
func (om *OtoMonitor) Read(p []byte) (int, error) {
	want := len(p) / 4
	if len(om.pull) < want {
		om.pull = make([]float32, want)
	}
	got := om.tap.Pull(om.pull[:want])

	for i := 0; i < want; i++ {
		if i < got {
			om.held = om.pull[i]
		} else {
			om.held *= UNDERRUN_DECAY
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(om.held))
	}
	return want * 4, nil
}

func (om *OtoMonitor) Start() {
	om.mu.Lock()
	defer om.mu.Unlock()
	if !om.started {
		om.player.Play()
		om.started = true
	}
}

func (om *OtoMonitor) Stop() {
	om.mu.Lock()
	defer om.mu.Unlock()
	if om.started {
		om.player.Pause()
		om.started = false
	}
}

func (om *OtoMonitor) Close() {
	om.mu.Lock()
	defer om.mu.Unlock()
	if om.player != nil {
		om.player.Close()
		om.player = nil
	}
	om.started = false
}

func (om *OtoMonitor) IsStarted() bool {
	om.mu.Lock()
	defer om.mu.Unlock()
	return om.started
}
