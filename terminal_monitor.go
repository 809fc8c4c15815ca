// terminal_monitor.go - Raw-mode terminal readout and parameter console

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TerminalMonitor is the thin interactive consumer: it prints the scalar
// outputs of each published frame and turns keypresses into UpdateParams
// diffs. Only instantiated in main.go for interactive use — never in tests.
type TerminalMonitor struct {
	engine *Engine
	shadow EngineParams // local copy of the knobs being nudged

	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State

	monitorChannel int
}

func NewTerminalMonitor(engine *Engine, params EngineParams) *TerminalMonitor {
	return &TerminalMonitor{
		engine:         engine,
		shadow:         params,
		stopCh:         make(chan struct{}),
		done:           make(chan struct{}),
		monitorChannel: -1,
	}
}

// Run owns the terminal until 'q'. Frames stream onto one status line;
// keys nudge parameters through the control channel.
func (tm *TerminalMonitor) Run() error {
	tm.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(tm.fd)
	if err != nil {
		return fmt.Errorf("terminal_monitor: raw mode: %w", err)
	}
	tm.oldTermState = oldState
	defer tm.restore()

	if err := syscall.SetNonblock(tm.fd, true); err != nil {
		return fmt.Errorf("terminal_monitor: nonblocking stdin: %w", err)
	}
	tm.nonblockSet = true

	tm.printHelp()

	keyBuf := make([]byte, 1)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-tm.stopCh:
			return nil
		case ev := <-tm.engine.Events():
			tm.printFrame(ev)
		case <-ticker.C:
			n, err := syscall.Read(tm.fd, keyBuf)
			if n > 0 {
				if quit := tm.handleKey(keyBuf[0]); quit {
					fmt.Print("\r\n")
					return nil
				}
			}
			if err != nil && err != syscall.EAGAIN && err != syscall.EWOULDBLOCK {
				return nil
			}
		}
	}
}

// Stop aborts Run from another goroutine.
func (tm *TerminalMonitor) Stop() {
	tm.stopped.Do(func() {
		close(tm.stopCh)
	})
}

func (tm *TerminalMonitor) restore() {
	if tm.nonblockSet {
		_ = syscall.SetNonblock(tm.fd, false)
		tm.nonblockSet = false
	}
	if tm.oldTermState != nil {
		_ = term.Restore(tm.fd, tm.oldTermState)
		tm.oldTermState = nil
	}
}

func (tm *TerminalMonitor) printHelp() {
	fmt.Print("keys: f/F ref freq  p/P phase  i/I mod index  n/N noise  m mixer  b bpf  c monitor tap  q quit\r\n")
}

func (tm *TerminalMonitor) printFrame(ev FrameReady) {
	o := ev.Outputs
	r := o.I*o.I + o.Q*o.Q
	fmt.Printf("\r f=%6.1fHz  i=%+8.5f  q=%+8.5f  out=%+8.5f  phase=%+7.2f°  r²=%8.5f  n=%d   ",
		tm.shadow.Signal.ReferenceFrequency, o.I, o.Q, o.SignedOutput, o.PhaseDeg, r, ev.DataLength)
}

// handleKey maps one keypress onto a parameter diff. Returns true on quit.
func (tm *TerminalMonitor) handleKey(b byte) bool {
	s := &tm.shadow.Signal
	var diff ParamsUpdate

	switch b {
	case 'q', 3: // q or Ctrl-C
		return true
	case 'f':
		v := s.ReferenceFrequency - 10
		diff.ReferenceFrequency = &v
	case 'F':
		v := s.ReferenceFrequency + 10
		diff.ReferenceFrequency = &v
	case 'p':
		v := s.PhaseShiftDeg - 5
		diff.PhaseShiftDeg = &v
	case 'P':
		v := s.PhaseShiftDeg + 5
		diff.PhaseShiftDeg = &v
	case 'i':
		v := s.ModulationIndex - 0.05
		diff.ModulationIndex = &v
	case 'I':
		v := s.ModulationIndex + 0.05
		diff.ModulationIndex = &v
	case 'n':
		v := s.WhiteNoiseAmplitude - 0.05
		diff.WhiteNoiseAmplitude = &v
	case 'N':
		v := s.WhiteNoiseAmplitude + 0.05
		diff.WhiteNoiseAmplitude = &v
	case 'm':
		v := MIXER_ANALOG
		if tm.shadow.Mixer.Mode == MIXER_ANALOG {
			v = MIXER_DIGITAL
		}
		diff.MixerMode = &v
	case 'b':
		v := !tm.shadow.BPF.Enabled
		diff.BPFEnabled = &v
	case 'c':
		tm.monitorChannel++
		if tm.monitorChannel >= NUM_CHANNELS {
			tm.monitorChannel = -1
		}
		name := "off"
		if tm.monitorChannel >= 0 {
			name = ChannelNames[tm.monitorChannel]
		}
		if err := tm.engine.SetMonitorChannel(tm.monitorChannel); err == nil {
			fmt.Printf("\r\nmonitor tap: %s\r\n", name)
		}
		return false
	default:
		return false
	}

	if err := tm.engine.UpdateParams(diff); err != nil {
		fmt.Printf("\r\nupdate refused: %v\r\n", err)
		return false
	}
	diff.ApplyTo(&tm.shadow)
	tm.shadow.Normalize()
	return false
}
