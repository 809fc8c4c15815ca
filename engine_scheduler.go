// engine_scheduler.go - Monotonic-clock-paced producer loop

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import "time"

// SCHED_TICK is the producer wakeup interval. Each tick produces however
// many samples the monotonic clock says are due (capped), so the exact tick
// rate only affects burstiness, not throughput.
const SCHED_TICK = DEFAULT_SCHED_TICK_MS * time.Millisecond

// runLoop is the producer goroutine: it owns the ChainRunner outright.
// Control messages and clock ticks are serialized here, which is what lets
// the sample path run lock-free. Go's time.Time carries the monotonic
// reading, so suspend/resume shows up as due<=0 rather than a sample storm.
func (e *Engine) runLoop(runner *ChainRunner) {
	defer close(e.done)

	ticker := time.NewTicker(SCHED_TICK)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case msg := <-e.ctrl:
			var err error
			switch msg.kind {
			case CTRL_UPDATE:
				err = runner.UpdateParams(msg.update)
			case CTRL_MONITOR:
				runner.SetMonitorChannel(msg.channel)
			}
			if msg.reply != nil {
				msg.reply <- err
			}
		case now := <-ticker.C:
			// Bail before publishing if Stop won the race mid-tick.
			select {
			case <-e.stopCh:
				return
			default:
			}
			runner.Tick(now)
			if ev, ok := runner.PublishIfDue(now); ok {
				frame := ev
				e.lastFrame.Store(&frame)
				select {
				case e.events <- ev:
				default:
				}
			}
		}
	}
}
