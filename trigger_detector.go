// trigger_detector.go - Rising-edge trigger search with holdoff

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

// DISPLAY_DIVISIONS is the number of horizontal divisions one trigger frame
// spans on the display.
const DISPLAY_DIVISIONS = 5

// TriggerPoint is an accepted rising-edge crossing.
type TriggerPoint struct {
	Index int
	Time  float64
}

// FindRisingEdge scans the channel for the first index i >= 1 whose time lies
// in [tStart, tEnd] and whose samples straddle the threshold from below:
// channel[i-1] < T <= channel[i].
func FindRisingEdge(channel, times []float32, threshold, tStart, tEnd float64) (TriggerPoint, bool) {
	n := len(channel)
	if len(times) < n {
		n = len(times)
	}
	for i := 1; i < n; i++ {
		t := float64(times[i])
		if t < tStart || t > tEnd {
			continue
		}
		if float64(channel[i-1]) < threshold && threshold <= float64(channel[i]) {
			return TriggerPoint{Index: i, Time: t}, true
		}
	}
	return TriggerPoint{}, false
}

// TriggerTracker maintains trigger/holdoff state across successive snapshots
// of the same timeline. The policy:
//
//   - a held trigger at t* stays valid while t* >= earliest sample time and
//     t* + displayWindow <= latest sample time;
//   - after accepting a trigger, new searches are suppressed until
//     latest >= t* + displayWindow;
//   - a backward jump of the timeline (engine restart, ring clear) resets
//     everything;
//   - when the buffer holds less than one displayWindow of history, the
//     search collapses to the first 10% of the buffer.
type TriggerTracker struct {
	held       TriggerPoint
	hasTrigger bool
	lastLatest float64
}

// DisplayWindowSec converts a ms/div time scale into the seconds spanned by
// one trigger frame.
func DisplayWindowSec(timeScaleMsPerDiv float64) float64 {
	return timeScaleMsPerDiv * DISPLAY_DIVISIONS / 1000.0
}

// Update runs one search cycle over the latest snapshot. channel and times
// must be the same decimated view. Returns the held trigger, if any.
func (tt *TriggerTracker) Update(channel, times []float32, threshold, timeScaleMsPerDiv float64) (TriggerPoint, bool) {
	n := len(times)
	if n < 2 || len(channel) < 2 {
		return TriggerPoint{}, false
	}

	earliest := float64(times[0])
	latest := float64(times[n-1])

	// Timeline went backward: stale holdoff would suppress forever.
	if latest < tt.lastLatest {
		tt.hasTrigger = false
	}
	tt.lastLatest = latest

	window := DisplayWindowSec(timeScaleMsPerDiv)

	// Held trigger still fully displayable?
	if tt.hasTrigger && tt.held.Time >= earliest && tt.held.Time+window <= latest {
		return tt.held, true
	}

	// Holdoff: the previous frame has not fully played out yet.
	if tt.hasTrigger && latest < tt.held.Time+window {
		return tt.held, true
	}
	tt.hasTrigger = false

	tStart, tEnd := earliest, latest
	if latest-earliest < window {
		// Not enough history for a full frame; search the first 10%.
		tEnd = earliest + (latest-earliest)*0.1
	}

	tp, ok := FindRisingEdge(channel, times, threshold, tStart, tEnd)
	if !ok {
		return TriggerPoint{}, false
	}
	tt.held = tp
	tt.hasTrigger = true
	return tp, true
}

// Reset clears any held trigger and holdoff state.
func (tt *TriggerTracker) Reset() {
	tt.hasTrigger = false
	tt.held = TriggerPoint{}
	tt.lastLatest = 0
}
