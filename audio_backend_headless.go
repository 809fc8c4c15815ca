//go:build headless

package main

// Headless twin of the OTO monitor for CI and server builds.
type OtoMonitor struct {
	tap     *monitorTap
	started bool
}

func NewOtoMonitor(sampleRate int, tap *monitorTap) (*OtoMonitor, error) {
	return &OtoMonitor{tap: tap}, nil
}

func (om *OtoMonitor) Read(p []byte) (int, error) {
	return len(p), nil
}

func (om *OtoMonitor) Start() {
	om.started = true
}

func (om *OtoMonitor) Stop() {
	om.started = false
}

func (om *OtoMonitor) Close() {
	om.started = false
}

func (om *OtoMonitor) IsStarted() bool {
	return om.started
}
