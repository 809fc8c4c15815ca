// file_io_test.go - WAV export tests

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
)

func TestExportChannelWAV(t *testing.T) {
	params := DefaultEngineParams()
	params.SnapshotPoints = 1000
	params.RingCapacity = 10000
	params.Signal.WhiteNoiseAmplitude = 0
	e := startedEngine(t, params)

	// Wait for a published frame so there is data to export.
	select {
	case <-e.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("no frame to export")
	}

	path := filepath.Join(t.TempDir(), "reference.wav")
	if err := ExportChannelWAV(e, "reference", path); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(buf.Data) == 0 {
		t.Fatal("exported WAV holds no samples")
	}
	if buf.Format.NumChannels != 1 {
		t.Fatalf("channels = %d, want 1", buf.Format.NumChannels)
	}

	// Full-scale unit reference sine: peaks near +/-32767.
	peak := 0
	for _, s := range buf.Data {
		if s > peak {
			peak = s
		}
	}
	if peak < 30000 {
		t.Fatalf("peak sample %d, want near full scale for a unit sine", peak)
	}
}

func TestExportChannelWAV_Errors(t *testing.T) {
	e := NewEngine()
	if err := ExportChannelWAV(e, "bogus", "/tmp/x.wav"); err == nil {
		t.Fatal("unknown channel accepted")
	}
	if err := ExportChannelWAV(e, "sensor", "/tmp/x.wav"); err == nil {
		t.Fatal("export with no snapshot accepted")
	}
}
