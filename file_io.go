// file_io.go - Snapshot export to WAV

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV_BIT_DEPTH is the export sample width. Full scale maps to +/-1 V.
const WAV_BIT_DEPTH = 16

// ExportChannelWAV writes the latest published snapshot of one chain tap to
// a mono PCM WAV at the effective sample rate. The file captures whatever
// the display would show. It is an export, not persistence; nothing reads
// it back.
func ExportChannelWAV(e *Engine, channelName, path string) error {
	idx, ok := ChannelIndex(channelName)
	if !ok {
		return fmt.Errorf("unknown channel: %s", channelName)
	}
	frame, ok := e.LatestFrame()
	if !ok {
		return fmt.Errorf("no snapshot published yet")
	}
	views, err := e.AcquireRead()
	if err != nil {
		return err
	}
	data := views[idx]
	if frame.DataLength < len(data) {
		data = data[:frame.DataLength]
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav export: %w", err)
	}

	rate := int(frame.EffectiveSampleRate)
	if rate < 1 {
		rate = 1
	}
	enc := wav.NewEncoder(f, rate, WAV_BIT_DEPTH, 1, 1)

	const fullScale = 32767
	ints := make([]int, len(data))
	for i, v := range data {
		s := int(v * fullScale)
		if s > fullScale {
			s = fullScale
		} else if s < -fullScale-1 {
			s = -fullScale - 1
		}
		ints[i] = s
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           ints,
		SourceBitDepth: WAV_BIT_DEPTH,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wav export: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wav export: %w", err)
	}
	return f.Close()
}
