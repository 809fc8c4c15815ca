// buffer_double.go - Single-producer/single-consumer atomic double buffer

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Chain tap indices. This order is the wire format of the shared region and
// of every snapshot: do not reorder.
const (
	CHAN_REFERENCE = iota
	CHAN_MODULATING
	CHAN_MODULATING_PLUS_NOISE
	CHAN_SENSOR_CLEAN
	CHAN_NOISE
	CHAN_SENSOR
	CHAN_AFTER_BPF
	CHAN_MIXER_I
	CHAN_MIXER_Q
	CHAN_I_OUTPUT
	CHAN_Q_OUTPUT
	CHAN_SIGNED_OUTPUT
	CHAN_TIME
	NUM_CHANNELS
)

// ChannelNames maps tap indices to their display names, in wire order.
var ChannelNames = [NUM_CHANNELS]string{
	"reference", "modulating", "modulatingPlusNoise", "sensorClean",
	"noise", "sensor", "afterBpf", "mixerI", "mixerQ",
	"iOutput", "qOutput", "signedOutput", "time",
}

// ChannelIndex resolves a display name back to its tap index.
func ChannelIndex(name string) (int, bool) {
	for i, n := range ChannelNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// ErrShapeMismatch is returned when a shared region is too small (or
// misaligned) for the declared snapshot size.
var ErrShapeMismatch = errors.New("shared buffer shape mismatch")

// DoubleBuffer lays a flag plus two snapshot blocks over a caller-provided
// byte region:
//
//	byte 0..3            little-endian int32 flag, 0 or 1
//	byte 4               block A: 13 channels x points x 4-byte float32
//	byte 4 + blockSize   block B
//
// The writer fills whichever block the flag does NOT point at, then flips the
// flag with an atomic store; a reader that observes the new flag value sees
// the fully written block. Exactly one writer and one reader; nothing else is
// synchronized.
type DoubleBuffer struct {
	mem    []byte
	points int
	flag   *int32
	blocks [2][NUM_CHANNELS][]float32
}

// SharedRegionSize returns the byte length required for the given snapshot
// size.
func SharedRegionSize(points int) int {
	return 4 + 2*NUM_CHANNELS*points*4
}

// NewSharedRegion allocates a correctly sized region.
func NewSharedRegion(points int) []byte {
	return make([]byte, SharedRegionSize(points))
}

// NewDoubleBuffer wires channel views over mem. The region must be at least
// SharedRegionSize(points) bytes and 4-byte aligned (heap allocations are).
func NewDoubleBuffer(mem []byte, points int) (*DoubleBuffer, error) {
	if points < 1 {
		return nil, fmt.Errorf("%w: snapshotPoints=%d", ErrShapeMismatch, points)
	}
	if len(mem) < SharedRegionSize(points) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d",
			ErrShapeMismatch, SharedRegionSize(points), len(mem))
	}
	if uintptr(unsafe.Pointer(&mem[0]))%4 != 0 {
		return nil, fmt.Errorf("%w: region not 4-byte aligned", ErrShapeMismatch)
	}

	db := &DoubleBuffer{
		mem:    mem,
		points: points,
		flag:   (*int32)(unsafe.Pointer(&mem[0])),
	}
	blockSize := NUM_CHANNELS * points * 4
	for blk := 0; blk < 2; blk++ {
		base := 4 + blk*blockSize
		for ch := 0; ch < NUM_CHANNELS; ch++ {
			off := base + ch*points*4
			db.blocks[blk][ch] = unsafe.Slice((*float32)(unsafe.Pointer(&mem[off])), points)
		}
	}
	return db, nil
}

// Points returns the per-channel snapshot length.
func (db *DoubleBuffer) Points() int {
	return db.points
}

// AcquireWrite returns the channel views of the inactive block. Writer only.
func (db *DoubleBuffer) AcquireWrite() *[NUM_CHANNELS][]float32 {
	return &db.blocks[1-atomic.LoadInt32(db.flag)]
}

// Publish flips the flag so readers see the block just written. The atomic
// store orders all preceding writes before the flip.
func (db *DoubleBuffer) Publish() {
	atomic.StoreInt32(db.flag, 1-atomic.LoadInt32(db.flag))
}

// AcquireRead returns the channel views of the active block. Reader only.
func (db *DoubleBuffer) AcquireRead() *[NUM_CHANNELS][]float32 {
	return &db.blocks[atomic.LoadInt32(db.flag)]
}
