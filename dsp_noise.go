// dsp_noise.go - Gaussian (Box-Muller) and uniform noise generation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"math"
	"math/rand"
	"time"
)

// UniformSource yields uniforms in [0, 1). Pluggable so tests can pin the
// sequence; the default is a seeded math/rand generator.
type UniformSource func() float64

// NoiseGen produces Gaussian samples via the Box-Muller transform with a
// spare cache: each transform yields two independent normals, the second is
// held back for the next call.
type NoiseGen struct {
	uniform  UniformSource
	spare    float64
	hasSpare bool
}

// NewNoiseGen builds a generator over the given uniform source. A nil source
// gets a time-seeded math/rand generator.
func NewNoiseGen(src UniformSource) *NoiseGen {
	if src == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		src = rng.Float64
	}
	return &NoiseGen{uniform: src}
}

// Gaussian returns a zero-mean normal sample with standard deviation sigma.
// sigma == 0 short-circuits to 0 and consumes no uniforms, so a silent noise
// stage leaves the uniform sequence untouched.
func (ng *NoiseGen) Gaussian(sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	if ng.hasSpare {
		ng.hasSpare = false
		return sigma * ng.spare
	}
	// u1 must be strictly in (0, 1] for the log; 1-uniform maps [0,1) there.
	u1 := 1.0 - ng.uniform()
	u2 := ng.uniform()
	r := math.Sqrt(-2.0 * math.Log(u1))
	ng.spare = r * math.Sin(TWO_PI*u2)
	ng.hasSpare = true
	return sigma * r * math.Cos(TWO_PI*u2)
}

// Uniform returns the next raw uniform in [0, 1).
func (ng *NoiseGen) Uniform() float64 {
	return ng.uniform()
}

// Reset discards the cached spare normal.
func (ng *NoiseGen) Reset() {
	ng.hasSpare = false
	ng.spare = 0
}
