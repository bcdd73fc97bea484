// Package testutil provides deterministic signals and tolerance checks
// shared by the filter tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-fir/dsp/core"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Chunks splits x into consecutive pieces whose lengths cycle through sizes.
// Zero sizes produce empty chunks, which streaming filters must accept.
func Chunks(x []float64, sizes ...int) [][]float64 {
	total := 0
	for _, n := range sizes {
		total += max(n, 0)
	}
	if total == 0 {
		return [][]float64{x}
	}

	var out [][]float64
	pos := 0
	for i := 0; pos < len(x); i++ {
		n := max(sizes[i%len(sizes)], 0)
		end := min(pos+n, len(x))
		out = append(out, x[pos:end])
		pos = end
	}
	return out
}

// ToFloat32 converts x to single precision.
func ToFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	core.Convert(out, x)
	return out
}

// ToFloat64 converts x to double precision.
func ToFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	core.Convert(out, x)
	return out
}
