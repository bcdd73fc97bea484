// Package vecops dispatches the hot loops of the filter runtimes to
// SIMD kernels for float32 and float64 samples.
//
// The type switch happens once per instantiation in [For]; filters keep the
// returned *Ops and call through its function fields.
package vecops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-fir/dsp/core"
)

// Ops provides SIMD-accelerated operations for type F.
type Ops[F core.Float] struct {
	// Dot computes sum(a[i]*b[i]). Both slices must have the same length.
	Dot func(a, b []F) F

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale computes dst[i] = a[i] * s.
	Scale func(dst, a []F, s F)
}

var (
	ops32 = Ops[float32]{
		Dot:   f32.DotProductUnsafe,
		Sum:   f32.Sum,
		Scale: f32.Scale,
	}
	ops64 = Ops[float64]{
		Dot:   f64.DotProductUnsafe,
		Sum:   f64.Sum,
		Scale: f64.Scale,
	}
)

// For returns the Ops instance for type F.
func For[F float32 | float64]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("vecops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("vecops: type assertion failed for float64")
		}
		return ops
	default:
		panic("vecops: unsupported float type")
	}
}

// Float64 returns the float64 operations.
func Float64() *Ops[float64] {
	return &ops64
}

// MulSpectrum computes dst[i] = a[i] * b[i] for complex spectra.
// All slices must have the same length.
func MulSpectrum(dst, a, b []complex128) {
	c128.Mul(dst, a, b)
}
