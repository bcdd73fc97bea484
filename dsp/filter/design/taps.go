package design

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-fir/dsp/core"
)

// Taps is a designed FIR coefficient sequence. Filter runtimes copy taps
// on construction, so a Taps value may be reused or modified afterwards.
type Taps []float64

// Len returns the number of taps.
func (t Taps) Len() int {
	return len(t)
}

// Clone returns an independent copy.
func (t Taps) Clone() Taps {
	if t == nil {
		return nil
	}
	c := make(Taps, len(t))
	copy(c, t)
	return c
}

// Delay returns a copy of t preceded by n zeros, delaying the impulse
// response by n samples. Negative n is treated as zero.
func (t Taps) Delay(n int) Taps {
	n = max(n, 0)
	out := make(Taps, n+len(t))
	copy(out[n:], t)
	return out
}

// Validate reports ErrEmptyTaps for an empty sequence and ErrNumericDegeneracy
// for non-finite values.
func (t Taps) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTaps
	}
	for i, v := range t {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: tap %d is %v", ErrNumericDegeneracy, i, v)
		}
	}
	return nil
}

// Response returns the complex frequency response H(e^{j2πf}) at f cycles
// per sample.
func (t Taps) Response(f float64) complex128 {
	w := 2 * math.Pi * f
	var h complex128
	for k, c := range t {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// Magnitude returns |H| at f cycles per sample.
func (t Taps) Magnitude(f float64) float64 {
	return cmplx.Abs(t.Response(f))
}

// MagnitudeDB returns the magnitude response in dB at f cycles per sample.
func (t Taps) MagnitudeDB(f float64) float64 {
	return core.LinearToDB(t.Magnitude(f))
}

// Amplitude returns the real zero-phase amplitude at f, i.e. the response
// with the linear-phase term of a symmetric filter removed. Normalized
// taps have Amplitude 1 at their spec's reference frequency.
func (t Taps) Amplitude(f float64) float64 {
	var a float64
	for i, v := range t {
		a += v * referenceAt(len(t), i, f)
	}
	return a
}

func referenceAt(n, i int, f float64) float64 {
	return math.Cos(2 * math.Pi * f * (float64(i) - float64(n-1)/2))
}
