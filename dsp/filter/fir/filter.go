package fir

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-fir/dsp/core"
	"github.com/cwbudde/algo-fir/internal/vecops"
)

// ErrEmptyTaps is returned when a filter is constructed without taps.
var ErrEmptyTaps = errors.New("fir: empty tap sequence")

// FilterT implements a direct-form FIR filter for samples of type F.
//
// The history line holds the last len(taps)-1 inputs followed by the block
// being processed; after each block the trailing len(taps)-1 samples are
// moved to the front. A filter must not be used from multiple goroutines
// at once.
type FilterT[F float32 | float64] struct {
	taps     []float64 // as designed, for Taps and Response
	reversed []F       // taps[M-1-i], so that y[k] = dot(reversed, line[k:k+M])
	line     []F
	hist     int // len(taps)-1
	ops      *vecops.Ops[F]
}

// Filter is the float64 specialization of FilterT.
type Filter = FilterT[float64]

// Filter32 is the float32 specialization of FilterT.
type Filter32 = FilterT[float32]

// NewT creates a FIR filter from taps. The taps are copied.
func NewT[F float32 | float64](taps []float64) (*FilterT[F], error) {
	if len(taps) == 0 {
		return nil, ErrEmptyTaps
	}

	m := len(taps)
	f := &FilterT[F]{
		taps:     append([]float64(nil), taps...),
		reversed: make([]F, m),
		line:     make([]F, m-1, 2*m),
		hist:     m - 1,
		ops:      vecops.For[F](),
	}
	for i, c := range taps {
		f.reversed[m-1-i] = F(c)
	}
	return f, nil
}

// New creates a float64 FIR filter from taps. The taps are copied.
func New(taps []float64) (*Filter, error) {
	return NewT[float64](taps)
}

// New32 creates a float32 FIR filter from float64 taps.
func New32(taps []float64) (*Filter32, error) {
	return NewT[float32](taps)
}

// Apply filters input and returns a new slice of the same length.
//
//	y[k] = sum_{j=0}^{M-1} taps[j] * x[k-j]
//
// where x is the retained history followed by input.
func (f *FilterT[F]) Apply(input []F) []F {
	out := make([]F, len(input))
	f.ApplyTo(out, input)
	return out
}

// ApplyTo filters src into dst. dst must be at least len(src) long and may
// alias src.
func (f *FilterT[F]) ApplyTo(dst, src []F) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1] // bounds check hint

	n := len(src)
	m := len(f.reversed)

	if cap(f.line) < f.hist+n {
		grown := make([]F, f.hist, f.hist+n)
		copy(grown, f.line)
		f.line = grown
	}
	f.line = append(f.line[:f.hist], src...)

	for k := range n {
		dst[k] = f.ops.Dot(f.reversed, f.line[k:k+m])
	}

	copy(f.line, f.line[n:])
	f.line = f.line[:f.hist]
}

// ProcessBlock filters buf in place.
func (f *FilterT[F]) ProcessBlock(buf []F) {
	f.ApplyTo(buf, buf)
}

// ProcessSample filters one input sample.
func (f *FilterT[F]) ProcessSample(x F) F {
	var in, out [1]F
	in[0] = x
	f.ApplyTo(out[:], in[:])
	return out[0]
}

// Reset clears the history to zero.
func (f *FilterT[F]) Reset() {
	f.line = f.line[:f.hist]
	core.Zero(f.line)
}

// Len returns the number of taps.
func (f *FilterT[F]) Len() int {
	return len(f.taps)
}

// Order returns the filter order (len(taps) - 1).
func (f *FilterT[F]) Order() int {
	return f.hist
}

// Taps returns a copy of the filter taps.
func (f *FilterT[F]) Taps() []float64 {
	return append([]float64(nil), f.taps...)
}

// Response computes the complex frequency response H(e^{jw}) at the given
// frequency (Hz) and sample rate (Hz).
func (f *FilterT[F]) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	var h complex128
	for k, c := range f.taps {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
func (f *FilterT[F]) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return core.LinearToDB(cmplx.Abs(f.Response(freqHz, sampleRate)))
}

// Apply filters a whole signal with taps starting from zero history. It is
// the one-shot form of New followed by Filter.Apply.
func Apply(input, taps []float64) ([]float64, error) {
	f, err := New(taps)
	if err != nil {
		return nil, err
	}
	return f.Apply(input), nil
}
