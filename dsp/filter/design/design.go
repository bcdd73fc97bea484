package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-fir/internal/vecops"
)

// degeneracyThreshold bounds the reference gain relative to the L1 norm of
// the taps; anything smaller cannot be normalized meaningfully.
const degeneracyThreshold = 1e-12

// WindowSource produces window sequences for DesignFrom.
type WindowSource interface {
	// Window returns exactly length window values.
	Window(length int) ([]float64, error)
}

// WindowFunc adapts a plain function to WindowSource.
type WindowFunc func(length int) ([]float64, error)

// Window implements WindowSource.
func (f WindowFunc) Window(length int) ([]float64, error) {
	return f(length)
}

// Design returns len(window) taps of the windowed ideal response of spec.
//
// Tap i is h(i-c)*window[i] with c = (N-1)/2, where h is the ideal impulse
// response:
//
//	lowpass   2fc sinc(2fc t)
//	highpass  δ(t) - 2fc sinc(2fc t)
//	bandpass  2fh sinc(2fh t) - 2fl sinc(2fl t)
//	bandstop  δ(t) - bandpass(t)
//
// If spec.Normalize is set the taps are scaled so that the zero-phase
// amplitude at spec.ReferenceFrequency is exactly one.
func Design(spec Spec, window []float64) (Taps, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}
	for i, w := range window {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: window[%d] = %v", ErrInvalidWindow, i, w)
		}
	}

	n := len(window)
	center := float64(n-1) / 2

	taps := make(Taps, n)
	for i := range taps {
		taps[i] = spec.ideal(float64(i) - center)
	}
	vecmath.MulBlockInPlace(taps, window)

	if spec.Normalize {
		if err := normalize(taps, spec.ReferenceFrequency()); err != nil {
			return nil, err
		}
	}

	return taps, nil
}

// DesignFrom generates a numTaps window from src and designs with it.
func DesignFrom(spec Spec, src WindowSource, numTaps int) (Taps, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if numTaps <= 0 {
		return nil, fmt.Errorf("%w: %d taps requested", ErrEmptyWindow, numTaps)
	}

	w, err := src.Window(numTaps)
	if err != nil {
		return nil, fmt.Errorf("design: window generation failed: %w", err)
	}
	if len(w) != numTaps {
		return nil, fmt.Errorf("%w: window has %d values, want %d", ErrLengthMismatch, len(w), numTaps)
	}

	return Design(spec, w)
}

// Lowpass designs a lowpass filter with len(window) taps.
func Lowpass(window []float64, cutoff float64, normalize bool) (Taps, error) {
	return Design(Spec{Type: TypeLowpass, Cutoffs: []float64{cutoff}, Normalize: normalize}, window)
}

// Highpass designs a highpass filter with len(window) taps.
func Highpass(window []float64, cutoff float64, normalize bool) (Taps, error) {
	return Design(Spec{Type: TypeHighpass, Cutoffs: []float64{cutoff}, Normalize: normalize}, window)
}

// Bandpass designs a bandpass filter with len(window) taps.
func Bandpass(window []float64, low, high float64, normalize bool) (Taps, error) {
	return Design(Spec{Type: TypeBandpass, Cutoffs: []float64{low, high}, Normalize: normalize}, window)
}

// Bandstop designs a bandstop filter with len(window) taps.
func Bandstop(window []float64, low, high float64, normalize bool) (Taps, error) {
	return Design(Spec{Type: TypeBandstop, Cutoffs: []float64{low, high}, Normalize: normalize}, window)
}

// ideal evaluates the infinite impulse response at offset t from the center.
func (s Spec) ideal(t float64) float64 {
	switch s.Type {
	case TypeLowpass:
		return lowpassAt(s.Cutoffs[0], t)
	case TypeHighpass:
		return delta(t) - lowpassAt(s.Cutoffs[0], t)
	case TypeBandpass:
		return lowpassAt(s.Cutoffs[1], t) - lowpassAt(s.Cutoffs[0], t)
	case TypeBandstop:
		return delta(t) - (lowpassAt(s.Cutoffs[1], t) - lowpassAt(s.Cutoffs[0], t))
	default:
		return 0
	}
}

func lowpassAt(fc, t float64) float64 {
	return 2 * fc * sinc(2*fc*t)
}

// sinc is the normalized sinc, sin(pi x)/(pi x), with sinc(0) = 1.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}

func delta(t float64) float64 {
	if t == 0 {
		return 1
	}
	return 0
}

// normalize divides taps by their zero-phase amplitude at freq.
func normalize(taps Taps, freq float64) error {
	ops := vecops.Float64()

	var gain float64
	if freq == 0 {
		gain = ops.Sum(taps)
	} else {
		gain = floats.Dot(taps, referenceVector(len(taps), freq))
	}

	l1 := floats.Norm(taps, 1)
	if math.IsNaN(gain) || math.IsInf(gain, 0) || math.Abs(gain) <= degeneracyThreshold*l1 {
		return fmt.Errorf("%w: gain %g at %g cycles/sample", ErrNumericDegeneracy, gain, freq)
	}

	ops.Scale(taps, taps, 1/gain)
	return nil
}

// referenceVector returns cos(2 pi f (i - c)). Nyquist is built exactly so
// that normalized sums are not perturbed by cosine rounding.
func referenceVector(n int, freq float64) []float64 {
	ref := make([]float64, n)
	center := float64(n-1) / 2

	switch freq {
	case 0.5:
		if n%2 == 0 {
			// Half-integer offsets: cos(pi (k + 1/2)) = 0.
			return ref
		}
		c := (n - 1) / 2
		for i := range ref {
			if (i-c)%2 == 0 {
				ref[i] = 1
			} else {
				ref[i] = -1
			}
		}
	default:
		w := 2 * math.Pi * freq
		for i := range ref {
			ref[i] = math.Cos(w * (float64(i) - center))
		}
	}
	return ref
}
