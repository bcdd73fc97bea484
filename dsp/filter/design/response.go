package design

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fir/dsp/core"
	"github.com/cwbudde/algo-fir/dsp/transform"
)

// FrequencyResponse is a sampled magnitude response.
type FrequencyResponse struct {
	// Freqs holds bin frequencies in cycles per sample, from 0 to 0.5.
	Freqs []float64
	// Magnitude holds |H| for each bin.
	Magnitude []float64
}

// MagnitudeDB returns the response in dB (20*log10).
func (r FrequencyResponse) MagnitudeDB() []float64 {
	out := make([]float64, len(r.Magnitude))
	for i, m := range r.Magnitude {
		out[i] = core.LinearToDB(m)
	}
	return out
}

// At returns the magnitude of the bin nearest to f cycles per sample.
func (r FrequencyResponse) At(f float64) float64 {
	if len(r.Freqs) < 2 {
		return 0
	}
	step := r.Freqs[1] - r.Freqs[0]
	i := int(f/step + 0.5)
	i = min(max(i, 0), len(r.Magnitude)-1)
	return r.Magnitude[i]
}

// ComputeResponse samples the magnitude response of taps on a grid of at
// least minPoints transform points (rounded up to a size the backend
// handles efficiently, and never shorter than the taps). A nil backend
// selects transform.Default.
func ComputeResponse(taps Taps, minPoints int, backend transform.Backend) (FrequencyResponse, error) {
	if len(taps) == 0 {
		return FrequencyResponse{}, ErrEmptyTaps
	}
	if backend == nil {
		backend = transform.Default()
	}

	n := backend.GoodSize(max(minPoints, len(taps), 2))
	eng, err := backend.New(n)
	if err != nil {
		return FrequencyResponse{}, fmt.Errorf("design: response transform: %w", err)
	}

	padded := make([]float64, n)
	copy(padded, taps)

	spec := make([]complex128, transform.SpectrumLen(n))
	if err := eng.Forward(spec, padded); err != nil {
		return FrequencyResponse{}, fmt.Errorf("design: response transform: %w", err)
	}

	re := make([]float64, len(spec))
	im := make([]float64, len(spec))
	freqs := make([]float64, len(spec))
	for k, c := range spec {
		re[k], im[k] = real(c), imag(c)
		freqs[k] = float64(k) / float64(n)
	}

	mag := make([]float64, len(spec))
	vecmath.Magnitude(mag, re, im)

	return FrequencyResponse{Freqs: freqs, Magnitude: mag}, nil
}
