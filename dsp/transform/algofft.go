package transform

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// AlgoFFT is the power-of-two backend built on algo-fft complex plans.
type AlgoFFT struct{}

// Name implements Backend.
func (AlgoFFT) Name() string { return "algofft" }

// GoodSize implements Backend.
func (AlgoFFT) GoodSize(n int) int { return nextPowerOf2(n) }

// New implements Backend.
func (AlgoFFT) New(n int) (Engine, error) {
	if !isPowerOf2(n) || n < 2 {
		return nil, fmt.Errorf("%w: algofft needs a power of two >= 2, got %d", ErrInvalidSize, n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("transform: failed to create FFT plan: %w", err)
	}

	return &algoEngine{
		n:    n,
		plan: plan,
		buf:  make([]complex128, n),
	}, nil
}

// algoEngine runs real transforms through a full-size complex plan.
type algoEngine struct {
	n    int
	plan *algofft.Plan[complex128]
	buf  []complex128
}

func (e *algoEngine) Len() int { return e.n }

func (e *algoEngine) Forward(dst []complex128, src []float64) error {
	if err := checkLengths(e.n, len(dst), len(src), SpectrumLen(e.n), e.n); err != nil {
		return err
	}

	for i, v := range src {
		e.buf[i] = complex(v, 0)
	}

	if err := e.plan.Forward(e.buf, e.buf); err != nil {
		return fmt.Errorf("transform: forward FFT failed: %w", err)
	}

	copy(dst, e.buf[:len(dst)])
	return nil
}

func (e *algoEngine) Inverse(dst []float64, src []complex128) error {
	if err := checkLengths(e.n, len(dst), len(src), e.n, SpectrumLen(e.n)); err != nil {
		return err
	}

	// Rebuild the Hermitian-symmetric full spectrum.
	half := e.n / 2
	e.buf[0] = complex(real(src[0]), 0)
	e.buf[half] = complex(real(src[half]), 0)
	for k := 1; k < half; k++ {
		e.buf[k] = src[k]
		e.buf[e.n-k] = complex(real(src[k]), -imag(src[k]))
	}

	// algo-fft normalizes the inverse transform.
	if err := e.plan.Inverse(e.buf, e.buf); err != nil {
		return fmt.Errorf("transform: inverse FFT failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(e.buf[i])
	}
	return nil
}
