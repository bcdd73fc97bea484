package transform

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-fir/internal/vecops"
)

// Gonum is the mixed-radix backend built on gonum's real FFT. It accepts
// any size; sizes whose prime factors are 2, 3 and 5 are efficient.
type Gonum struct{}

// Name implements Backend.
func (Gonum) Name() string { return "gonum" }

// GoodSize implements Backend.
func (Gonum) GoodSize(n int) int {
	if n < 2 {
		return 2
	}
	return nextSmooth(n)
}

// New implements Backend.
func (Gonum) New(n int) (Engine, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: gonum needs size >= 2, got %d", ErrInvalidSize, n)
	}
	return &gonumEngine{
		n:     n,
		fft:   fourier.NewFFT(n),
		scale: 1 / float64(n),
	}, nil
}

type gonumEngine struct {
	n     int
	fft   *fourier.FFT
	scale float64
}

func (e *gonumEngine) Len() int { return e.n }

func (e *gonumEngine) Forward(dst []complex128, src []float64) error {
	if err := checkLengths(e.n, len(dst), len(src), SpectrumLen(e.n), e.n); err != nil {
		return err
	}
	e.fft.Coefficients(dst, src)
	return nil
}

func (e *gonumEngine) Inverse(dst []float64, src []complex128) error {
	if err := checkLengths(e.n, len(dst), len(src), e.n, SpectrumLen(e.n)); err != nil {
		return err
	}
	e.fft.Sequence(dst, src)

	// gonum does not normalize the inverse.
	vecops.Float64().Scale(dst, dst, e.scale)
	return nil
}
