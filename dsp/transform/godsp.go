package transform

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// GoDSP is the power-of-two backend built on go-dsp's fft package.
// go-dsp allocates its results, so this backend trades speed for a
// dependency-light reference implementation.
type GoDSP struct{}

// Name implements Backend.
func (GoDSP) Name() string { return "godsp" }

// GoodSize implements Backend.
func (GoDSP) GoodSize(n int) int {
	if n < 2 {
		return 2
	}
	return nextPowerOf2(n)
}

// New implements Backend.
func (GoDSP) New(n int) (Engine, error) {
	if !isPowerOf2(n) || n < 2 {
		return nil, fmt.Errorf("%w: godsp needs a power of two >= 2, got %d", ErrInvalidSize, n)
	}
	return &godspEngine{n: n, buf: make([]complex128, n)}, nil
}

type godspEngine struct {
	n   int
	buf []complex128
}

func (e *godspEngine) Len() int { return e.n }

func (e *godspEngine) Forward(dst []complex128, src []float64) error {
	if err := checkLengths(e.n, len(dst), len(src), SpectrumLen(e.n), e.n); err != nil {
		return err
	}
	copy(dst, fft.FFTReal(src)[:len(dst)])
	return nil
}

func (e *godspEngine) Inverse(dst []float64, src []complex128) error {
	if err := checkLengths(e.n, len(dst), len(src), e.n, SpectrumLen(e.n)); err != nil {
		return err
	}

	half := e.n / 2
	e.buf[0] = complex(real(src[0]), 0)
	e.buf[half] = complex(real(src[half]), 0)
	for k := 1; k < half; k++ {
		e.buf[k] = src[k]
		e.buf[e.n-k] = complex(real(src[k]), -imag(src[k]))
	}

	// fft.IFFT scales by 1/N.
	out := fft.IFFT(e.buf)
	for i := range dst {
		dst[i] = real(out[i])
	}
	return nil
}
