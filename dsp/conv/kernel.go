package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fir/dsp/transform"
)

// Errors returned by the block convolution runtime.
var (
	ErrEmptyTaps      = errors.New("conv: empty tap sequence")
	ErrInvalidFFTSize = errors.New("conv: invalid FFT size")
)

// minFFTSize is the smallest transform size a kernel uses.
const minFFTSize = 256

// Option configures a Kernel.
type Option func(*config)

type config struct {
	backend     transform.Backend
	fftSize     int
	zeroLatency bool
}

// WithBackend selects the transform backend. nil selects transform.Default.
func WithBackend(b transform.Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithFFTSize requests a transform size of at least n. The size actually
// used is the backend's good size for max(n, 2*len(taps), 256).
func WithFFTSize(n int) Option {
	return func(c *config) {
		c.fftSize = n
	}
}

// WithZeroLatency makes every Apply return exactly as many samples as it
// was given, by resolving the trailing partial chunk at the end of each
// call.
func WithZeroLatency() Option {
	return func(c *config) {
		c.zeroLatency = true
	}
}

// Kernel holds the transformed taps of a block convolution filter.
type Kernel struct {
	taps        []float64
	spectrum    []complex128
	backend     transform.Backend
	fftSize     int
	chunkLen    int
	zeroLatency bool
}

// NewKernel zero-pads taps to the transform size and transforms them.
func NewKernel(taps []float64, opts ...Option) (*Kernel, error) {
	if len(taps) == 0 {
		return nil, ErrEmptyTaps
	}

	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.fftSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, cfg.fftSize)
	}
	if cfg.backend == nil {
		cfg.backend = transform.Default()
	}

	m := len(taps)
	size := cfg.backend.GoodSize(max(2*m, cfg.fftSize, minFFTSize))
	if size < 2*m {
		return nil, fmt.Errorf("%w: backend %s returned %d for %d taps", ErrInvalidFFTSize, cfg.backend.Name(), size, m)
	}

	engine, err := cfg.backend.New(size)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create transform: %w", err)
	}

	padded := make([]float64, size)
	copy(padded, taps)

	spectrum := make([]complex128, transform.SpectrumLen(size))
	if err := engine.Forward(spectrum, padded); err != nil {
		return nil, fmt.Errorf("conv: failed to transform taps: %w", err)
	}

	return &Kernel{
		taps:        append([]float64(nil), taps...),
		spectrum:    spectrum,
		backend:     cfg.backend,
		fftSize:     size,
		chunkLen:    size - m + 1,
		zeroLatency: cfg.zeroLatency,
	}, nil
}

// Len returns the number of taps.
func (k *Kernel) Len() int { return len(k.taps) }

// FFTSize returns the transform size B.
func (k *Kernel) FFTSize() int { return k.fftSize }

// ChunkLen returns the number of input samples consumed per block, B-M+1.
func (k *Kernel) ChunkLen() int { return k.chunkLen }

// Backend returns the transform backend.
func (k *Kernel) Backend() transform.Backend { return k.backend }

// Taps returns a copy of the taps.
func (k *Kernel) Taps() []float64 {
	return append([]float64(nil), k.taps...)
}

// NewConvolver creates a float64 convolver backed by k.
func (k *Kernel) NewConvolver() (*Convolver, error) {
	return NewConvolverT[float64](k)
}

// NewConvolver32 creates a float32 convolver backed by k.
func (k *Kernel) NewConvolver32() (*Convolver32, error) {
	return NewConvolverT[float32](k)
}
