package conv

import (
	"fmt"

	"github.com/cwbudde/algo-fir/dsp/core"
	"github.com/cwbudde/algo-fir/dsp/transform"
	"github.com/cwbudde/algo-fir/internal/vecops"
)

// ConvolverT streams samples of type F through a Kernel using overlap-add.
//
// Arithmetic is carried out in float64 regardless of F.
type ConvolverT[F float32 | float64] struct {
	k      *Kernel
	engine transform.Engine

	pending []float64 // input not yet resolved, at most ChunkLen samples
	block   []float64 // B
	spec    []complex128
	tail    []float64 // M-1 samples carried into the next block
}

// Convolver is the float64 specialization of ConvolverT.
type Convolver = ConvolverT[float64]

// Convolver32 is the float32 specialization of ConvolverT.
type Convolver32 = ConvolverT[float32]

// NewConvolverT creates a convolver backed by k with its own transform
// engine and state.
func NewConvolverT[F float32 | float64](k *Kernel) (*ConvolverT[F], error) {
	engine, err := k.backend.New(k.fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create transform: %w", err)
	}

	return &ConvolverT[F]{
		k:       k,
		engine:  engine,
		pending: make([]float64, 0, k.chunkLen),
		block:   make([]float64, k.fftSize),
		spec:    make([]complex128, len(k.spectrum)),
		tail:    make([]float64, len(k.taps)-1),
	}, nil
}

// NewT builds a kernel from taps and returns a convolver for it.
func NewT[F float32 | float64](taps []float64, opts ...Option) (*ConvolverT[F], error) {
	k, err := NewKernel(taps, opts...)
	if err != nil {
		return nil, err
	}
	return NewConvolverT[F](k)
}

// New creates a float64 convolver for taps.
func New(taps []float64, opts ...Option) (*Convolver, error) {
	return NewT[float64](taps, opts...)
}

// New32 creates a float32 convolver for taps.
func New32(taps []float64, opts ...Option) (*Convolver32, error) {
	return NewT[float32](taps, opts...)
}

// Kernel returns the kernel backing c.
func (c *ConvolverT[F]) Kernel() *Kernel {
	return c.k
}

// Apply consumes input and returns every output sample that is now fully
// resolved. Without WithZeroLatency the result may be shorter than input;
// the remainder is reported by Pending and released by later calls or
// Flush. Output samples are in stream order across calls.
//
// On a transform error Apply returns the samples resolved before the
// failure together with the error. The rest of the input is lost and the
// convolver must be Reset before further use.
func (c *ConvolverT[F]) Apply(input []F) ([]F, error) {
	out := make([]F, 0, len(c.pending)+len(input))
	chunk := c.k.chunkLen

	var err error
	for len(input) > 0 {
		n := min(chunk-len(c.pending), len(input))
		for _, v := range input[:n] {
			c.pending = append(c.pending, float64(v))
		}
		input = input[n:]

		if len(c.pending) == chunk {
			if out, err = c.resolve(out); err != nil {
				return out, err
			}
		}
	}

	if c.k.zeroLatency && len(c.pending) > 0 {
		if out, err = c.resolve(out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Flush resolves the pending partial chunk and returns its output. The
// tail is carried as usual, so the stream continues seamlessly with the
// next Apply. After an error the convolver must be Reset.
func (c *ConvolverT[F]) Flush() ([]F, error) {
	out := make([]F, 0, len(c.pending))
	if len(c.pending) == 0 {
		return out, nil
	}
	return c.resolve(out)
}

// Pending returns the number of input samples whose output has not been
// returned yet.
func (c *ConvolverT[F]) Pending() int {
	return len(c.pending)
}

// Reset drops pending input and clears the carried tail.
func (c *ConvolverT[F]) Reset() {
	c.pending = c.pending[:0]
	core.Zero(c.tail)
}

// resolve convolves the r = len(pending) <= ChunkLen pending samples,
// appends r output samples to out and carries the next M-1 into tail.
func (c *ConvolverT[F]) resolve(out []F) ([]F, error) {
	r := len(c.pending)

	copy(c.block, c.pending)
	core.Zero(c.block[r:])

	if err := c.engine.Forward(c.spec, c.block); err != nil {
		return out, fmt.Errorf("conv: forward transform failed: %w", err)
	}
	vecops.MulSpectrum(c.spec, c.spec, c.k.spectrum)
	if err := c.engine.Inverse(c.block, c.spec); err != nil {
		return out, fmt.Errorf("conv: inverse transform failed: %w", err)
	}

	for i, v := range c.tail {
		c.block[i] += v
	}
	for _, v := range c.block[:r] {
		out = append(out, F(v))
	}
	copy(c.tail, c.block[r:r+len(c.tail)])

	c.pending = c.pending[:0]
	return out, nil
}

// Filter convolves a whole signal with taps from a zero state and returns
// len(input) samples.
func Filter(input, taps []float64, opts ...Option) ([]float64, error) {
	c, err := New(taps, opts...)
	if err != nil {
		return nil, err
	}

	out, err := c.Apply(input)
	if err != nil {
		return nil, err
	}
	rest, err := c.Flush()
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}
