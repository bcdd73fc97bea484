// Package transform provides the real-valued DFT used by block convolution.
//
// An [Engine] performs forward (real to half-spectrum) and inverse
// (half-spectrum to real) transforms of one fixed size. A [Backend] knows
// which sizes it handles efficiently and creates engines:
//
//	b := transform.Default()
//	n := b.GoodSize(300)       // 512 for power-of-two backends
//	eng, err := b.New(n)
//	spec := make([]complex128, transform.SpectrumLen(n))
//	err = eng.Forward(spec, block)
//	err = eng.Inverse(block, spec) // normalized by 1/n
//
// Three backends are available:
//
//   - [AlgoFFT]: algo-fft complex plans, power-of-two sizes (default)
//   - [Gonum]: gonum dsp/fourier, sizes with prime factors 2, 3 and 5
//   - [GoDSP]: go-dsp fft, power-of-two sizes
//
// Engines keep scratch buffers and are not safe for concurrent use.
package transform
