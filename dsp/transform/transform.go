package transform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned by transform engines.
var (
	ErrInvalidSize    = errors.New("transform: invalid size")
	ErrLengthMismatch = errors.New("transform: buffer length mismatch")
	ErrUnknownBackend = errors.New("transform: unknown backend")
)

// Engine performs real-valued transforms of a fixed size.
type Engine interface {
	// Len returns the transform size N.
	Len() int

	// Forward writes the N/2+1 non-redundant bins of the DFT of src
	// (length N) into dst.
	Forward(dst []complex128, src []float64) error

	// Inverse writes the real sequence whose half-spectrum is src
	// (length N/2+1) into dst (length N), scaled by 1/N.
	Inverse(dst []float64, src []complex128) error
}

// Backend creates engines and reports the sizes it handles efficiently.
type Backend interface {
	// Name identifies the backend, e.g. for command-line selection.
	Name() string

	// GoodSize returns the smallest efficient size >= n.
	GoodSize(n int) int

	// New creates an engine of size n. n must be a size the backend accepts.
	New(n int) (Engine, error)
}

// SpectrumLen returns the number of non-redundant bins of a real DFT of size n.
func SpectrumLen(n int) int {
	return n/2 + 1
}

// Default returns the backend used when none is configured.
func Default() Backend {
	return AlgoFFT{}
}

var backends = map[string]Backend{
	AlgoFFT{}.Name(): AlgoFFT{},
	Gonum{}.Name():   Gonum{},
	GoDSP{}.Name():   GoDSP{},
}

// ByName looks up a backend by its Name (case-insensitive).
func ByName(name string) (Backend, error) {
	b, ok := backends[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkLengths(n int, dst, src int, dstWant, srcWant int) error {
	if src != srcWant {
		return fmt.Errorf("%w: size %d expects %d input values, got %d", ErrLengthMismatch, n, srcWant, src)
	}
	if dst != dstWant {
		return fmt.Errorf("%w: size %d expects %d output values, got %d", ErrLengthMismatch, n, dstWant, dst)
	}
	return nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// nextSmooth returns the smallest integer >= n whose only prime factors
// are 2, 3 and 5.
func nextSmooth(n int) int {
	if n <= 1 {
		return 1
	}
	for m := n; ; m++ {
		if isSmooth(m) {
			return m
		}
	}
}

func isSmooth(n int) bool {
	for _, p := range [...]int{2, 3, 5} {
		for n%p == 0 {
			n /= p
		}
	}
	return n == 1
}
