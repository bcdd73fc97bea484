package conv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fir/dsp/filter/design"
	"github.com/cwbudde/algo-fir/dsp/filter/fir"
	"github.com/cwbudde/algo-fir/dsp/transform"
	"github.com/cwbudde/algo-fir/dsp/window"
	"github.com/cwbudde/algo-fir/internal/testutil"
)

func kaiserTaps(t *testing.T, spec design.Spec, n int) []float64 {
	t.Helper()
	w := window.Spec{Type: window.TypeKaiser, Param: 3, HasParam: true}
	taps, err := design.DesignFrom(spec, w, n)
	require.NoError(t, err)
	return taps
}

func direct(t *testing.T, x, taps []float64) []float64 {
	t.Helper()
	y, err := fir.Apply(x, taps)
	require.NoError(t, err)
	return y
}

// stream feeds x through c in chunks and flushes at the end.
func stream[F float32 | float64](t *testing.T, c *ConvolverT[F], chunks [][]F) []F {
	t.Helper()
	var out []F
	for _, chunk := range chunks {
		y, err := c.Apply(chunk)
		require.NoError(t, err)
		out = append(out, y...)
	}
	rest, err := c.Flush()
	require.NoError(t, err)
	assert.Zero(t, c.Pending())
	return append(out, rest...)
}

func TestEquivalenceWithDirect(t *testing.T) {
	taps := kaiserTaps(t, design.BandpassSpec(0.2, 0.4), 127)
	x := testutil.DeterministicNoise(42, 1, 10000)
	want := direct(t, x, taps)

	chunkings := [][]int{{10000}, {1}, {7, 0, 300}, {130}, {129, 131}, {64, 1000, 3}}

	for _, name := range transform.Names() {
		backend, err := transform.ByName(name)
		require.NoError(t, err)

		for _, sizes := range chunkings {
			c, err := New(taps, WithBackend(backend))
			require.NoError(t, err)

			got := stream(t, c, testutil.Chunks(x, sizes...))
			require.Len(t, got, len(x), "%s sizes=%v", name, sizes)
			testutil.RequireRelativeClose(t, got, want, 1e-9)
		}
	}
}

func TestEquivalenceLargeFFT(t *testing.T) {
	taps := kaiserTaps(t, design.LowpassSpec(0.1), 127)
	x := testutil.DeterministicNoise(5, 1, 5000)
	want := direct(t, x, taps)

	for _, name := range transform.Names() {
		backend, _ := transform.ByName(name)
		c, err := New(taps, WithBackend(backend), WithFFTSize(1000))
		require.NoError(t, err)
		require.GreaterOrEqual(t, c.Kernel().FFTSize(), 1000)

		got := stream(t, c, testutil.Chunks(x, 333))
		testutil.RequireRelativeClose(t, got, want, 1e-9)
	}
}

func TestFloat32(t *testing.T) {
	taps := kaiserTaps(t, design.BandstopSpec(0.2, 0.4), 127)
	x := testutil.DeterministicNoise(9, 1, 4000)
	want := direct(t, x, taps)

	c, err := New32(taps)
	require.NoError(t, err)

	var chunks [][]float32
	for _, chunk := range testutil.Chunks(x, 100, 17) {
		chunks = append(chunks, testutil.ToFloat32(chunk))
	}
	got := stream(t, c, chunks)
	testutil.RequireRelativeClose(t, testutil.ToFloat64(got), want, 1e-5)
}

func TestKernelSizes(t *testing.T) {
	tests := []struct {
		name    string
		taps    int
		backend transform.Backend
		fftSize int
		wantB   int
		wantL   int
	}{
		{"short taps use minimum", 15, transform.AlgoFFT{}, 0, 256, 242},
		{"127 taps", 127, transform.AlgoFFT{}, 0, 256, 130},
		{"300 taps pow2", 300, transform.AlgoFFT{}, 0, 1024, 725},
		{"300 taps smooth", 300, transform.Gonum{}, 0, 600, 301},
		{"requested size", 127, transform.Gonum{}, 1000, 1000, 874},
		{"requested size pow2", 127, transform.GoDSP{}, 1000, 1024, 898},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(make([]float64, tt.taps), WithBackend(tt.backend), WithFFTSize(tt.fftSize))
			require.NoError(t, err)
			assert.Equal(t, tt.wantB, k.FFTSize())
			assert.Equal(t, tt.wantL, k.ChunkLen())
			assert.Equal(t, tt.taps, k.Len())
			assert.Equal(t, tt.backend.Name(), k.Backend().Name())
		})
	}
}

func TestKernelErrors(t *testing.T) {
	_, err := NewKernel(nil)
	require.ErrorIs(t, err, ErrEmptyTaps)

	_, err = New32([]float64{})
	require.ErrorIs(t, err, ErrEmptyTaps)

	_, err = NewKernel([]float64{1}, WithFFTSize(-4))
	require.ErrorIs(t, err, ErrInvalidFFTSize)
}

func TestDefaultBackend(t *testing.T) {
	k, err := NewKernel([]float64{1}, WithBackend(nil))
	require.NoError(t, err)
	assert.Equal(t, transform.Default().Name(), k.Backend().Name())
}

func TestVariableLengthOutput(t *testing.T) {
	taps := kaiserTaps(t, design.LowpassSpec(0.2), 127)
	c, err := New(taps)
	require.NoError(t, err)
	require.Equal(t, 130, c.Kernel().ChunkLen())

	x := testutil.DeterministicNoise(1, 1, 400)

	y, err := c.Apply(x[:100])
	require.NoError(t, err)
	assert.Empty(t, y)
	assert.Equal(t, 100, c.Pending())

	y, err = c.Apply(x[100:150])
	require.NoError(t, err)
	assert.Len(t, y, 130)
	assert.Equal(t, 20, c.Pending())

	y, err = c.Apply(x[150:400])
	require.NoError(t, err)
	assert.Len(t, y, 260)
	assert.Equal(t, 10, c.Pending())

	rest, err := c.Flush()
	require.NoError(t, err)
	assert.Len(t, rest, 10)
	assert.Zero(t, c.Pending())
}

func TestFlushContinuity(t *testing.T) {
	taps := kaiserTaps(t, design.HighpassSpec(0.3), 127)
	x := testutil.DeterministicNoise(11, 1, 3000)
	want := direct(t, x, taps)

	c, err := New(taps)
	require.NoError(t, err)

	var got []float64
	for _, cut := range [][2]int{{0, 500}, {500, 501}, {501, 2000}, {2000, 3000}} {
		y, err := c.Apply(x[cut[0]:cut[1]])
		require.NoError(t, err)
		rest, err := c.Flush()
		require.NoError(t, err)
		got = append(got, y...)
		got = append(got, rest...)
		require.Len(t, got, cut[1])
	}
	testutil.RequireRelativeClose(t, got, want, 1e-9)
}

func TestZeroLatency(t *testing.T) {
	taps := kaiserTaps(t, design.BandpassSpec(0.1, 0.2), 127)
	x := testutil.DeterministicNoise(13, 1, 2500)
	want := direct(t, x, taps)

	c, err := New(taps, WithZeroLatency())
	require.NoError(t, err)

	var got []float64
	for _, chunk := range testutil.Chunks(x, 1, 64, 0, 131, 999) {
		y, err := c.Apply(chunk)
		require.NoError(t, err)
		require.Len(t, y, len(chunk))
		assert.Zero(t, c.Pending())
		got = append(got, y...)
	}
	testutil.RequireRelativeClose(t, got, want, 1e-9)
}

func TestSharedKernel(t *testing.T) {
	taps := kaiserTaps(t, design.LowpassSpec(0.25), 127)
	k, err := NewKernel(taps, WithBackend(transform.Gonum{}))
	require.NoError(t, err)

	a, err := k.NewConvolver()
	require.NoError(t, err)
	b, err := k.NewConvolver()
	require.NoError(t, err)

	xa := testutil.DeterministicNoise(1, 1, 1000)
	xb := testutil.DeterministicSine(1000, 48000, 0.5, 1000)

	var ya, yb []float64
	ca, cb := testutil.Chunks(xa, 77), testutil.Chunks(xb, 200)
	for i := range max(len(ca), len(cb)) {
		if i < len(ca) {
			y, err := a.Apply(ca[i])
			require.NoError(t, err)
			ya = append(ya, y...)
		}
		if i < len(cb) {
			y, err := b.Apply(cb[i])
			require.NoError(t, err)
			yb = append(yb, y...)
		}
	}
	ra, _ := a.Flush()
	rb, _ := b.Flush()

	testutil.RequireRelativeClose(t, append(ya, ra...), direct(t, xa, taps), 1e-9)
	testutil.RequireRelativeClose(t, append(yb, rb...), direct(t, xb, taps), 1e-9)
}

func TestEmptyApply(t *testing.T) {
	c, err := New([]float64{0.5, 0.5})
	require.NoError(t, err)

	_, err = c.Apply([]float64{1, 2, 3})
	require.NoError(t, err)

	y, err := c.Apply(nil)
	require.NoError(t, err)
	assert.Empty(t, y)
	assert.Equal(t, 3, c.Pending())

	rest, err := c.Flush()
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, rest, []float64{0.5, 1.5, 2.5}, 1e-12)

	rest, err = c.Flush()
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestSingleTapPassthrough(t *testing.T) {
	x := testutil.DeterministicNoise(3, 1, 1000)

	for _, name := range transform.Names() {
		backend, _ := transform.ByName(name)
		y, err := Filter(x, []float64{1}, WithBackend(backend))
		require.NoError(t, err)
		testutil.RequireSliceNearlyEqual(t, y, x, 1e-12)
	}
}

func TestReset(t *testing.T) {
	taps := kaiserTaps(t, design.LowpassSpec(0.2), 63)
	x := testutil.DeterministicNoise(21, 1, 700)

	c, err := New(taps)
	require.NoError(t, err)
	first := stream(t, c, testutil.Chunks(x, 50))

	_, err = c.Apply(x[:123])
	require.NoError(t, err)
	c.Reset()
	assert.Zero(t, c.Pending())

	second := stream(t, c, testutil.Chunks(x, 50))
	testutil.RequireSliceNearlyEqual(t, second, first, 1e-12)
}

func TestFilterMatchesDirect(t *testing.T) {
	taps := kaiserTaps(t, design.BandstopSpec(0.1, 0.15), 255)
	x := testutil.DeterministicNoise(8, 1, 6000)

	y, err := Filter(x, taps)
	require.NoError(t, err)
	testutil.RequireRelativeClose(t, y, direct(t, x, taps), 1e-9)

	_, err = Filter(x, nil)
	require.ErrorIs(t, err, ErrEmptyTaps)
}

var errTransform = errors.New("transform failed")

// countingBackend wraps a backend so that the forward transform with the
// given sequence number fails. Numbering is shared by all engines it
// creates and starts at 1.
type countingBackend struct {
	transform.Backend
	calls  *int
	failAt int
}

func (b countingBackend) New(n int) (transform.Engine, error) {
	e, err := b.Backend.New(n)
	if err != nil {
		return nil, err
	}
	return countingEngine{Engine: e, b: b}, nil
}

type countingEngine struct {
	transform.Engine
	b countingBackend
}

func (e countingEngine) Forward(dst []complex128, src []float64) error {
	*e.b.calls++
	if *e.b.calls == e.b.failAt {
		return errTransform
	}
	return e.Engine.Forward(dst, src)
}

func TestApplyTransformError(t *testing.T) {
	taps := kaiserTaps(t, design.LowpassSpec(0.2), 127)
	x := testutil.DeterministicNoise(17, 1, 400)

	// Call 1 transforms the taps; calls 2 and 3 resolve the first two
	// chunks of 130 samples and call 4 fails.
	calls := 0
	c, err := New(taps, WithBackend(countingBackend{Backend: transform.AlgoFFT{}, calls: &calls, failAt: 4}))
	require.NoError(t, err)
	require.Equal(t, 130, c.Kernel().ChunkLen())

	y, err := c.Apply(x)
	require.ErrorIs(t, err, errTransform)
	require.Len(t, y, 260)
	testutil.RequireRelativeClose(t, y, direct(t, x, taps)[:260], 1e-9)

	c.Reset()
	assert.Zero(t, c.Pending())

	got := stream(t, c, testutil.Chunks(x, 97))
	testutil.RequireRelativeClose(t, got, direct(t, x, taps), 1e-9)
}
