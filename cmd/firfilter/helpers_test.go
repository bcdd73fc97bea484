package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fir/dsp/core"
	"github.com/cwbudde/algo-fir/dsp/filter/design"
	"github.com/cwbudde/algo-fir/dsp/transform"
	"github.com/cwbudde/algo-fir/dsp/window"
)

func TestParseHz(t *testing.T) {
	got, err := parseHz("950, 1050")
	require.NoError(t, err)
	assert.Equal(t, []float64{950, 1050}, got)

	_, err = parseHz(" , ")
	require.Error(t, err)

	_, err = parseHz("1k")
	require.Error(t, err)
}

func TestNormalizedSpec(t *testing.T) {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(48000))

	spec, err := normalizedSpec(design.BandpassSpec(4800, 12000), cfg)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.25}, spec.Cutoffs, 1e-15)

	_, err = normalizedSpec(design.LowpassSpec(30000), cfg)
	require.ErrorIs(t, err, design.ErrInvalidSpec)
}

func TestChooseEngine(t *testing.T) {
	tests := []struct {
		name string
		taps int
		want string
	}{
		{engineAuto, 15, engineDirect},
		{engineAuto, 255, engineBlock},
		{"", 63, engineDirect},
		{engineDirect, 4095, engineDirect},
		{engineBlock, 3, engineBlock},
	}
	for _, tt := range tests {
		got, err := chooseEngine(tt.name, tt.taps)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q with %d taps", tt.name, tt.taps)
	}

	_, err := chooseEngine("fft", 10)
	require.Error(t, err)
}

func TestInterleaveRoundTrip(t *testing.T) {
	data := []int{0, 100, -32768, 32767, 16384, -16384}
	maxVal := fullScale(16)
	assert.Equal(t, 32767.0, maxVal)

	chans := make([][]float64, 2)
	deinterleave(data, chans, 1/maxVal)
	require.Len(t, chans[0], 3)
	assert.InDelta(t, 100/maxVal, chans[1][0], 1e-15)

	assert.Equal(t, data, interleave(chans, nil, maxVal))
}

func TestInterleaveClips(t *testing.T) {
	chans := [][]float32{{2, -2, 0.5}}
	got := interleave(chans, nil, fullScale(16))
	assert.Equal(t, []int{32767, -32768, 16384}, got)
}

func TestCheckFormat(t *testing.T) {
	for _, depth := range []int{16, 24, 32} {
		assert.NoError(t, checkFormat(wavFormatPCM, depth), "%d-bit", depth)
	}

	tests := []struct {
		name        string
		audioFormat int
		bitDepth    int
	}{
		{"ieee float", 3, 32},
		{"extensible", 0xFFFE, 16},
		{"8-bit unsigned", wavFormatPCM, 8},
		{"12-bit", wavFormatPCM, 12},
		{"zero depth", wavFormatPCM, 0},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, checkFormat(tt.audioFormat, tt.bitDepth), errUnsupportedFormat, tt.name)
	}
}

func writeTestWAV(t *testing.T, path string, rate, channels int, frames [][]float64) {
	t.Helper()
	writeTestWAVFormat(t, path, rate, channels, 16, wavFormatPCM, interleave(frames, nil, fullScale(16)))
}

func writeTestWAVFormat(t *testing.T, path string, rate, channels, bitDepth, audioFormat int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, bitDepth, channels, audioFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func readTestWAV(t *testing.T, path string) (*audio.IntBuffer, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf, int(dec.SampleRate)
}

func TestFilterWAV(t *testing.T) {
	const (
		rate   = 48000
		frames = 6000
		taps   = 255
	)
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")

	left := make([]float64, frames)
	right := make([]float64, frames)
	for i := range left {
		left[i] = 0.5 * math.Sin(2*math.Pi*200*float64(i)/rate)
		right[i] = 0.25*math.Sin(2*math.Pi*300*float64(i)/rate) + 0.25*math.Sin(2*math.Pi*15000*float64(i)/rate)
	}
	writeTestWAV(t, inPath, rate, 2, [][]float64{left, right})

	for _, engine := range []string{engineDirect, engineBlock} {
		for _, fast := range []bool{false, true} {
			outPath := filepath.Join(dir, "out.wav")
			p := params{
				spec:      design.LowpassSpec(4000),
				window:    window.Spec{Type: window.TypeBlackman},
				taps:      taps,
				engine:    engine,
				backend:   transform.Gonum{},
				blockSize: 1000,
				fast:      fast,
			}

			var stats *filterStats
			var err error
			if fast {
				stats, err = filterWAV[float32](inPath, outPath, p)
			} else {
				stats, err = filterWAV[float64](inPath, outPath, p)
			}
			require.NoError(t, err)
			assert.Equal(t, engine, stats.engine)
			assert.Equal(t, int64(frames), stats.frames)

			buf, gotRate := readTestWAV(t, outPath)
			assert.Equal(t, rate, gotRate)
			require.Len(t, buf.Data, 2*frames, "%s fast=%v", engine, fast)

			// Past the group delay the lowpass passes the low tones and
			// removes the 15 kHz tone.
			delay := (taps - 1) / 2
			maxVal := fullScale(16)
			for i := taps; i < frames; i++ {
				wantL := 0.5 * math.Sin(2*math.Pi*200*float64(i-delay)/rate)
				wantR := 0.25 * math.Sin(2*math.Pi*300*float64(i-delay)/rate)
				require.InDelta(t, wantL, float64(buf.Data[2*i])/maxVal, 1e-3, "%s frame %d", engine, i)
				require.InDelta(t, wantR, float64(buf.Data[2*i+1])/maxVal, 1e-3, "%s frame %d", engine, i)
			}
		}
	}
}

func TestFilterWAVErrors(t *testing.T) {
	dir := t.TempDir()
	p := params{spec: design.LowpassSpec(1000), window: window.Spec{Type: window.TypeHann}, taps: 31, engine: engineAuto, backend: transform.Default(), blockSize: 256}

	_, err := filterWAV[float64](filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.wav"), p)
	require.Error(t, err)

	inPath := filepath.Join(dir, "in.wav")
	writeTestWAV(t, inPath, 8000, 1, [][]float64{make([]float64, 100)})

	p.spec = design.LowpassSpec(5000) // above Nyquist at 8 kHz
	_, err = filterWAV[float64](inPath, filepath.Join(dir, "out.wav"), p)
	require.ErrorIs(t, err, design.ErrInvalidSpec)
}

func TestFilterWAVRejectsUnsupportedFormats(t *testing.T) {
	dir := t.TempDir()
	p := params{spec: design.LowpassSpec(1000), window: window.Spec{Type: window.TypeHann}, taps: 31, engine: engineAuto, backend: transform.Default(), blockSize: 256}

	tests := []struct {
		name        string
		bitDepth    int
		audioFormat int
		data        []int
	}{
		{"8-bit", 8, wavFormatPCM, make([]int, 100)},
		{"ieee float", 32, 3, make([]int, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inPath := filepath.Join(dir, tt.name+".wav")
			outPath := filepath.Join(dir, tt.name+"-out.wav")
			writeTestWAVFormat(t, inPath, 8000, 1, tt.bitDepth, tt.audioFormat, tt.data)

			_, err := filterWAV[float64](inPath, outPath, p)
			require.ErrorIs(t, err, errUnsupportedFormat)
			assert.NoFileExists(t, outPath)
		})
	}
}
