package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-fir/dsp/conv"
	"github.com/cwbudde/algo-fir/dsp/core"
	"github.com/cwbudde/algo-fir/dsp/filter/design"
	"github.com/cwbudde/algo-fir/dsp/filter/fir"
)

// Float constraint for generic filtering.
type Float interface {
	float32 | float64
}

// streamFilter is the part of the two engines the command uses.
type streamFilter[F Float] interface {
	Apply(input []F) ([]F, error)
	Flush() ([]F, error)
}

// directStream adapts the direct engine, which never holds samples back.
type directStream[F Float] struct {
	f *fir.FilterT[F]
}

func (d directStream[F]) Apply(input []F) ([]F, error) {
	return d.f.Apply(input), nil
}

func (d directStream[F]) Flush() ([]F, error) {
	return nil, nil
}

type filterStats struct {
	spec     design.Spec
	taps     int
	engine   string
	rate     int
	channels int
	bitDepth int
	frames   int64
}

// chooseEngine resolves "auto" by tap count.
func chooseEngine(name string, taps int) (string, error) {
	switch name {
	case engineDirect, engineBlock:
		return name, nil
	case engineAuto, "":
		if taps >= autoBlockThreshold {
			return engineBlock, nil
		}
		return engineDirect, nil
	default:
		return "", fmt.Errorf("unknown engine %q", name)
	}
}

// newChannelFilters creates one filter per channel. Block filters share a
// single kernel.
func newChannelFilters[F Float](engine string, taps []float64, p params, channels int) ([]streamFilter[F], error) {
	filters := make([]streamFilter[F], channels)

	if engine == engineDirect {
		for ch := range channels {
			f, err := fir.NewT[F](taps)
			if err != nil {
				return nil, err
			}
			filters[ch] = directStream[F]{f: f}
		}
		return filters, nil
	}

	k, err := conv.NewKernel(taps, conv.WithBackend(p.backend), conv.WithFFTSize(p.fftSize))
	if err != nil {
		return nil, err
	}
	if p.verbose {
		log.Printf("Block engine: %s, transform size %d, chunk %d", k.Backend().Name(), k.FFTSize(), k.ChunkLen())
	}
	for ch := range channels {
		c, err := conv.NewConvolverT[F](k)
		if err != nil {
			return nil, fmt.Errorf("failed to create filter for channel %d: %w", ch, err)
		}
		filters[ch] = c
	}
	return filters, nil
}

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

var errUnsupportedFormat = errors.New("unsupported WAV format")

// checkFormat accepts signed integer PCM at 16, 24 or 32 bits.
func checkFormat(audioFormat, bitDepth int) error {
	if audioFormat != wavFormatPCM {
		return fmt.Errorf("%w: format tag %d, only integer PCM is supported", errUnsupportedFormat, audioFormat)
	}
	switch bitDepth {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: %d-bit, need 16, 24 or 32", errUnsupportedFormat, bitDepth)
	}
}

// fullScale returns the largest positive sample value for a bit depth
// accepted by checkFormat.
func fullScale(bitDepth int) float64 {
	return float64(int64(1)<<(bitDepth-1) - 1)
}

// deinterleave splits interleaved PCM into per-channel buffers scaled to
// [-1, 1].
func deinterleave[F Float](data []int, channels [][]F, scale float64) {
	n := len(data) / len(channels)
	for ch := range channels {
		channels[ch] = core.EnsureLen(channels[ch], n)
	}
	for i := range n {
		for ch := range channels {
			channels[ch][i] = F(float64(data[i*len(channels)+ch]) * scale)
		}
	}
}

// interleave writes per-channel samples back to PCM, clipping at full
// scale. All channels must have the same length.
func interleave[F Float](channels [][]F, dst []int, maxVal float64) []int {
	if len(channels) == 0 {
		return dst[:0]
	}
	n := len(channels[0])
	dst = dst[:0]
	for i := range n {
		for ch := range channels {
			v := float64(channels[ch][i]) * maxVal
			v = min(max(v, -maxVal-1), maxVal)
			dst = append(dst, int(math.Round(v)))
		}
	}
	return dst
}

func filterWAV[F Float](inputPath, outputPath string, p params) (stats *filterStats, err error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = in.Close() }()

	decoder := wav.NewDecoder(in)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", inputPath)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	channels := format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if err := checkFormat(int(decoder.WavAudioFormat), bitDepth); err != nil {
		return nil, fmt.Errorf("%s: %w", inputPath, err)
	}
	if p.verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, channels, bitDepth)
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(format.SampleRate)),
		core.WithBlockSize(p.blockSize),
	)
	spec, err := normalizedSpec(p.spec, cfg)
	if err != nil {
		return nil, err
	}

	taps, err := design.DesignFrom(spec, p.window, p.taps)
	if err != nil {
		return nil, err
	}

	engine, err := chooseEngine(p.engine, len(taps))
	if err != nil {
		return nil, err
	}
	filters, err := newChannelFilters[F](engine, taps, p, channels)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	encoder := wav.NewEncoder(out, format.SampleRate, bitDepth, channels, wavFormatPCM)
	defer func() {
		if closeErr := encoder.Close(); err == nil {
			err = closeErr
		}
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	stats = &filterStats{
		spec:     p.spec,
		taps:     len(taps),
		engine:   engine,
		rate:     format.SampleRate,
		channels: channels,
		bitDepth: bitDepth,
	}

	maxVal := fullScale(bitDepth)
	readBuf := &audio.IntBuffer{Format: format, Data: make([]int, cfg.BlockSize*channels), SourceBitDepth: bitDepth}
	writeBuf := &audio.IntBuffer{Format: format, SourceBitDepth: bitDepth}
	chanIn := make([][]F, channels)
	chanOut := make([][]F, channels)

	write := func() error {
		writeBuf.Data = interleave(chanOut, writeBuf.Data, maxVal)
		if len(writeBuf.Data) == 0 {
			return nil
		}
		if err := encoder.Write(writeBuf); err != nil {
			return fmt.Errorf("failed to write audio data: %w", err)
		}
		return nil
	}

	for {
		readBuf.Data = readBuf.Data[:cap(readBuf.Data)]
		n, err := decoder.PCMBuffer(readBuf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		n -= n % channels
		if n == 0 {
			break
		}
		stats.frames += int64(n / channels)

		deinterleave(readBuf.Data[:n], chanIn, 1/maxVal)
		for ch, f := range filters {
			if chanOut[ch], err = f.Apply(chanIn[ch]); err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
		}
		if err := write(); err != nil {
			return nil, err
		}
	}

	for ch, f := range filters {
		if chanOut[ch], err = f.Flush(); err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
	}
	if err := write(); err != nil {
		return nil, err
	}

	return stats, nil
}
