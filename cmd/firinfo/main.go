// Command firinfo designs a windowed-sinc FIR filter and prints its taps
// and magnitude response.
//
// Usage:
//
//	firinfo [flags]
//
// Cutoffs are in cycles per sample (0.5 is Nyquist) unless -rate is given,
// in which case they are in Hz.
//
// Examples:
//
//	firinfo -type lowpass -cutoff 0.1 -taps 63
//	firinfo -type bandstop -cutoff 0.2,0.4 -taps 127 -window kaiser -alpha 3
//	firinfo -type highpass -cutoff 2000 -rate 48000 -coeffs
//	firinfo -list
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-fir/dsp/core"
	"github.com/cwbudde/algo-fir/dsp/filter/design"
	"github.com/cwbudde/algo-fir/dsp/transform"
	"github.com/cwbudde/algo-fir/dsp/window"
)

const (
	defaultTaps   = 127
	defaultPoints = 1024
	defaultRows   = 32
)

type options struct {
	spec     design.Spec
	window   window.Spec
	taps     int
	points   int
	rows     int
	rate     float64
	backend  transform.Backend
	coeffs   bool
	periodic bool
}

func main() {
	typeName := flag.String("type", "lowpass", "filter type: lowpass, highpass, bandpass, bandstop")
	cutoff := flag.String("cutoff", "0.25", "cutoff frequency, or low,high for band filters")
	taps := flag.Int("taps", defaultTaps, "number of taps")
	winName := flag.String("window", "hann", "window function")
	alpha := flag.Float64("alpha", math.NaN(), "window parameter (kaiser beta, tukey alpha)")
	rate := flag.Float64("rate", 0, "sample rate in Hz; cutoffs and the response table use Hz when set")
	noNorm := flag.Bool("no-normalize", false, "skip gain normalization")
	points := flag.Int("points", defaultPoints, "minimum response grid size")
	rows := flag.Int("rows", defaultRows, "number of response rows to print")
	backendName := flag.String("backend", transform.Default().Name(), "transform backend for the response: "+strings.Join(transform.Names(), ", "))
	coeffs := flag.Bool("coeffs", false, "print the taps")
	periodic := flag.Bool("periodic", false, "use periodic (FFT) window form instead of symmetric")
	list := flag.Bool("list", false, "list window and backend names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: firinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Designs a windowed-sinc FIR filter and prints its response.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  firinfo -type lowpass -cutoff 0.1 -taps 63\n")
		fmt.Fprintf(os.Stderr, "  firinfo -type bandstop -cutoff 0.2,0.4 -window kaiser -alpha 3\n")
		fmt.Fprintf(os.Stderr, "  firinfo -type highpass -cutoff 2000 -rate 48000 -coeffs\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	opts, err := buildOptions(*typeName, *cutoff, *winName, *alpha, *rate, !*noNorm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	opts.taps = *taps
	opts.points = *points
	opts.rows = *rows
	opts.coeffs = *coeffs
	opts.periodic = *periodic

	opts.backend, err = transform.ByName(*backendName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList() {
	fmt.Println("windows:")
	for _, t := range window.Types() {
		if t.HasParam() {
			fmt.Printf("  %s (default %g)\n", t, t.DefaultParam())
			continue
		}
		fmt.Printf("  %s\n", t)
	}
	fmt.Println("backends:")
	for _, n := range transform.Names() {
		fmt.Printf("  %s\n", n)
	}
}

// buildOptions resolves the filter and window flags. Cutoffs given in Hz
// are converted with the sample rate.
func buildOptions(typeName, cutoff, winName string, alpha, rate float64, normalize bool) (options, error) {
	typ, err := design.ParseType(typeName)
	if err != nil {
		return options{}, err
	}

	cutoffs, err := parseCutoffs(cutoff)
	if err != nil {
		return options{}, err
	}
	if rate > 0 {
		cfg := core.ApplyProcessorOptions(core.WithSampleRate(rate))
		for i, hz := range cutoffs {
			cutoffs[i] = cfg.Normalized(hz)
		}
	}

	spec := design.Spec{Type: typ, Cutoffs: cutoffs, Normalize: normalize}
	if err := spec.Validate(); err != nil {
		return options{}, err
	}

	wt, err := window.ParseType(winName)
	if err != nil {
		return options{}, err
	}
	ws := window.Spec{Type: wt}
	if wt.HasParam() && !math.IsNaN(alpha) {
		ws.Param = alpha
		ws.HasParam = true
	}

	return options{spec: spec, window: ws, rate: rate}, nil
}

// parseCutoffs parses a comma-separated list of frequencies.
func parseCutoffs(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cutoff %q: %w", f, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no cutoff given")
	}
	return out, nil
}

func run(opts options) error {
	var src design.WindowSource = opts.window
	if opts.periodic {
		src = design.WindowFunc(func(n int) ([]float64, error) {
			return periodicWindow(opts.window, n)
		})
	}

	taps, err := design.DesignFrom(opts.spec, src, opts.taps)
	if err != nil {
		return err
	}

	resp, err := design.ComputeResponse(taps, opts.points, opts.backend)
	if err != nil {
		return err
	}

	fmt.Printf("Filter:  %s, %d taps, window %s\n", opts.spec, len(taps), opts.window)
	fmt.Printf("Delay:   %.1f samples\n", float64(len(taps)-1)/2)
	fmt.Printf("Gain:    %.6f at %s\n", taps.Magnitude(opts.spec.ReferenceFrequency()), formatFreq(opts.spec.ReferenceFrequency(), opts.rate))
	fmt.Printf("Grid:    %d points (%s)\n\n", len(resp.Freqs), opts.backend.Name())

	if opts.coeffs {
		if err := printTaps(taps); err != nil {
			return err
		}
		fmt.Println()
	}
	return printResponse(resp, opts.rows, opts.rate)
}

func periodicWindow(s window.Spec, n int) ([]float64, error) {
	wopts := []window.Option{window.WithPeriodic()}
	if s.HasParam {
		wopts = append(wopts, window.WithAlpha(s.Param))
	}
	if n <= 0 {
		return nil, fmt.Errorf("window length must be positive, got %d", n)
	}
	return window.Generate(s.Type, n, wopts...), nil
}

func formatFreq(f, rate float64) string {
	if rate > 0 {
		return fmt.Sprintf("%.1f Hz", f*rate)
	}
	return fmt.Sprintf("%.4f", f)
}

func printTaps(taps design.Taps) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tw, "Tap\tValue\t\n"); err != nil {
		return err
	}
	for i, v := range taps {
		if _, err := fmt.Fprintf(tw, "%d\t%+.12f\t\n", i, v); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printResponse(resp design.FrequencyResponse, rows int, rate float64) error {
	unit := "Freq [cyc/sample]"
	if rate > 0 {
		unit = "Freq [Hz]"
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "%s\tMagnitude\tMagnitude [dB]\n", unit); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "%s\t---------\t--------------\n", strings.Repeat("-", len(unit))); err != nil {
		return err
	}

	db := resp.MagnitudeDB()
	for _, i := range rowIndices(len(resp.Freqs), rows) {
		if _, err := fmt.Fprintf(tw, "%s\t%.6f\t%.2f\n", formatFreq(resp.Freqs[i], rate), resp.Magnitude[i], db[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// rowIndices picks rows evenly spaced grid indices including both ends.
func rowIndices(n, rows int) []int {
	if n == 0 {
		return nil
	}
	if rows < 2 || rows >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, rows)
	for i := range out {
		out[i] = int(math.Round(float64(i) * float64(n-1) / float64(rows-1)))
	}
	return out
}
