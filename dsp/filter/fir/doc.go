// Package fir provides a direct-form streaming FIR filter runtime.
//
// A [Filter] applies a fixed tap sequence to an input stream. Each output
// sample is the dot product of the taps with the most recent len(taps)
// inputs; the last len(taps)-1 inputs are retained between calls, so a
// stream can be processed in blocks of any size with the same result as
// one call on the whole stream. Cost is O(len(taps)) per sample, which
// suits short and medium filters. For long filters use the overlap-add
// runtime in dsp/conv, which produces the same output.
//
// [FilterT] is generic over the sample type; taps are always supplied in
// float64 and converted once at construction.
//
// Coefficient design lives in dsp/filter/design.
package fir
