// Package design computes windowed-sinc FIR coefficients.
//
// A [Spec] names the response type (lowpass, highpass, bandpass, bandstop)
// and its cutoff frequencies in cycles per sample, so 0.5 is the Nyquist
// frequency. [Design] multiplies the ideal impulse response of the spec by
// a window sequence and optionally normalizes the result to unity gain at
// the passband reference frequency:
//
//	w, _ := window.Hann(15)
//	taps, err := design.Design(design.LowpassSpec(0.15), w)
//
// [DesignFrom] runs the same pipeline from a [WindowSource]. Design is pure:
// identical inputs give bit-identical taps, and it is safe to call from
// multiple goroutines.
//
// The resulting [Taps] are consumed by the direct-form runtime in
// dsp/filter/fir or the overlap-add runtime in dsp/conv.
package design
