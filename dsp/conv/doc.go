// Package conv provides a streaming FIR runtime based on overlap-add block
// convolution.
//
// The taps are zero-padded to a transform size B and transformed once into
// a [Kernel]. Input is consumed in chunks of L = B - len(taps) + 1 samples;
// each chunk is transformed, multiplied with the kernel spectrum and
// transformed back, and the last len(taps)-1 samples of every block are
// added to the head of the next one. The result equals direct convolution
// up to rounding, at O(log B) cost per sample instead of O(len(taps)).
//
// # Output length
//
// By default [ConvolverT.Apply] returns only fully resolved samples, so a
// call may return fewer samples than it was given; the rest stay pending
// until enough input arrives or [ConvolverT.Flush] is called. Flushing
// does not break continuity. With [WithZeroLatency] every call returns
// exactly len(input) samples.
//
// # Sharing
//
// A Kernel is read-only after construction and may back any number of
// convolvers on any goroutines. Each convolver owns its transform engine
// and scratch buffers and must not be used concurrently.
//
// # Usage
//
//	k, err := conv.NewKernel(taps, conv.WithBackend(transform.Gonum{}))
//	c, err := k.NewConvolver()
//	y, err := c.Apply(block)
//	rest, err := c.Flush()
//
// For a whole signal in one call:
//
//	y, err := conv.Filter(signal, taps)
package conv
