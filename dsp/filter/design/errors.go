package design

import "errors"

// Errors returned by the designer. All of them are caller errors and are
// reported before any coefficient is produced.
var (
	// ErrInvalidSpec reports a malformed Spec: wrong cutoff count, a cutoff
	// outside (0, 0.5), low >= high for band types, or an unknown type.
	ErrInvalidSpec = errors.New("design: invalid filter spec")

	// ErrLengthMismatch reports a window whose length differs from the
	// requested tap count.
	ErrLengthMismatch = errors.New("design: window length mismatch")

	// ErrEmptyWindow reports a zero-length window or a request for zero taps.
	ErrEmptyWindow = errors.New("design: empty window")

	// ErrEmptyTaps reports a zero-length tap sequence.
	ErrEmptyTaps = errors.New("design: empty tap sequence")

	// ErrInvalidWindow reports a window containing NaN or Inf.
	ErrInvalidWindow = errors.New("design: non-finite window value")

	// ErrNumericDegeneracy reports a normalization divisor that is zero or
	// not finite, e.g. an even-length highpass, which has a zero at Nyquist.
	ErrNumericDegeneracy = errors.New("design: degenerate normalization")
)
