package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	require.Len(t, got, len(want), "length mismatch")
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			require.Failf(t, "values differ",
				"index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireRelativeClose fails t if the largest element difference exceeds
// rel times the peak magnitude of want.
func RequireRelativeClose(t *testing.T, got, want []float64, rel float64) {
	t.Helper()
	d, err := MaxAbsDiff(got, want)
	require.NoError(t, err)

	scale := floats.Norm(want, math.Inf(1))
	if scale == 0 {
		scale = 1
	}
	require.LessOrEqualf(t, d/scale, rel,
		"max abs diff %g over peak %g exceeds relative tolerance %g", d, scale, rel)
}

// AssertFinite reports an error for any NaN or Inf element.
func AssertFinite(t *testing.T, data []float64) bool {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Failf(t, "non-finite value", "index %d: %v", i, v)
		}
	}
	return true
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}
