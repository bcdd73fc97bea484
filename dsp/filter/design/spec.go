package design

import (
	"fmt"
	"math"
	"strings"
)

// Type selects the ideal frequency response.
type Type int

const (
	TypeLowpass Type = iota
	TypeHighpass
	TypeBandpass
	TypeBandstop
)

var typeNames = [...]string{
	TypeLowpass:  "lowpass",
	TypeHighpass: "highpass",
	TypeBandpass: "bandpass",
	TypeBandstop: "bandstop",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Cutoffs returns how many cutoff frequencies the type requires, or 0 for
// an unknown type.
func (t Type) Cutoffs() int {
	switch t {
	case TypeLowpass, TypeHighpass:
		return 1
	case TypeBandpass, TypeBandstop:
		return 2
	default:
		return 0
	}
}

// ParseType resolves "lowpass", "highpass", "bandpass" or "bandstop".
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == key {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown type %q", ErrInvalidSpec, name)
}

// Spec describes the target response of a filter.
type Spec struct {
	Type Type

	// Cutoffs holds one frequency for lowpass/highpass and the (low, high)
	// pair for band types, in cycles per sample.
	Cutoffs []float64

	// Normalize scales the taps to unity gain at ReferenceFrequency.
	Normalize bool
}

// LowpassSpec returns a normalized lowpass spec.
func LowpassSpec(cutoff float64) Spec {
	return Spec{Type: TypeLowpass, Cutoffs: []float64{cutoff}, Normalize: true}
}

// HighpassSpec returns a normalized highpass spec.
func HighpassSpec(cutoff float64) Spec {
	return Spec{Type: TypeHighpass, Cutoffs: []float64{cutoff}, Normalize: true}
}

// BandpassSpec returns a normalized bandpass spec.
func BandpassSpec(low, high float64) Spec {
	return Spec{Type: TypeBandpass, Cutoffs: []float64{low, high}, Normalize: true}
}

// BandstopSpec returns a normalized bandstop spec.
func BandstopSpec(low, high float64) Spec {
	return Spec{Type: TypeBandstop, Cutoffs: []float64{low, high}, Normalize: true}
}

// Validate checks cutoff count, range and ordering.
func (s Spec) Validate() error {
	want := s.Type.Cutoffs()
	if want == 0 {
		return fmt.Errorf("%w: unknown type %d", ErrInvalidSpec, int(s.Type))
	}
	if len(s.Cutoffs) != want {
		return fmt.Errorf("%w: %s needs %d cutoff(s), got %d", ErrInvalidSpec, s.Type, want, len(s.Cutoffs))
	}
	for _, fc := range s.Cutoffs {
		if math.IsNaN(fc) || fc <= 0 || fc >= 0.5 {
			return fmt.Errorf("%w: cutoff %v outside (0, 0.5)", ErrInvalidSpec, fc)
		}
	}
	if want == 2 && s.Cutoffs[0] >= s.Cutoffs[1] {
		return fmt.Errorf("%w: low cutoff %v must be below high cutoff %v", ErrInvalidSpec, s.Cutoffs[0], s.Cutoffs[1])
	}
	return nil
}

// ReferenceFrequency returns the frequency, in cycles per sample, at which a
// normalized filter has unity gain: DC for lowpass and bandstop, Nyquist for
// highpass, and the band center for bandpass. The spec must be valid.
func (s Spec) ReferenceFrequency() float64 {
	switch s.Type {
	case TypeHighpass:
		return 0.5
	case TypeBandpass:
		return (s.Cutoffs[0] + s.Cutoffs[1]) / 2
	default:
		return 0
	}
}

func (s Spec) String() string {
	parts := make([]string, len(s.Cutoffs))
	for i, fc := range s.Cutoffs {
		parts[i] = fmt.Sprintf("%g", fc)
	}
	return fmt.Sprintf("%s(%s)", s.Type, strings.Join(parts, ", "))
}
