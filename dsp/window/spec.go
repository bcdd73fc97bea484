package window

import "strconv"

// Spec describes a window family with an optional shape parameter. The
// length is supplied when the window is generated.
type Spec struct {
	Type Type

	// Param is the Kaiser beta or Tukey alpha. It is only used when
	// HasParam is set; otherwise the family default applies.
	Param    float64
	HasParam bool
}

// Window generates the window with exactly length samples.
func (s Spec) Window(length int) ([]float64, error) {
	switch {
	case s.Type == TypeKaiser && s.HasParam:
		return Kaiser(length, s.Param)
	case s.Type == TypeTukey && s.HasParam:
		return Tukey(length, s.Param)
	}

	if err := validateLength(length); err != nil {
		return nil, err
	}
	if _, ok := typeNames[s.Type]; !ok {
		return nil, ErrUnknownType
	}
	return Generate(s.Type, length), nil
}

// String formats the spec as "kaiser(3)" or "hann".
func (s Spec) String() string {
	if !s.HasParam || !s.Type.HasParam() {
		return s.Type.String()
	}
	return s.Type.String() + "(" + strconv.FormatFloat(s.Param, 'g', -1, 64) + ")"
}
