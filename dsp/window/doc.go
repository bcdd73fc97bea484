// Package window generates the prototype window sequences used by FIR
// filter design.
//
// [Generate] returns the symmetric (or, with [WithPeriodic], periodic) form
// of a window. [Spec] bundles a window family with its optional shape
// parameter and satisfies design.WindowSource, so a filter can be designed
// directly from a window description:
//
//	taps, err := design.DesignFrom(design.LowpassSpec(0.2), window.Spec{Type: window.TypeKaiser, Param: 3, HasParam: true}, 127)
package window
