package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-fir/dsp/filter/design"
	"github.com/cwbudde/algo-fir/dsp/window"
)

func ExampleDesign() {
	w, _ := window.Hann(15)

	taps, err := design.Design(design.LowpassSpec(0.15), w)
	if err != nil {
		panic(err)
	}

	var sum float64
	for _, v := range taps {
		sum += v
	}
	fmt.Printf("taps=%d center=%.4f sum=%.6f\n", len(taps), taps[7], sum)
	// Output:
	// taps=15 center=0.2965 sum=1.000000
}

func ExampleDesignFrom() {
	kaiser := window.Spec{Type: window.TypeKaiser, Param: 3, HasParam: true}

	taps, err := design.DesignFrom(design.BandstopSpec(0.2, 0.4), kaiser, 127)
	if err != nil {
		panic(err)
	}

	fmt.Printf("DC: %.3f\n", taps.Magnitude(0))
	fmt.Printf("band center below -40 dB: %v\n", taps.MagnitudeDB(0.3) < -40)
	// Output:
	// DC: 1.000
	// band center below -40 dB: true
}
