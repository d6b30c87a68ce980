// Package xstest builds small synthetic elements for tests.
package xstest

import (
	"github.com/phil-mansfield/projector/xs"
)

// Element returns an element with energy-independent cross sections (in
// barns) and smooth form factors. It panics if the tables are invalid.
func Element(z int, weight, coherent, incoherent, photo, pair float64) *xs.Element {
	energy := []float64{1e3, 1e5, 1e7}
	fz := float64(z)
	t := xs.Tables{
		Energy: energy,
		CrossSections: [4][]float64{
			flat(coherent, len(energy)), flat(incoherent, len(energy)),
			flat(photo, len(energy)), flat(pair, len(energy)),
		},
		IncoherentX:    []float64{0, 0.5, 2, 10, 1e4},
		IncoherentFF:   []float64{0, 0.3 * fz, 0.8 * fz, fz, fz},
		CoherentX:      []float64{0, 0.5, 2, 10, 1e4},
		CumulativeFF:   []float64{0, 1, 1.5, 1.8, 2},
		DifferentialFF: []float64{fz * fz, 0.5 * fz * fz, 0.1 * fz * fz, 0.01, 0},
	}

	el, err := xs.NewElement(z, weight, t)
	if err != nil {
		panic(err.Error())
	}
	return el
}

// Library returns a library with a hydrogen-like, an oxygen-like and a
// lead-like element. Hydrogen only scatters, oxygen scatters and absorbs,
// lead mostly absorbs.
func Library() *xs.Library {
	return xs.NewLibrary(
		Element(1, 1.008, 0.5, 5, 0, 0),
		Element(8, 15.999, 1, 4, 2, 0),
		Element(82, 207.2, 10, 10, 60, 20),
	)
}

func flat(x float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = x
	}
	return out
}
