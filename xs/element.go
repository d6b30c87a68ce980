/*package xs holds the photon interaction data of the elements and the
sampling routines for the scattering channels.

Cross sections are in barns and energies in eV. Form factors are tabulated
against the momentum transfer variable x in inverse Angstroms.
*/
package xs

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/projector/math/interpolate"
)

const (
	// ElectronMass is the electron rest energy in eV.
	ElectronMass = 0.51099895000e6
	// PlanckC is Planck's constant times c in eV Angstroms.
	PlanckC = 1.2398419839593942e4
	// Avogadro is Avogadro's number.
	Avogadro = 6.02214076e23
	// Barn is one barn in cm^2.
	Barn = 1e-24

	// MaxZ is the number of element slots in a Library.
	MaxZ = 100
)

var (
	ErrMissingTable      = errors.New("element has no interaction data")
	ErrInvalidFormFactor = errors.New("invalid form factor table")
)

// Kind is the kind of an interaction. The four physical kinds double as
// indices into an element's cross-section tables.
type Kind int

const (
	NoInteraction Kind = iota
	Coherent
	Incoherent
	Photoelectric
	PairProduction
)

// KindCount is the number of Kinds, including NoInteraction.
const KindCount = 5

var kindNames = [KindCount]string{
	"no_interaction", "coherent", "incoherent", "photoelectric", "pair_production",
}

func (k Kind) String() string {
	if k < NoInteraction || k > PairProduction {
		return "invalid"
	}
	return kindNames[k]
}

// FormFactor identifies one of an element's form factor tables.
type FormFactor int

const (
	IncoherentFF FormFactor = iota
	CumulativeCoherentFF
	DifferentialCoherentFF
)

// Tables are the raw tabulated data of an element.
type Tables struct {
	// Energy is the increasing energy grid of CrossSections.
	Energy []float64
	// CrossSections are the coherent, incoherent, photoelectric and pair
	// production cross sections, in that order.
	CrossSections [4][]float64

	IncoherentX, IncoherentFF []float64
	CoherentX, CumulativeFF   []float64
	DifferentialFF            []float64
}

// Element is the interaction data of a single element. Elements are
// read-only once constructed and safe to share between goroutines.
type Element struct {
	Z            int
	AtomicWeight float64
	Tables

	xs                 [4]*interpolate.Linear
	iff, cff, dff, inv *interpolate.Linear
}

// Bundle holds the cross sections of every channel at a single energy.
type Bundle struct {
	Coherent, Incoherent, Photoelectric, PairProduction float64
	Total                                               float64
}

// Get returns the cross section of the given kind.
func (b Bundle) Get(k Kind) float64 {
	switch k {
	case Coherent:
		return b.Coherent
	case Incoherent:
		return b.Incoherent
	case Photoelectric:
		return b.Photoelectric
	case PairProduction:
		return b.PairProduction
	}
	return 0
}

// Add returns b + scale*o, componentwise.
func (b Bundle) Add(o Bundle, scale float64) Bundle {
	return Bundle{
		Coherent:       b.Coherent + scale*o.Coherent,
		Incoherent:     b.Incoherent + scale*o.Incoherent,
		Photoelectric:  b.Photoelectric + scale*o.Photoelectric,
		PairProduction: b.PairProduction + scale*o.PairProduction,
		Total:          b.Total + scale*o.Total,
	}
}

// NewElement checks the tables of an element and builds its interpolators.
func NewElement(z int, weight float64, t Tables) (*Element, error) {
	if z < 1 || z > MaxZ {
		return nil, fmt.Errorf("atomic number %d is not in [1, %d]", z, MaxZ)
	} else if weight <= 0 {
		return nil, fmt.Errorf("element %d has atomic weight %g", z, weight)
	}

	n := len(t.Energy)
	if n < 2 {
		return nil, fmt.Errorf("element %d: %w", z, ErrMissingTable)
	}
	for i := 1; i < n; i++ {
		if t.Energy[i] < t.Energy[i-1] {
			return nil, fmt.Errorf("element %d has a decreasing energy grid", z)
		}
	}

	el := &Element{Z: z, AtomicWeight: weight, Tables: t}
	for i := range t.CrossSections {
		if len(t.CrossSections[i]) != n {
			return nil, fmt.Errorf(
				"element %d: %s table has %d entries, but the energy grid has %d",
				z, Kind(i+1), len(t.CrossSections[i]), n,
			)
		}
		el.xs[i] = interpolate.NewLinear(t.Energy, t.CrossSections[i])
	}

	if len(t.IncoherentX) < 2 || len(t.IncoherentX) != len(t.IncoherentFF) {
		return nil, fmt.Errorf("element %d: incoherent table: %w", z, ErrInvalidFormFactor)
	}
	nc := len(t.CoherentX)
	if nc < 2 || len(t.CumulativeFF) != nc || len(t.DifferentialFF) != nc {
		return nil, fmt.Errorf("element %d: coherent tables: %w", z, ErrInvalidFormFactor)
	}
	for i := 1; i < nc; i++ {
		if t.CumulativeFF[i] < t.CumulativeFF[i-1] {
			return nil, fmt.Errorf(
				"element %d: cumulative coherent form factor decreases: %w",
				z, ErrInvalidFormFactor,
			)
		}
	}

	el.iff = interpolate.NewLinear(t.IncoherentX, t.IncoherentFF)
	el.cff = interpolate.NewLinear(t.CoherentX, t.CumulativeFF)
	el.dff = interpolate.NewLinear(t.CoherentX, t.DifferentialFF)
	el.inv = interpolate.NewLinear(t.CumulativeFF, t.CoherentX)

	return el, nil
}

// CrossSection returns the cross section of one channel at energy e. The
// tables are clamped outside their energy range.
func (el *Element) CrossSection(e float64, k Kind) float64 {
	if k < Coherent || k > PairProduction {
		return 0
	}
	return el.xs[k-1].Eval(e)
}

// AllCrossSections returns every channel's cross section at energy e.
func (el *Element) AllCrossSections(e float64) Bundle {
	b := Bundle{
		Coherent:       el.xs[0].Eval(e),
		Incoherent:     el.xs[1].Eval(e),
		Photoelectric:  el.xs[2].Eval(e),
		PairProduction: el.xs[3].Eval(e),
	}
	b.Total = b.Coherent + b.Incoherent + b.Photoelectric + b.PairProduction
	return b
}

// FormFactor evaluates one of the form factor tables at x.
func (el *Element) FormFactor(x float64, ff FormFactor) float64 {
	switch ff {
	case IncoherentFF:
		return el.iff.Eval(x)
	case CumulativeCoherentFF:
		return el.cff.Eval(x)
	case DifferentialCoherentFF:
		return el.dff.Eval(x)
	}
	panic(fmt.Sprintf("Unknown form factor %d.", ff))
}
