/*package material describes the mixtures of elements which fill the objects
of a simulation.
*/
package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/projector/xs"
)

var (
	ErrEmptyMaterial    = errors.New("material has no elements")
	ErrUnknownElement   = errors.New("unknown element")
	ErrNoElementSampled = errors.New("could not sample an element")
)

// Material is a mixture of elements at a given density. Exactly one of
// AtomicPercentage and WeightPercentage needs to be supplied; the other
// fields are filled in by CalculateMissingValues.
type Material struct {
	// Elements are atomic numbers.
	Elements         []int
	AtomicPercentage []float64
	WeightPercentage []float64
	// Density is in g/cm^3.
	Density float64

	// MolarMass is the mass of one formula unit in g/mol.
	MolarMass float64
	// TotalAtomicDensity and AtomDensity are in atoms/cm^3.
	TotalAtomicDensity float64
	AtomDensity        []float64
}

// New creates a material from elements and one set of percentages. Pass nil
// for the set which is not known.
func New(density float64, elements []int, atomic, weight []float64) *Material {
	return &Material{
		Elements:         elements,
		AtomicPercentage: atomic,
		WeightPercentage: weight,
		Density:          density,
	}
}

// CalculateMissingValues normalizes the given percentages, derives the other
// set from the elements' atomic weights and computes the atom densities.
func (mat *Material) CalculateMissingValues(lib *xs.Library) error {
	n := len(mat.Elements)
	if n == 0 {
		return ErrEmptyMaterial
	} else if !(mat.Density > 0) {
		return fmt.Errorf("material density is %g g/cm^3", mat.Density)
	}

	weights := make([]float64, n)
	for i, z := range mat.Elements {
		el, err := lib.Element(z)
		if err != nil {
			return err
		}
		weights[i] = el.AtomicWeight
	}

	switch {
	case len(mat.AtomicPercentage) == n:
		if err := normalize(mat.AtomicPercentage); err != nil {
			return err
		}
		mat.WeightPercentage = make([]float64, n)
		for i := range weights {
			mat.WeightPercentage[i] = mat.AtomicPercentage[i] * weights[i]
		}
		normalize(mat.WeightPercentage)
	case len(mat.WeightPercentage) == n:
		if err := normalize(mat.WeightPercentage); err != nil {
			return err
		}
		mat.AtomicPercentage = make([]float64, n)
		for i := range weights {
			mat.AtomicPercentage[i] = mat.WeightPercentage[i] / weights[i]
		}
		normalize(mat.AtomicPercentage)
	default:
		return fmt.Errorf(
			"material has %d elements, %d atomic percentages and %d weight percentages",
			n, len(mat.AtomicPercentage), len(mat.WeightPercentage),
		)
	}

	// Formula units are counted relative to the rarest element.
	minPercent := math.Inf(1)
	for _, p := range mat.AtomicPercentage {
		if p > 0 {
			minPercent = math.Min(minPercent, p)
		}
	}

	atoms := 0.0
	mat.MolarMass = 0
	for i := range weights {
		count := mat.AtomicPercentage[i] / minPercent
		atoms += count
		mat.MolarMass += count * weights[i]
	}

	mat.TotalAtomicDensity = atoms * mat.Density * xs.Avogadro / mat.MolarMass
	mat.AtomDensity = make([]float64, n)
	for i := range mat.AtomDensity {
		mat.AtomDensity[i] = mat.TotalAtomicDensity * mat.AtomicPercentage[i]
	}
	return nil
}

func normalize(ps []float64) error {
	sum := 0.0
	for _, x := range ps {
		if x < 0 {
			return fmt.Errorf("negative percentage %g", x)
		}
		sum += x
	}
	if !(sum > 0) {
		return fmt.Errorf("percentages sum to %g", sum)
	}
	for i := range ps {
		ps[i] /= sum
	}
	return nil
}

// MacroXS returns the macroscopic cross sections of the material at energy
// e in barns per cm^3. Multiply by xs.Barn to get inverse cm.
func (mat *Material) MacroXS(lib *xs.Library, e float64) (xs.Bundle, error) {
	out := xs.Bundle{}
	for i, z := range mat.Elements {
		el, err := lib.Element(z)
		if err != nil {
			return out, err
		}
		out = out.Add(el.AllCrossSections(e), mat.AtomDensity[i])
	}
	return out, nil
}

// SampleElement picks the element struck in an interaction at energy e,
// weighting each element by its partial macroscopic cross section.
func (mat *Material) SampleElement(lib *xs.Library, e float64, rng xs.Rand) (*xs.Element, error) {
	els := make([]*xs.Element, len(mat.Elements))
	cum := make([]float64, len(mat.Elements))
	total := 0.0
	for i, z := range mat.Elements {
		el, err := lib.Element(z)
		if err != nil {
			return nil, err
		}
		els[i] = el
		total += mat.AtomDensity[i] * el.AllCrossSections(e).Total
		cum[i] = total
	}

	sample := rng.Float64() * total
	for i := range cum {
		if sample < cum[i] {
			return els[i], nil
		}
	}
	return nil, fmt.Errorf("energy %g eV: %w", e, ErrNoElementSampled)
}
