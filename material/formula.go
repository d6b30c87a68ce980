package material

import (
	"fmt"
	"strconv"
	"unicode"
)

var symbols = [...]string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
}

var atomicNumbers = map[string]int{}

func init() {
	for i, s := range symbols {
		atomicNumbers[s] = i + 1
	}
}

// AtomicNumber returns the atomic number of an element symbol like "Pb".
func AtomicNumber(symbol string) (int, error) {
	z, ok := atomicNumbers[symbol]
	if !ok {
		return 0, fmt.Errorf("'%s': %w", symbol, ErrUnknownElement)
	}
	return z, nil
}

// Symbol returns the symbol of the element with atomic number z.
func Symbol(z int) string {
	if z < 1 || z > len(symbols) {
		return "?"
	}
	return symbols[z-1]
}

// Component is one term of a chemical formula.
type Component struct {
	Z     int
	Count int
}

// ParseFormula splits a chemical formula like "H2O" or "CaCO3" into its
// elements and counts. Repeated elements are merged in order of first
// appearance.
func ParseFormula(formula string) ([]Component, error) {
	rs := []rune(formula)
	out := []Component{}
	index := map[int]int{}

	for i := 0; i < len(rs); {
		if !unicode.IsUpper(rs[i]) {
			return nil, fmt.Errorf(
				"unexpected '%c' at position %d of formula '%s'", rs[i], i, formula,
			)
		}
		start := i
		i++
		if i < len(rs) && unicode.IsLower(rs[i]) {
			i++
		}
		z, err := AtomicNumber(string(rs[start:i]))
		if err != nil {
			return nil, err
		}

		count := 1
		digits := i
		for i < len(rs) && unicode.IsDigit(rs[i]) {
			i++
		}
		if i > digits {
			count, err = strconv.Atoi(string(rs[digits:i]))
			if err != nil {
				return nil, err
			} else if count == 0 {
				return nil, fmt.Errorf("zero count in formula '%s'", formula)
			}
		}

		if j, ok := index[z]; ok {
			out[j].Count += count
		} else {
			index[z] = len(out)
			out = append(out, Component{z, count})
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("formula '%s': %w", formula, ErrEmptyMaterial)
	}
	return out, nil
}

// FromFormula creates a material whose atomic percentages follow a
// chemical formula.
func FromFormula(density float64, formula string) (*Material, error) {
	comps, err := ParseFormula(formula)
	if err != nil {
		return nil, err
	}

	elements := make([]int, len(comps))
	atomic := make([]float64, len(comps))
	for i, c := range comps {
		elements[i], atomic[i] = c.Z, float64(c.Count)
	}
	return New(density, elements, atomic, nil), nil
}
