package xs

import (
	"fmt"
)

// Library holds the data of up to MaxZ elements, indexed by atomic number.
// A Library is read-only once loaded.
type Library struct {
	elements [MaxZ]*Element
}

// NewLibrary returns a library containing the given elements.
func NewLibrary(els ...*Element) *Library {
	lib := &Library{}
	for _, el := range els {
		lib.Set(el)
	}
	return lib
}

// Set stores an element in its slot, replacing any previous entry.
func (lib *Library) Set(el *Element) {
	lib.elements[el.Z-1] = el
}

// Element returns the element with atomic number z.
func (lib *Library) Element(z int) (*Element, error) {
	if z < 1 || z > MaxZ {
		return nil, fmt.Errorf("atomic number %d is not in [1, %d]", z, MaxZ)
	} else if lib.elements[z-1] == nil {
		return nil, fmt.Errorf("element %d: %w", z, ErrMissingTable)
	}
	return lib.elements[z-1], nil
}

// Has returns true if the library holds data for atomic number z.
func (lib *Library) Has(z int) bool {
	return z >= 1 && z <= MaxZ && lib.elements[z-1] != nil
}

// AtomicNumbers returns the atomic numbers of all loaded elements in
// increasing order.
func (lib *Library) AtomicNumbers() []int {
	zs := []int{}
	for i, el := range lib.elements {
		if el != nil {
			zs = append(zs, i+1)
		}
	}
	return zs
}
