/*package particle tracks the state and history of individual photons.
*/
package particle

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/phil-mansfield/projector/geom"
	"github.com/phil-mansfield/projector/rand"
	"github.com/phil-mansfield/projector/xs"
)

// Type is the species of a particle.
type Type int

const (
	Photon Type = iota
)

// State is a single step of a particle's history. Element is the atomic
// number of the last element the particle interacted with, or 0.
type State struct {
	Position    r3.Vector
	Energy      float64
	Interaction xs.Kind
	Element     int
}

// History is the append-only record of a particle's path. The four slices
// always have the same length.
type History struct {
	Points       []r3.Vector
	Energies     []float64
	Interactions []xs.Kind
	Elements     []int
}

// Len returns the number of recorded steps.
func (h *History) Len() int { return len(h.Points) }

// At returns the i-th recorded step.
func (h *History) At(i int) State {
	return State{h.Points[i], h.Energies[i], h.Interactions[i], h.Elements[i]}
}

func (h *History) push(s State) {
	h.Points = append(h.Points, s.Position)
	h.Energies = append(h.Energies, s.Energy)
	h.Interactions = append(h.Interactions, s.Interaction)
	h.Elements = append(h.Elements, s.Element)
}

// Particle is a single photon. Current always equals the last entry of
// History. A Particle is owned by one goroutine while it is transported.
type Particle struct {
	Type      Type
	Direction r3.Vector
	Rand      *rand.Generator
	History   History
	Current   State

	// Err records why transport of the particle stopped early, if it did.
	Err error
}

// New creates a photon at pos moving along dir with its own random stream.
func New(pos, dir r3.Vector, energy float64, seed uint64) *Particle {
	p := &Particle{
		Type:      Photon,
		Direction: dir,
		Rand:      rand.NewGenerator(seed),
	}
	p.Push(State{Position: pos, Energy: energy})
	return p
}

// Push appends a step to the history and makes it the current state.
func (p *Particle) Push(s State) {
	p.History.push(s)
	p.Current = s
}

// Position returns the current position.
func (p *Particle) Position() r3.Vector { return p.Current.Position }

// Energy returns the current energy in eV.
func (p *Particle) Energy() float64 { return p.Current.Energy }

// Advance moves the particle a distance d along its direction without
// interacting.
func (p *Particle) Advance(d float64) {
	p.Push(State{
		Position:    p.Current.Position.Add(p.Direction.Mul(d)),
		Energy:      p.Current.Energy,
		Interaction: xs.NoInteraction,
		Element:     p.Current.Element,
	})
}

// Collide moves the particle a distance d and makes it interact with an
// atom of el there. The channel is chosen in proportion to the element's
// partial cross sections: coherent scattering changes only the direction,
// incoherent scattering changes direction and lowers the energy, and
// photoelectric absorption and pair production end the photon by setting
// its energy to zero.
func (p *Particle) Collide(d float64, el *xs.Element) error {
	pos := p.Current.Position.Add(p.Direction.Mul(d))
	e := p.Current.Energy
	b := el.AllCrossSections(e)

	kind := xs.NoInteraction
	sample, cum := p.Rand.Float64()*b.Total, 0.0
	for k := xs.Coherent; k <= xs.PairProduction; k++ {
		cum += b.Get(k)
		if sample < cum {
			kind = k
			break
		}
	}

	switch kind {
	case xs.Coherent:
		mu, err := el.Rayleigh(e, p.Rand)
		if err != nil {
			return err
		}
		p.scatter(mu)
	case xs.Incoherent:
		eOut, mu, err := el.Compton(e, p.Rand)
		if err != nil {
			return err
		}
		e = eOut
		p.scatter(mu)
	case xs.Photoelectric, xs.PairProduction:
		e = 0
	default:
		return fmt.Errorf(
			"element %d has no open channel at %g eV", el.Z, e,
		)
	}

	p.Push(State{Position: pos, Energy: e, Interaction: kind, Element: el.Z})
	return nil
}

func (p *Particle) scatter(mu float64) {
	phi := 2 * math.Pi * p.Rand.Float64()
	p.Direction = geom.RotateDirection(p.Direction, mu, phi)
}
