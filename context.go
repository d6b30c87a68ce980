/*Package projector simulates the transport of photons through objects made
of constructive solid geometry and filled with elemental mixtures.

A SimulationContext holds everything one run needs: its settings, the
interaction data, the objects, the tallies and the master random stream. A
run is Initialize, CalculateHistories, ProcessTallies and SaveData, in that
order, and is fully determined by the seed and the worker-independent
per-particle random streams.
*/
package projector

import (
	"fmt"
	"runtime"

	"github.com/golang/geo/r3"

	"github.com/phil-mansfield/projector/geom"
	"github.com/phil-mansfield/projector/material"
	"github.com/phil-mansfield/projector/particle"
	"github.com/phil-mansfield/projector/rand"
	"github.com/phil-mansfield/projector/tally"
	"github.com/phil-mansfield/projector/xs"
)

// Epsilon is the distance in cm a particle is pushed past any boundary it
// stops at, so that it ends up on the far side.
const Epsilon = 1e-8

// Settings are the run-wide parameters of a simulation.
type Settings struct {
	Name, Description string
	Seed              uint64
	// EnergyCutoff is the energy in eV at or below which photons are no
	// longer followed.
	EnergyCutoff float64
	// StackSize is the maximum number of history entries per particle.
	StackSize int
	Domain    geom.BoundingBox

	OutputDir         string
	SaveParticlePaths bool
}

// Source emits photons uniformly from the volume of its object.
type Source struct {
	PhotonCount int
	// PhotonEnergy is in eV.
	PhotonEnergy float64
	// Direction is the central emission direction. The zero vector means
	// isotropic emission.
	Direction r3.Vector
	// Spread is the half-angle of the emission cone in radians.
	Spread float64
}

func (src *Source) direction(rng geom.Rand) r3.Vector {
	if src.Direction.Norm2() == 0 {
		return geom.IsotropicDirection(rng)
	}
	return geom.ConeDirection(src.Direction, src.Spread, rng)
}

// Object is a region of space filled with a material. Objects later in a
// SimulationContext take priority where they overlap earlier ones.
type Object struct {
	// MaterialName identifies Material in output files.
	Name, MaterialName string
	Material           *material.Material
	Geometry           *geom.Geometry
	// Bounds optionally restricts the object's bounding box.
	Bounds *geom.BoundingBox
	// Source is nil for objects which do not emit.
	Source *Source

	box geom.BoundingBox
}

// BoundingBox returns the box of the object within the domain.
func (obj *Object) BoundingBox() geom.BoundingBox { return obj.box }

// SimulationContext is the environment of a single run together with its
// master random stream.
type SimulationContext struct {
	Settings
	Library   *xs.Library
	Objects   []*Object
	Tallies   []tally.Tally
	Particles []*particle.Particle

	// Workers is the number of goroutines used for transport and tallying.
	Workers int

	master *rand.Master
}

// NewSimulationContext creates an empty context.
func NewSimulationContext(s Settings, lib *xs.Library) (*SimulationContext, error) {
	if s.StackSize < 2 {
		return nil, fmt.Errorf("stack size must be at least 2, but is %d", s.StackSize)
	} else if s.EnergyCutoff < 0 {
		return nil, fmt.Errorf("energy cutoff is negative: %g", s.EnergyCutoff)
	} else if s.Domain.IsEmpty() || !s.Domain.IsFinite() {
		return nil, fmt.Errorf("domain %v is not a finite box", s.Domain)
	}

	return &SimulationContext{
		Settings: s,
		Library:  lib,
		Workers:  runtime.NumCPU(),
		master:   rand.NewMaster(s.Seed),
	}, nil
}

// AddObject appends an object, preparing its material and bounding box.
func (ctx *SimulationContext) AddObject(obj *Object) error {
	if obj.Material == nil || obj.Geometry == nil {
		return fmt.Errorf("object '%s' needs a material and a geometry", obj.Name)
	}

	if len(obj.Material.AtomDensity) != len(obj.Material.Elements) {
		if err := obj.Material.CalculateMissingValues(ctx.Library); err != nil {
			return fmt.Errorf("material of object '%s': %w", obj.Name, err)
		}
	}

	limit := ctx.Domain
	if obj.Bounds != nil {
		limit = limit.Intersect(*obj.Bounds)
	}
	obj.Geometry.UpdateBoundingBox(limit.Min, limit.Max)
	obj.box = obj.Geometry.BoundingBox()

	if obj.Source != nil {
		if obj.Source.PhotonCount < 0 || !(obj.Source.PhotonEnergy > 0) {
			return fmt.Errorf(
				"object '%s' has a source of %d photons at %g eV",
				obj.Name, obj.Source.PhotonCount, obj.Source.PhotonEnergy,
			)
		}
	}

	ctx.Objects = append(ctx.Objects, obj)
	return nil
}

// AddTally appends a tally.
func (ctx *SimulationContext) AddTally(t tally.Tally) {
	ctx.Tallies = append(ctx.Tallies, t)
}

// FindObject returns the index of the object containing p, or -1 if p is in
// vacuum. Later objects win where objects overlap.
func (ctx *SimulationContext) FindObject(p r3.Vector) int {
	for i := len(ctx.Objects) - 1; i >= 0; i-- {
		obj := ctx.Objects[i]
		if obj.box.Contains(p) && obj.Geometry.Contains(p) {
			return i
		}
	}
	return -1
}

// Initialize creates the particles of every source. Each source draws one
// stream from the master stream for positions and directions, and each
// particle draws the seed of its own stream.
func (ctx *SimulationContext) Initialize() error {
	ctx.Particles = ctx.Particles[:0]
	for _, obj := range ctx.Objects {
		src := obj.Source
		if src == nil {
			continue
		}

		rng := ctx.master.NewStream()
		for i := 0; i < src.PhotonCount; i++ {
			dir := src.direction(rng)
			seed := ctx.master.NextSeed()
			pos, err := obj.Geometry.SamplePoint(rng)
			if err != nil {
				return fmt.Errorf("source in object '%s': %w", obj.Name, err)
			}
			ctx.Particles = append(
				ctx.Particles, particle.New(pos, dir, src.PhotonEnergy, seed),
			)
		}
	}
	return nil
}
