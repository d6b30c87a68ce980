package projector

import (
	"fmt"
	"log"
	"math"
	"os"
	"path"

	"github.com/golang/geo/r3"

	"github.com/phil-mansfield/projector/particle"
	"github.com/phil-mansfield/projector/xs"
)

// Transport follows a particle until its energy drops to the cutoff, it
// leaves the domain or its history fills up.
func (ctx *SimulationContext) Transport(p *particle.Particle) error {
	for p.History.Len() < ctx.StackSize {
		pos, e := p.Position(), p.Energy()
		if e <= ctx.EnergyCutoff || !ctx.Domain.Contains(pos) {
			return nil
		}

		dBound := ctx.Domain.DistanceAlongLine(pos, p.Direction)
		i := ctx.FindObject(pos)
		if i < 0 {
			d := math.Min(ctx.nearestObject(pos, p.Direction), dBound)
			p.Advance(d + Epsilon)
			continue
		}

		obj := ctx.Objects[i]
		macro, err := obj.Material.MacroXS(ctx.Library, e)
		if err != nil {
			return err
		}
		dInt := math.Inf(1)
		if sigma := macro.Total * xs.Barn; sigma > 0 {
			dInt = -math.Log(p.Rand.Float64()) / sigma
		}
		dSurf := ctx.surfaceDistance(i, pos, p.Direction)

		switch {
		case dBound <= dInt && dBound <= dSurf:
			p.Advance(dBound + Epsilon)
		case dInt <= dSurf:
			el, err := obj.Material.SampleElement(ctx.Library, e, p.Rand)
			if err != nil {
				return err
			}
			if err := p.Collide(dInt, el); err != nil {
				return err
			}
		default:
			p.Advance(dSurf + Epsilon)
		}
	}
	return nil
}

// nearestObject returns the distance along (pos, dir) to the nearest
// surface of any object whose bounding box lies on the ray.
func (ctx *SimulationContext) nearestObject(pos, dir r3.Vector) float64 {
	min := math.Inf(1)
	for _, obj := range ctx.Objects {
		if math.IsInf(obj.box.DistanceAlongLine(pos, dir), 1) {
			continue
		}
		min = math.Min(min, obj.Geometry.NearestSurfaceDistance(pos, dir))
	}
	return min
}

// surfaceDistance returns the distance along (pos, dir) to the nearest
// surface of object i or of any object which takes priority over it.
func (ctx *SimulationContext) surfaceDistance(i int, pos, dir r3.Vector) float64 {
	min := ctx.Objects[i].Geometry.NearestSurfaceDistance(pos, dir)
	for _, obj := range ctx.Objects[i+1:] {
		if math.IsInf(obj.box.DistanceAlongLine(pos, dir), 1) {
			continue
		}
		min = math.Min(min, obj.Geometry.NearestSurfaceDistance(pos, dir))
	}
	return min
}

// CalculateHistories transports every particle. Particles are split between
// ctx.Workers goroutines; a particle whose transport fails keeps the history
// it had so far and records the error in its Err field.
func (ctx *SimulationContext) CalculateHistories() {
	workers := ctx.workers()
	out := make(chan int, workers)
	for id := 0; id < workers; id++ {
		go ctx.chanTransport(id, workers, out)
	}
	for i := 0; i < workers; i++ {
		<-out
	}

	failed := 0
	for _, p := range ctx.Particles {
		if p.Err != nil {
			failed++
		}
	}
	log.Printf(
		"Transported %d particles with %d workers, %d failed.",
		len(ctx.Particles), workers, failed,
	)
}

// chanTransport is a worker function which transports every particle whose
// index is congruent to id and then reports its id to the out channel.
func (ctx *SimulationContext) chanTransport(id, workers int, out chan<- int) {
	for i := id; i < len(ctx.Particles); i += workers {
		p := ctx.Particles[i]
		if err := ctx.Transport(p); err != nil {
			p.Err = fmt.Errorf("particle %d: %w", i, err)
			log.Println(p.Err.Error())
		}
	}
	out <- id
}

// ProcessTallies resets every tally, scores every particle and finalizes
// the tallies.
func (ctx *SimulationContext) ProcessTallies() {
	if len(ctx.Tallies) == 0 {
		return
	}
	for _, t := range ctx.Tallies {
		t.Init()
	}

	workers := ctx.workers()
	out := make(chan int, workers)
	for id := 0; id < workers; id++ {
		go ctx.chanTally(id, workers, out)
	}
	for i := 0; i < workers; i++ {
		<-out
	}

	for _, t := range ctx.Tallies {
		t.Finalize()
	}
	log.Printf("Scored %d tallies.", len(ctx.Tallies))
}

func (ctx *SimulationContext) chanTally(id, workers int, out chan<- int) {
	for i := id; i < len(ctx.Particles); i += workers {
		for _, t := range ctx.Tallies {
			t.AddParticle(ctx.Particles[i])
		}
	}
	out <- id
}

func (ctx *SimulationContext) workers() int {
	if ctx.Workers < 1 {
		return 1
	}
	return ctx.Workers
}

// TrackFile returns the name of the track file of the i-th particle.
func TrackFile(i int) string { return fmt.Sprintf("photon_%09d.csv", i) }

// SaveData writes the tallies to <OutputDir>/tallies and, if requested, the
// particle tracks to <OutputDir>/tracks.
func (ctx *SimulationContext) SaveData() error {
	tallyDir := path.Join(ctx.OutputDir, "tallies")
	if err := os.MkdirAll(tallyDir, 0755); err != nil {
		return err
	}
	for _, t := range ctx.Tallies {
		if err := t.Save(tallyDir); err != nil {
			return fmt.Errorf("saving tally '%s': %w", t.ID(), err)
		}
	}

	if !ctx.SaveParticlePaths {
		return nil
	}
	trackDir := path.Join(ctx.OutputDir, "tracks")
	if err := os.MkdirAll(trackDir, 0755); err != nil {
		return err
	}
	for i, p := range ctx.Particles {
		if err := saveTrack(path.Join(trackDir, TrackFile(i)), p); err != nil {
			return err
		}
	}
	return nil
}

func saveTrack(fname string, p *particle.Particle) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.WriteTrack(f)
}

// Run initializes the context, transports every particle, scores the
// tallies and saves the results.
func (ctx *SimulationContext) Run() error {
	if err := ctx.Initialize(); err != nil {
		return err
	}
	log.Printf("Initialized %d particles.", len(ctx.Particles))

	ctx.CalculateHistories()
	ctx.ProcessTallies()
	return ctx.SaveData()
}
