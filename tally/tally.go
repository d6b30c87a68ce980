/*package tally accumulates statistics of particle histories on spatial
meshes.
*/
package tally

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"sort"

	"github.com/golang/geo/r3"

	"github.com/phil-mansfield/projector/geom"
	"github.com/phil-mansfield/projector/particle"
	"github.com/phil-mansfield/projector/xs"
)

var ErrUnsupportedScore = errors.New("unsupported tally score")

// Score is the quantity a tally accumulates.
type Score int

const (
	// Flux counts cell entries.
	Flux Score = iota
	// AverageEnergy averages the energy of the photons entering each cell.
	AverageEnergy
	// InteractionCounts counts interactions in each cell, in total and per
	// kind.
	InteractionCounts
	// DepositedEnergy sums the energy lost by photons in each cell.
	DepositedEnergy
)

var scoreNames = []string{"flux", "average_energy", "interaction_counts", "deposited_energy"}

func (s Score) String() string {
	if s < Flux || s > DepositedEnergy {
		return "invalid"
	}
	return scoreNames[s]
}

// ParseScore converts a score name like "flux" to a Score.
func ParseScore(name string) (Score, error) {
	for i, s := range scoreNames {
		if s == name {
			return Score(i), nil
		}
	}
	return 0, fmt.Errorf("'%s': %w", name, ErrUnsupportedScore)
}

// Stride returns the number of values the score keeps per cell.
func (s Score) Stride() int {
	switch s {
	case AverageEnergy:
		return 2
	case InteractionCounts:
		return xs.KindCount
	}
	return 1
}

// segmentwise returns true for scores accumulated along path segments and
// false for scores accumulated at history points.
func (s Score) segmentwise() bool {
	return s == Flux || s == AverageEnergy
}

// Tally is an accumulator of particle histories. AddParticle may be called
// concurrently between Init and Finalize.
type Tally interface {
	ID() string
	Init()
	AddParticle(p *particle.Particle)
	Finalize()
	Save(dir string) error
}

// crossingEps is the fraction of a cell past a crossing point at which the
// entered cell is looked up.
const crossingEps = 1e-7

// UniformMesh is a tally over a uniform grid of cells in a box.
type UniformMesh struct {
	id    string
	score Score
	grid  *geom.Grid
	data  slots
}

var _ Tally = &UniformMesh{}

// NewUniformMesh creates a mesh tally with res cells spanning the box from
// start to end. Init must be called before particles are added.
func NewUniformMesh(
	id string, start, end r3.Vector, res [3]int, score Score,
) (*UniformMesh, error) {
	if score < Flux || score > DepositedEnergy {
		return nil, fmt.Errorf("tally '%s': %w", id, ErrUnsupportedScore)
	}
	for i, r := range res {
		if r <= 0 {
			return nil, fmt.Errorf(
				"tally '%s' has resolution %d along axis %d", id, r, i,
			)
		}
	}
	box := geom.NewBoundingBox(start, end)
	if size := box.Size(); !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return nil, fmt.Errorf("tally '%s' spans an empty box %v", id, box)
	}

	return &UniformMesh{
		id:    id,
		score: score,
		grid:  geom.NewGrid(box, res, score.Stride()),
	}, nil
}

func (t *UniformMesh) ID() string { return t.id }

func (t *UniformMesh) Score() Score { return t.score }

// Stride returns the number of values stored per cell.
func (t *UniformMesh) Stride() int { return t.grid.Stride }

func (t *UniformMesh) Grid() *geom.Grid { return t.grid }

// Init allocates zeroed storage, discarding anything already accumulated.
func (t *UniformMesh) Init() {
	n := t.grid.Volume * t.grid.Stride
	switch t.score {
	case Flux, InteractionCounts:
		t.data = newCountSlots(n)
	default:
		t.data = newSumSlots(n)
	}
}

// Cell returns the coordinates of the cell containing p, or false if p is
// outside the mesh.
func (t *UniformMesh) Cell(p r3.Vector) (x, y, z int, ok bool) {
	return t.grid.Cell(p)
}

// Value returns the slot-th value of the cell at (x, y, z).
func (t *UniformMesh) Value(x, y, z, slot int) float64 {
	return t.data.Get(t.grid.Idx(x, y, z) + slot)
}

// Total returns the sum of the slot-th value over all cells.
func (t *UniformMesh) Total(slot int) float64 {
	sum := 0.0
	for i := slot; i < t.data.Len(); i += t.grid.Stride {
		sum += t.data.Get(i)
	}
	return sum
}

// AddParticle scores a particle's history.
func (t *UniformMesh) AddParticle(p *particle.Particle) {
	if t.score.segmentwise() {
		t.addSegments(p)
	} else {
		t.addPoints(p)
	}
}

func (t *UniformMesh) addPoints(p *particle.Particle) {
	h := &p.History
	for i := 1; i < h.Len(); i++ {
		x, y, z, ok := t.grid.Cell(h.Points[i])
		if !ok {
			continue
		}
		idx := t.grid.Idx(x, y, z)

		switch t.score {
		case InteractionCounts:
			if kind := h.Interactions[i]; kind != xs.NoInteraction {
				t.data.Inc(idx)
				t.data.Inc(idx + int(kind))
			}
		case DepositedEnergy:
			t.data.Add(idx, h.Energies[i-1]-h.Energies[i])
		}
	}
}

func (t *UniformMesh) addSegments(p *particle.Particle) {
	h := &p.History
	ts := []float64{}
	for i := 0; i+1 < h.Len(); i++ {
		start, end := h.Points[i], h.Points[i+1]
		if !t.grid.Box.Overlaps(geom.NewBoundingBox(start, end)) {
			continue
		}

		ts = t.crossings(start, end, ts[:0])
		offset := crossingEps / segLen(start, end, t.grid)
		for _, s := range ts {
			x, y, z, ok := t.grid.Cell(lerp(start, end, s+offset))
			if !ok {
				continue
			}
			idx := t.grid.Idx(x, y, z)

			switch t.score {
			case Flux:
				t.data.Inc(idx)
			case AverageEnergy:
				t.data.Add(idx, h.Energies[i])
				t.data.Inc(idx + 1)
			}
		}
	}
}

// crossings appends the segment parameters in (0, 1] at which the segment
// crosses a cell boundary, sorted and with coincident crossings merged. A
// crossing at the start of a segment was already scored as the end of the
// previous one.
func (t *UniformMesh) crossings(start, end r3.Vector, out []float64) []float64 {
	dir := end.Sub(start)
	for axis := geom.X; axis <= geom.Z; axis++ {
		d := geom.Component(dir, axis)
		if d == 0 {
			continue
		}
		x0 := geom.Component(start, axis)
		for i := 0; i <= t.grid.Res[axis]; i++ {
			s := (t.grid.Plane(axis, i) - x0) / d
			if s > 0 && s <= 1 {
				out = append(out, s)
			}
		}
	}

	sort.Float64s(out)
	n := 0
	for i := range out {
		if n == 0 || out[i]-out[n-1] > 1e-12 {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// segLen returns the length of the segment in units of the smallest cell
// edge, so crossingEps is a fixed fraction of a cell.
func segLen(start, end r3.Vector, g *geom.Grid) float64 {
	step := g.Step()
	minStep := math.Min(step.X, math.Min(step.Y, step.Z))
	return end.Sub(start).Norm() / minStep
}

func lerp(start, end r3.Vector, s float64) r3.Vector {
	return start.Add(end.Sub(start).Mul(s))
}

// Finalize converts accumulated sums into their final form. Average energy
// cells which were never entered are set to zero.
func (t *UniformMesh) Finalize() {
	if t.score != AverageEnergy {
		return
	}
	for i := 0; i < t.data.Len(); i += 2 {
		sum, count := t.data.Get(i), t.data.Get(i+1)
		if count > 0 {
			t.data.Set(i, sum/count)
		} else {
			t.data.Set(i, 0)
		}
	}
}

// Save writes the tally to <dir>/<id>.csv, one row per cell with the cell
// coordinates followed by its values.
func (t *UniformMesh) Save(dir string) error {
	f, err := os.Create(path.Join(dir, t.id+".csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprint(w, "x,y,z")
	for i := 0; i < t.grid.Stride; i++ {
		fmt.Fprintf(w, ",data%d", i)
	}
	fmt.Fprintln(w)

	for idx := 0; idx < t.data.Len(); idx += t.grid.Stride {
		x, y, z := t.grid.Coords(idx)
		fmt.Fprintf(w, "%d,%d,%d", x, y, z)
		for i := 0; i < t.grid.Stride; i++ {
			fmt.Fprintf(w, ",%g", t.data.Get(idx+i))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
