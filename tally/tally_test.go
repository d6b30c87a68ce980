package tally

import (
	"errors"
	"os"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/projector/particle"
	"github.com/phil-mansfield/projector/xs"
)

var (
	lo = r3.Vector{}
	hi = r3.Vector{X: 10, Y: 10, Z: 10}
)

func newMesh(t *testing.T, score Score) *UniformMesh {
	m, err := NewUniformMesh("mesh", lo, hi, [3]int{10, 10, 10}, score)
	require.NoError(t, err)
	m.Init()
	return m
}

// path builds a particle which visits the given points with the given
// energies and interactions.
func track(points []r3.Vector, energies []float64, kinds []xs.Kind) *particle.Particle {
	p := particle.New(points[0], r3.Vector{X: 1}, energies[0], 1)
	for i := 1; i < len(points); i++ {
		p.Push(particle.State{
			Position: points[i], Energy: energies[i], Interaction: kinds[i], Element: 8,
		})
	}
	return p
}

func line(a, b r3.Vector, e float64) *particle.Particle {
	return track([]r3.Vector{a, b}, []float64{e, e}, []xs.Kind{0, 0})
}

func TestScores(t *testing.T) {
	table := []struct {
		name   string
		score  Score
		stride int
	}{
		{"flux", Flux, 1},
		{"average_energy", AverageEnergy, 2},
		{"interaction_counts", InteractionCounts, 5},
		{"deposited_energy", DepositedEnergy, 1},
	}
	for i, test := range table {
		s, err := ParseScore(test.name)
		if err != nil {
			t.Errorf("%d) Unexpected error: %s", i, err.Error())
			continue
		}
		assert.Equal(t, test.score, s)
		assert.Equal(t, test.name, s.String())
		assert.Equal(t, test.stride, s.Stride())
	}

	_, err := ParseScore("dose")
	assert.True(t, errors.Is(err, ErrUnsupportedScore))
}

func TestNewUniformMeshErrors(t *testing.T) {
	_, err := NewUniformMesh("a", lo, hi, [3]int{0, 1, 1}, Flux)
	assert.Error(t, err)
	_, err = NewUniformMesh("b", lo, r3.Vector{X: 1, Y: 1}, [3]int{1, 1, 1}, Flux)
	assert.Error(t, err)
	_, err = NewUniformMesh("c", lo, hi, [3]int{1, 1, 1}, Score(9))
	assert.True(t, errors.Is(err, ErrUnsupportedScore))
}

func TestCell(t *testing.T) {
	m := newMesh(t, Flux)
	x, y, z, ok := m.Cell(r3.Vector{X: 0.5, Y: 9.99, Z: 3})
	assert.True(t, ok)
	assert.Equal(t, [3]int{0, 9, 3}, [3]int{x, y, z})

	_, _, _, ok = m.Cell(r3.Vector{X: -0.5, Y: 5, Z: 5})
	assert.False(t, ok)
	_, _, _, ok = m.Cell(r3.Vector{X: 5, Y: 5, Z: 10.5})
	assert.False(t, ok)
}

func TestFluxStraightLine(t *testing.T) {
	m := newMesh(t, Flux)
	m.AddParticle(line(r3.Vector{X: -1, Y: 5.5, Z: 5.5}, r3.Vector{X: 11, Y: 5.5, Z: 5.5}, 1e6))

	for x := 0; x < 10; x++ {
		assert.Equal(t, 1.0, m.Value(x, 5, 5, 0), "cell %d", x)
	}
	assert.Equal(t, 10.0, m.Total(0))

	// Segments which miss the mesh are skipped.
	m.AddParticle(line(r3.Vector{X: -1, Y: 50}, r3.Vector{X: 11, Y: 50}, 1e6))
	assert.Equal(t, 10.0, m.Total(0))
}

func TestFluxMatchesBruteForce(t *testing.T) {
	m := newMesh(t, Flux)
	a := r3.Vector{X: -0.3, Y: 0.71, Z: -0.45}
	b := r3.Vector{X: 9.7, Y: 8.23, Z: 10.6}
	c := r3.Vector{X: 3.3, Y: 2.17, Z: 4.9}
	p := track([]r3.Vector{a, b, c}, []float64{1, 1, 1}, []xs.Kind{0, 0, 0})
	m.AddParticle(p)

	expected := map[[3]int]float64{}
	n := 1000000
	for seg := 0; seg < 2; seg++ {
		start, end := p.History.Points[seg], p.History.Points[seg+1]
		px, py, pz, pok := m.Cell(start)
		for i := 1; i <= n; i++ {
			pt := lerp(start, end, float64(i)/float64(n))
			x, y, z, ok := m.Cell(pt)
			if ok && (!pok || x != px || y != py || z != pz) {
				expected[[3]int{x, y, z}]++
			}
			px, py, pz, pok = x, y, z, ok
		}
	}

	total := 0.0
	for cell, count := range expected {
		assert.Equal(t, count, m.Value(cell[0], cell[1], cell[2], 0), "cell %v", cell)
		total += count
	}
	assert.Equal(t, total, m.Total(0))
}

func TestFluxPointOnPlane(t *testing.T) {
	m := newMesh(t, Flux)
	a := r3.Vector{X: 0.5, Y: 5.5, Z: 5.5}
	b := r3.Vector{X: 3, Y: 5.5, Z: 5.5}
	c := r3.Vector{X: 7.5, Y: 5.5, Z: 5.5}
	m.AddParticle(track([]r3.Vector{a, b, c}, []float64{1, 1, 1}, []xs.Kind{0, 0, 0}))

	for x := 1; x <= 7; x++ {
		assert.Equal(t, 1.0, m.Value(x, 5, 5, 0), "cell %d", x)
	}
	assert.Equal(t, 0.0, m.Value(0, 5, 5, 0))
	assert.Equal(t, 7.0, m.Total(0))

	// A history starting on a plane does not score its first point.
	m.Init()
	m.AddParticle(line(r3.Vector{X: 2, Y: 5.5, Z: 5.5}, r3.Vector{X: 3.5, Y: 5.5, Z: 5.5}, 1))
	assert.Equal(t, 0.0, m.Value(2, 5, 5, 0))
	assert.Equal(t, 1.0, m.Value(3, 5, 5, 0))
	assert.Equal(t, 1.0, m.Total(0))
}

func TestAverageEnergy(t *testing.T) {
	m := newMesh(t, AverageEnergy)
	m.AddParticle(line(r3.Vector{X: 5.5, Y: 5.5, Z: -1}, r3.Vector{X: 5.5, Y: 5.5, Z: 0.5}, 100))
	m.AddParticle(line(r3.Vector{X: 5.5, Y: 5.5, Z: -1}, r3.Vector{X: 5.5, Y: 5.5, Z: 0.5}, 300))
	m.Finalize()

	assert.InDelta(t, 200, m.Value(5, 5, 0, 0), 1e-9)
	assert.Equal(t, 2.0, m.Value(5, 5, 0, 1))
	assert.Equal(t, 0.0, m.Value(0, 0, 0, 0), "unvisited cell")
}

func TestInteractionCounts(t *testing.T) {
	m := newMesh(t, InteractionCounts)
	p := track(
		[]r3.Vector{{X: 0.5, Y: 0.5, Z: 0.5}, {X: 1.5, Y: 0.5, Z: 0.5}, {X: 1.7, Y: 0.5, Z: 0.5},
			{X: 2.5, Y: 0.5, Z: 0.5}, {X: 2.6, Y: 0.5, Z: 0.5}},
		[]float64{1e6, 1e6, 8e5, 8e5, 0},
		[]xs.Kind{xs.NoInteraction, xs.Coherent, xs.Incoherent, xs.NoInteraction, xs.Photoelectric},
	)
	m.AddParticle(p)

	assert.Equal(t, 2.0, m.Value(1, 0, 0, 0))
	assert.Equal(t, 1.0, m.Value(1, 0, 0, int(xs.Coherent)))
	assert.Equal(t, 1.0, m.Value(1, 0, 0, int(xs.Incoherent)))
	assert.Equal(t, 1.0, m.Value(2, 0, 0, 0))
	assert.Equal(t, 1.0, m.Value(2, 0, 0, int(xs.Photoelectric)))
	assert.Equal(t, 0.0, m.Value(0, 0, 0, 0), "the initial point is not scored")
	assert.Equal(t, 3.0, m.Total(0))
}

func TestDepositedEnergy(t *testing.T) {
	m := newMesh(t, DepositedEnergy)
	p := track(
		[]r3.Vector{{X: 0.5, Y: 0.5, Z: 0.5}, {X: 1.5, Y: 0.5, Z: 0.5}, {X: 4.5, Y: 0.5, Z: 0.5}},
		[]float64{1000, 600, 0},
		[]xs.Kind{xs.NoInteraction, xs.Incoherent, xs.Photoelectric},
	)
	m.AddParticle(p)

	assert.Equal(t, 400.0, m.Value(1, 0, 0, 0))
	assert.Equal(t, 600.0, m.Value(4, 0, 0, 0))
	assert.Equal(t, 1000.0, m.Total(0))
}

func TestConcurrentAdds(t *testing.T) {
	flux, dep := newMesh(t, Flux), newMesh(t, DepositedEnergy)
	p := track(
		[]r3.Vector{{X: -1, Y: 2.5, Z: 2.5}, {X: 3.5, Y: 2.5, Z: 2.5}, {X: 3.5, Y: 8.5, Z: 2.5}},
		[]float64{1000, 250, 0},
		[]xs.Kind{xs.NoInteraction, xs.Incoherent, xs.Photoelectric},
	)

	workers, perWorker := 8, 500
	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				flux.AddParticle(p)
				dep.AddParticle(p)
			}
		}()
	}
	wg.Wait()

	n := float64(workers * perWorker)
	assert.Equal(t, 10*n, flux.Total(0))
	assert.InDelta(t, 1000*n, dep.Total(0), 1e-6)
}

func TestInitResets(t *testing.T) {
	m := newMesh(t, Flux)
	m.AddParticle(line(r3.Vector{X: -1, Y: 5.5, Z: 5.5}, r3.Vector{X: 11, Y: 5.5, Z: 5.5}, 1))
	m.Init()
	assert.Equal(t, 0.0, m.Total(0))
}

func TestSave(t *testing.T) {
	m, err := NewUniformMesh("energy", lo, hi, [3]int{2, 3, 4}, AverageEnergy)
	require.NoError(t, err)
	m.Init()
	m.AddParticle(line(r3.Vector{X: -1, Y: 1, Z: 1}, r3.Vector{X: 2, Y: 1, Z: 1}, 50))
	m.Finalize()

	dir := t.TempDir()
	require.NoError(t, m.Save(dir))

	b, err := os.ReadFile(path.Join(dir, "energy.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")

	require.Equal(t, 1+2*3*4, len(lines))
	assert.Equal(t, "x,y,z,data0,data1", lines[0])
	assert.Equal(t, "0,0,0,50,1", lines[1])
	assert.Equal(t, "1,0,0,0,0", lines[2])
	assert.Equal(t, "0,1,0,0,0", lines[3])
	assert.Equal(t, "1,2,3,0,0", lines[len(lines)-1])
}

func BenchmarkFlux(b *testing.B) {
	m, _ := NewUniformMesh("mesh", lo, hi, [3]int{50, 50, 50}, Flux)
	m.Init()
	p := line(r3.Vector{X: -1, Y: 0.3, Z: 0.2}, r3.Vector{X: 11, Y: 9.6, Z: 9.9}, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.AddParticle(p)
	}
}
