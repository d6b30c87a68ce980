package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/projector/rand"
)

const testEps = 1e-9

var (
	origin = r3.Vector{}
	xHat   = r3.Vector{X: 1}
	zHat   = r3.Vector{Z: 1}
	inf    = math.Inf(1)
)

func TestEllipsoidDistance(t *testing.T) {
	s := NewEllipsoid(origin, 1, 1, 1)

	table := []struct {
		p, dir r3.Vector
		d      float64
	}{
		{r3.Vector{X: -5}, xHat, 4},
		{origin, xHat, 1},
		// both roots behind the ray: the less negative one is kept
		{r3.Vector{X: 5}, xHat, -4},
		{r3.Vector{X: -5, Y: 2}, xHat, inf},
	}

	for i, test := range table {
		if d := s.DistanceAlongLine(test.p, test.dir); math.Abs(d-test.d) > testEps &&
			!(math.IsInf(d, 1) && math.IsInf(test.d, 1)) {
			t.Errorf("%d) Expected distance %g, got %g.", i, test.d, d)
		}
	}

	assert.True(t, s.Contains(r3.Vector{X: 0.5}))
	assert.False(t, s.Contains(r3.Vector{X: 1}), "boundary is outside")
}

func TestEllipsoidBoundingBox(t *testing.T) {
	s := NewEllipsoid(r3.Vector{X: 1, Y: 2, Z: 3}, 1, 2, 3)
	bb := s.BoundingBox()
	assert.Equal(t, origin, bb.Min)
	assert.Equal(t, r3.Vector{X: 2, Y: 4, Z: 6}, bb.Max)
}

func TestCylinder(t *testing.T) {
	s := NewCylinder(Z, origin, 1, 1)
	assert.InDelta(t, 4, s.DistanceAlongLine(r3.Vector{X: -5, Z: 3}, xHat), testEps)
	assert.True(t, math.IsInf(s.DistanceAlongLine(origin, zHat), 1), "parallel ray")
	assert.True(t, s.Contains(r3.Vector{Z: 100}))
	assert.False(t, s.Contains(r3.Vector{X: 2}))

	bb := s.BoundingBox()
	assert.Equal(t, -1.0, bb.Min.X)
	assert.Equal(t, 1.0, bb.Max.Y)
	assert.True(t, math.IsInf(bb.Max.Z, 1))

	sx := NewCylinder(X, r3.Vector{Y: 1}, 2, 3)
	assert.True(t, sx.Contains(r3.Vector{X: 50, Y: 2.5}))
	assert.False(t, sx.Contains(r3.Vector{X: 50, Y: 3.5}))
	assert.Equal(t, 3.0, sx.BoundingBox().Max.Y)
	assert.Equal(t, 3.0, sx.BoundingBox().Max.Z)
}

func TestCone(t *testing.T) {
	s := NewCone(Z, origin, 1, 1, 1)
	assert.True(t, s.Contains(r3.Vector{Z: 5}))
	assert.True(t, s.Contains(r3.Vector{Z: -5}))
	assert.False(t, s.Contains(r3.Vector{X: 1, Z: 0.5}))
	assert.InDelta(t, 3, s.DistanceAlongLine(r3.Vector{X: -5, Z: 2}, xHat), testEps)
	assert.False(t, s.BoundingBox().IsFinite())
}

func TestPlane(t *testing.T) {
	s := NewPlane(origin, zHat)
	assert.True(t, s.Contains(r3.Vector{Z: -1}))
	assert.False(t, s.Contains(r3.Vector{Z: 1}))
	assert.InDelta(t, 3, s.DistanceAlongLine(r3.Vector{Z: -3}, zHat), testEps)
	assert.InDelta(t, -3, s.DistanceAlongLine(r3.Vector{Z: 3}, zHat), testEps)
	assert.True(t, math.IsInf(s.DistanceAlongLine(origin, xHat), 1))

	bb := s.BoundingBox()
	assert.Equal(t, 0.0, bb.Max.Z)
	assert.True(t, math.IsInf(bb.Min.Z, -1))

	bb = NewPlane(r3.Vector{Z: 2}, r3.Vector{Z: -1}).BoundingBox()
	assert.Equal(t, 2.0, bb.Min.Z)
	assert.True(t, math.IsInf(bb.Max.Z, 1))

	tilted := NewPlane(origin, r3.Vector{X: 1, Z: 1})
	assert.Equal(t, InfiniteBox(), tilted.BoundingBox())

	yz := NewPlane(origin, xHat)
	assert.True(t, yz.Contains(r3.Vector{X: -3}))
	assert.False(t, yz.Contains(r3.Vector{X: 3}))
}

func TestParseSurfaceType(t *testing.T) {
	st, err := ParseSurfaceType("y_cone")
	require.NoError(t, err)
	assert.Equal(t, YConeType, st)
	_, err = ParseSurfaceType("torus")
	assert.Error(t, err)
}

func TestParseOp(t *testing.T) {
	for _, op := range []Op{NoOp, Join, Intersect, Subtract} {
		parsed, err := ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}
	_, err := ParseOp("xor")
	assert.Error(t, err)
}

func shell() *Geometry {
	g := NewGeometry()
	g.Add(Join, NewEllipsoid(origin, 2, 2, 2))
	g.Add(Subtract, NewEllipsoid(origin, 1, 1, 1))
	return g
}

func lens() *Geometry {
	g := NewGeometry()
	g.Add(Join, NewEllipsoid(origin, 1, 1, 1))
	g.Add(Intersect, NewEllipsoid(r3.Vector{X: 1.5}, 1, 1, 1))
	return g
}

func TestGeometryContains(t *testing.T) {
	assert.False(t, NewGeometry().Contains(origin), "empty geometry")

	s := shell()
	assert.False(t, s.Contains(origin))
	assert.True(t, s.Contains(r3.Vector{Y: 1.5}))
	assert.False(t, s.Contains(r3.Vector{Y: 2.5}))

	l := lens()
	assert.True(t, l.Contains(r3.Vector{X: 0.75}))
	assert.False(t, l.Contains(r3.Vector{X: 0.25}))

	noop := NewGeometry()
	noop.Add(Join, NewEllipsoid(origin, 1, 1, 1))
	noop.Add(NoOp, NewEllipsoid(origin, 5, 5, 5))
	assert.False(t, noop.Contains(r3.Vector{X: 3}))

	nested := NewGeometry()
	nested.Add(Join, shell())
	nested.Add(Join, NewEllipsoid(origin, 0.5, 0.5, 0.5))
	assert.True(t, nested.Contains(origin))
	assert.True(t, nested.Contains(r3.Vector{Z: 1.5}))
	assert.False(t, nested.Contains(r3.Vector{Z: 0.75}))
}

// planeBox builds the box [lo, hi]^3 as the intersection of six planes.
func planeBox(lo, hi float64) *Geometry {
	g := NewGeometry()
	g.Add(Join, NewPlane(r3.Vector{X: hi}, r3.Vector{X: 1}))
	g.Add(Intersect, NewPlane(r3.Vector{Y: hi}, r3.Vector{Y: 1}))
	g.Add(Intersect, NewPlane(r3.Vector{Z: hi}, r3.Vector{Z: 1}))
	g.Add(Intersect, NewPlane(r3.Vector{X: lo}, r3.Vector{X: -1}))
	g.Add(Intersect, NewPlane(r3.Vector{Y: lo}, r3.Vector{Y: -1}))
	g.Add(Intersect, NewPlane(r3.Vector{Z: lo}, r3.Vector{Z: -1}))
	return g
}

func TestBooleanLaws(t *testing.T) {
	combine := func(op Op) *Geometry {
		g := NewGeometry()
		g.Add(Join, planeBox(-1, 1))
		g.Add(op, planeBox(0, 2))
		g.UpdateBoundingBox(r3.Vector{X: -10, Y: -10, Z: -10}, r3.Vector{X: 10, Y: 10, Z: 10})
		return g
	}

	table := []struct {
		op     Op
		p      float64
		inside bool
	}{
		{Join, -0.5, true},
		{Join, 1.5, true},
		{Join, 3, false},
		{Intersect, 0.5, true},
		{Intersect, -0.5, false},
		{Subtract, -0.5, true},
		{Subtract, 1.5, false},
	}

	for i, test := range table {
		g := combine(test.op)
		p := r3.Vector{X: test.p, Y: test.p, Z: test.p}
		if g.Contains(p) != test.inside {
			t.Errorf("%d) Expected %s to contain %v: %t.", i, test.op, p, test.inside)
		}
	}

	boxes := []struct {
		op     Op
		lo, hi float64
	}{
		{Join, -1, 2},
		{Intersect, 0, 1},
		{Subtract, -1, 1},
	}

	for _, test := range boxes {
		bb := combine(test.op).BoundingBox()
		lo := r3.Vector{X: test.lo, Y: test.lo, Z: test.lo}
		hi := r3.Vector{X: test.hi, Y: test.hi, Z: test.hi}
		assert.Equal(t, lo, bb.Min, "%s", test.op)
		assert.Equal(t, hi, bb.Max, "%s", test.op)
	}
}

func TestNearestSurfaceDistance(t *testing.T) {
	s := shell()
	assert.InDelta(t, 1, s.NearestSurfaceDistance(r3.Vector{X: -3}, xHat), testEps)
	assert.InDelta(t, 0.5, s.NearestSurfaceDistance(r3.Vector{X: -1.5}, xHat), testEps)
	assert.True(t, math.IsInf(s.NearestSurfaceDistance(r3.Vector{X: 5}, xHat), 1))
	assert.True(t, math.IsInf(NewGeometry().NearestSurfaceDistance(origin, xHat), 1))

	// The lens starts at x = 0.5, but the left sphere's surface at x = -1
	// is reported first because removed surfaces still count.
	l := lens()
	assert.InDelta(t, 4, l.NearestSurfaceDistance(r3.Vector{X: -5}, xHat), testEps)
}

func TestUpdateBoundingBox(t *testing.T) {
	min, max := r3.Vector{X: -10, Y: -10, Z: -10}, r3.Vector{X: 10, Y: 10, Z: 10}

	s := shell()
	s.UpdateBoundingBox(min, max)
	assert.Equal(t, r3.Vector{X: -2, Y: -2, Z: -2}, s.BoundingBox().Min)
	assert.Equal(t, r3.Vector{X: 2, Y: 2, Z: 2}, s.BoundingBox().Max)

	l := lens()
	l.UpdateBoundingBox(min, max)
	assert.Equal(t, r3.Vector{X: 0.5, Y: -1, Z: -1}, l.BoundingBox().Min)
	assert.Equal(t, r3.Vector{X: 1, Y: 1, Z: 1}, l.BoundingBox().Max)

	union := NewGeometry()
	union.Add(Join, NewEllipsoid(r3.Vector{X: -3}, 1, 1, 1))
	union.Add(Join, NewEllipsoid(r3.Vector{X: 3}, 1, 1, 1))
	union.UpdateBoundingBox(min, max)
	assert.Equal(t, -4.0, union.BoundingBox().Min.X)
	assert.Equal(t, 4.0, union.BoundingBox().Max.X)

	rod := NewGeometry()
	rod.Add(Join, NewCylinder(Z, origin, 1, 1))
	rod.UpdateBoundingBox(min, max)
	assert.True(t, rod.BoundingBox().IsFinite())
	assert.Equal(t, 10.0, rod.BoundingBox().Max.Z)

	nested := NewGeometry()
	nested.Add(Join, lens())
	nested.UpdateBoundingBox(min, max)
	assert.Equal(t, 0.5, nested.BoundingBox().Min.X)
}

func TestSamplePoint(t *testing.T) {
	gen := rand.NewGenerator(11)
	s := shell()
	s.UpdateBoundingBox(r3.Vector{X: -5, Y: -5, Z: -5}, r3.Vector{X: 5, Y: 5, Z: 5})

	for i := 0; i < 1000; i++ {
		p, err := s.SamplePoint(gen)
		require.NoError(t, err)
		require.True(t, s.Contains(p), "point %v outside the shell", p)
	}

	_, err := NewGeometry().SamplePoint(gen)
	assert.Error(t, err, "unbounded geometry")

	empty := NewGeometry()
	empty.Add(Join, NewEllipsoid(origin, 1, 1, 1))
	empty.Add(Subtract, NewEllipsoid(origin, 2, 2, 2))
	empty.UpdateBoundingBox(r3.Vector{X: -5, Y: -5, Z: -5}, r3.Vector{X: 5, Y: 5, Z: 5})
	_, err = empty.SamplePoint(gen)
	assert.True(t, errors.Is(err, ErrRejectionLimit))
}

func TestBoundingBox(t *testing.T) {
	b := NewBoundingBox(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: -1, Y: -1, Z: -1})
	assert.Equal(t, r3.Vector{X: -1, Y: -1, Z: -1}, b.Min)

	assert.InDelta(t, 1, b.DistanceAlongLine(origin, xHat), testEps, "exit")
	assert.InDelta(t, 4, b.DistanceAlongLine(r3.Vector{X: -5}, xHat), testEps, "entry")
	assert.True(t, math.IsInf(b.DistanceAlongLine(r3.Vector{X: 5}, xHat), 1), "behind")
	assert.True(t, math.IsInf(b.DistanceAlongLine(r3.Vector{X: -5, Y: 3}, xHat), 1), "miss")

	assert.True(t, EmptyBox().IsEmpty())
	assert.Equal(t, b, EmptyBox().Join(b))
	assert.Equal(t, b, InfiniteBox().Intersect(b))
	assert.True(t, b.Overlaps(NewBoundingBox(origin, r3.Vector{X: 3, Y: 3, Z: 3})))
	assert.False(t, b.Overlaps(NewBoundingBox(r3.Vector{X: 2}, r3.Vector{X: 3, Y: 3, Z: 3})))
}

func TestRotateDirection(t *testing.T) {
	dirs := []r3.Vector{
		xHat, zHat, r3.Vector{Z: -1},
		r3.Vector{X: 1, Y: 2, Z: 3}.Normalize(),
		r3.Vector{X: -1, Y: 0.5, Z: -0.2}.Normalize(),
	}
	for i, dir := range dirs {
		for _, mu := range []float64{-1, -0.3, 0, 0.5, 1} {
			for _, phi := range []float64{0, 1, 3, 5} {
				out := RotateDirection(dir, mu, phi)
				if math.Abs(out.Norm()-1) > testEps {
					t.Errorf("%d) |out| = %g for mu = %g, phi = %g.", i, out.Norm(), mu, phi)
				}
				if math.Abs(out.Dot(dir)-mu) > 1e-7 {
					t.Errorf("%d) Expected cos = %g, got %g.", i, mu, out.Dot(dir))
				}
			}
		}
	}
}

func TestIsotropicDirection(t *testing.T) {
	gen := rand.NewGenerator(5)
	n := 100000
	mean := r3.Vector{}
	for i := 0; i < n; i++ {
		d := IsotropicDirection(gen)
		require.InDelta(t, 1, d.Norm(), testEps)
		mean = mean.Add(d)
	}
	mean = mean.Mul(1 / float64(n))
	assert.InDelta(t, 0, mean.Norm(), 0.02)

	axis := r3.Vector{X: 1, Y: 1}
	for i := 0; i < 1000; i++ {
		d := ConeDirection(axis, 0.1, gen)
		require.True(t, d.Dot(axis.Normalize()) >= math.Cos(0.1)-testEps)
	}
}

func TestGrid(t *testing.T) {
	box := NewBoundingBox(origin, r3.Vector{X: 4, Y: 2, Z: 1})
	g := NewGrid(box, [3]int{4, 2, 1}, 2)
	assert.Equal(t, 8, g.Volume)

	for z := 0; z < 1; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 4; x++ {
				idx := g.Idx(x, y, z)
				assert.Equal(t, z*(4*2*2)+y*4*2+x*2, idx)
				cx, cy, cz := g.Coords(idx)
				assert.Equal(t, [3]int{x, y, z}, [3]int{cx, cy, cz})
			}
		}
	}

	x, y, z, ok := g.Cell(r3.Vector{X: 2.5, Y: 0.5, Z: 0.5})
	assert.True(t, ok)
	assert.Equal(t, [3]int{2, 0, 0}, [3]int{x, y, z})

	x, y, z, ok = g.Cell(r3.Vector{X: 4, Y: 2, Z: 1})
	assert.True(t, ok, "upper corner")
	assert.Equal(t, [3]int{3, 1, 0}, [3]int{x, y, z})

	_, _, _, ok = g.Cell(r3.Vector{X: -0.1})
	assert.False(t, ok)
	_, ok = g.IdxCheck(4, 0, 0)
	assert.False(t, ok)

	assert.Equal(t, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, g.Center(0, 0, 0))
	assert.Equal(t, 3.0, g.Plane(X, 3))
}

func BenchmarkEllipsoidDistance(b *testing.B) {
	s := NewEllipsoid(origin, 1, 2, 3)
	p, dir := r3.Vector{X: -5, Y: 0.1}, xHat
	for i := 0; i < b.N; i++ {
		s.DistanceAlongLine(p, dir)
	}
}

func BenchmarkGeometryContains(b *testing.B) {
	g := shell()
	p := r3.Vector{X: 1.5}
	for i := 0; i < b.N; i++ {
		g.Contains(p)
	}
}
