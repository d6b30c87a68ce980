package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// BoundingBox is an axis-aligned box. A box with Min > Max along any axis is
// empty.
type BoundingBox struct {
	Min, Max r3.Vector
}

// NewBoundingBox returns the box spanned by the two corners, which may be
// given in any order.
func NewBoundingBox(c1, c2 r3.Vector) BoundingBox {
	return BoundingBox{
		Min: r3.Vector{X: math.Min(c1.X, c2.X), Y: math.Min(c1.Y, c2.Y), Z: math.Min(c1.Z, c2.Z)},
		Max: r3.Vector{X: math.Max(c1.X, c2.X), Y: math.Max(c1.Y, c2.Y), Z: math.Max(c1.Z, c2.Z)},
	}
}

// EmptyBox returns a box containing nothing. It is the identity of Join.
func EmptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: r3.Vector{X: inf, Y: inf, Z: inf},
		Max: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// InfiniteBox returns a box containing all of space. It is the identity of
// Intersect.
func InfiniteBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: r3.Vector{X: -inf, Y: -inf, Z: -inf},
		Max: r3.Vector{X: inf, Y: inf, Z: inf},
	}
}

// IsEmpty returns true if the box contains no points.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// IsFinite returns true if every edge of the box has finite length.
func (b BoundingBox) IsFinite() bool {
	for _, x := range [6]float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return false
		}
	}
	return true
}

// Size returns the edge lengths of the box.
func (b BoundingBox) Size() r3.Vector { return b.Max.Sub(b.Min) }

// Contains returns true if p lies inside the box or on its faces.
func (b BoundingBox) Contains(p r3.Vector) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y &&
		b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// Join returns the smallest box containing both boxes.
func (b BoundingBox) Join(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: r3.Vector{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Intersect returns the overlap of the two boxes, which may be empty.
func (b BoundingBox) Intersect(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: r3.Vector{X: math.Max(b.Min.X, o.Min.X), Y: math.Max(b.Min.Y, o.Min.Y), Z: math.Max(b.Min.Z, o.Min.Z)},
		Max: r3.Vector{X: math.Min(b.Max.X, o.Max.X), Y: math.Min(b.Max.Y, o.Max.Y), Z: math.Min(b.Max.Z, o.Max.Z)},
	}
}

// Overlaps returns true if the two boxes share at least one point.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return !b.Intersect(o).IsEmpty()
}

// DistanceAlongLine returns the distance along the ray (p, dir) to the box.
// For rays starting inside the box this is the distance to the exit face,
// otherwise it is the distance to the entry face. Rays which miss the box
// return +Inf.
func (b BoundingBox) DistanceAlongLine(p, dir r3.Vector) float64 {
	tNear, tFar := math.Inf(-1), math.Inf(1)
	for axis := X; axis <= Z; axis++ {
		x, d := Component(p, axis), Component(dir, axis)
		lo, hi := Component(b.Min, axis), Component(b.Max, axis)
		if d == 0 {
			if x < lo || x > hi {
				return math.Inf(1)
			}
			continue
		}
		t1, t2 := (lo-x)/d, (hi-x)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear, tFar = math.Max(tNear, t1), math.Min(tFar, t2)
	}

	if tNear > tFar || tFar < 0 {
		return math.Inf(1)
	} else if tNear >= 0 {
		return tNear
	}
	return tFar
}

// Sample returns a point drawn uniformly from the box.
func (b BoundingBox) Sample(rng Rand) r3.Vector {
	size := b.Size()
	return r3.Vector{
		X: b.Min.X + rng.Float64()*size.X,
		Y: b.Min.Y + rng.Float64()*size.Y,
		Z: b.Min.Z + rng.Float64()*size.Z,
	}
}
