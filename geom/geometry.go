package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// MaxRejections is the number of draws a rejection sampler makes before
// giving up.
const MaxRejections = 1000000

// ErrRejectionLimit is returned when rejection sampling runs out of draws.
var ErrRejectionLimit = errors.New("rejection sampling exceeded its draw limit")

// Op is the boolean operation a Geometry applies to one of its children.
type Op int

const (
	NoOp Op = iota
	Join
	Intersect
	Subtract
)

var opNames = []string{"no_op", "join", "intersect", "subtract"}

func (op Op) String() string {
	if op < NoOp || op > Subtract {
		return "invalid"
	}
	return opNames[op]
}

// ParseOp converts an operation name like "subtract" to an Op.
func ParseOp(name string) (Op, error) {
	for i, s := range opNames {
		if s == name {
			return Op(i), nil
		}
	}
	return NoOp, fmt.Errorf("'%s' is not a recognized operation", name)
}

// Geometry is a constructive solid geometry tree: an ordered list of
// children, each combined with the children before it by an Op. A Geometry
// owns its children; the same *Geometry must not be added to two parents.
type Geometry struct {
	ops      []Op
	children []Node
	bb       BoundingBox
}

// NewGeometry returns an empty geometry. Empty geometries contain no points.
func NewGeometry() *Geometry {
	return &Geometry{bb: InfiniteBox()}
}

func (*Geometry) node() {}

// Add appends a child combined with the given operation.
func (g *Geometry) Add(op Op, child Node) {
	g.ops = append(g.ops, op)
	g.children = append(g.children, child)
}

// Len returns the number of children.
func (g *Geometry) Len() int { return len(g.children) }

// Child returns the i-th child and its operation.
func (g *Geometry) Child(i int) (Op, Node) { return g.ops[i], g.children[i] }

// Contains folds the children's containment tests left to right starting
// from "outside".
func (g *Geometry) Contains(p r3.Vector) bool {
	in := false
	for i, child := range g.children {
		switch g.ops[i] {
		case Join:
			in = in || child.Contains(p)
		case Intersect:
			in = in && child.Contains(p)
		case Subtract:
			in = in && !child.Contains(p)
		}
	}
	return in
}

// DistanceAlongLine is NearestSurfaceDistance.
func (g *Geometry) DistanceAlongLine(p, dir r3.Vector) float64 {
	return g.NearestSurfaceDistance(p, dir)
}

// NearestSurfaceDistance returns the smallest non-negative distance along
// (p, dir) to any surface in the tree, or +Inf if there is none.
//
// Every child surface counts, including the parts of a surface which a
// subtraction or intersection has removed from the region, so the result
// can be shorter than the distance to the region's true boundary.
func (g *Geometry) NearestSurfaceDistance(p, dir r3.Vector) float64 {
	min := math.Inf(1)
	for _, child := range g.children {
		if d := child.DistanceAlongLine(p, dir); d >= 0 && d < min {
			min = d
		}
	}
	return min
}

// BoundingBox returns the box computed by the last call to
// UpdateBoundingBox, or an infinite box if it has never been called.
func (g *Geometry) BoundingBox() BoundingBox { return g.bb }

// UpdateBoundingBox recomputes the box of the tree, clipped to the box
// spanned by min and max. Joined children grow the box, intersected
// children shrink it, and subtracted children leave it alone.
func (g *Geometry) UpdateBoundingBox(min, max r3.Vector) {
	box := EmptyBox()
	for i, child := range g.children {
		if sub, ok := child.(*Geometry); ok {
			sub.UpdateBoundingBox(min, max)
		}

		switch g.ops[i] {
		case Join:
			box = box.Join(child.BoundingBox())
		case Intersect:
			box = box.Intersect(child.BoundingBox())
		}
	}
	g.bb = box.Intersect(NewBoundingBox(min, max))
}

// SamplePoint draws a point uniformly from the region by rejection sampling
// within its bounding box.
func (g *Geometry) SamplePoint(rng Rand) (r3.Vector, error) {
	if g.bb.IsEmpty() || !g.bb.IsFinite() {
		return r3.Vector{}, fmt.Errorf(
			"cannot sample from the bounding box %v", g.bb,
		)
	}

	for i := 0; i < MaxRejections; i++ {
		p := g.bb.Sample(rng)
		if g.Contains(p) {
			return p, nil
		}
	}
	return r3.Vector{}, ErrRejectionLimit
}
