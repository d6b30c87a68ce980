package geom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Node is an element of a CSG tree: either a Surface or a nested Geometry.
type Node interface {
	// Contains returns true if p lies strictly inside the node.
	Contains(p r3.Vector) bool
	// DistanceAlongLine returns the distance along (p, dir) to the node's
	// boundary, or +Inf if there is none.
	DistanceAlongLine(p, dir r3.Vector) float64
	// BoundingBox returns a box which contains the node.
	BoundingBox() BoundingBox

	node()
}

// Surface is a primitive closed region of space: a *Plane, *Ellipsoid,
// *Cylinder or *Cone.
type Surface interface {
	Node
	surface()
}

// SurfaceType identifies the primitive behind a Surface.
type SurfaceType int

const (
	PlaneType SurfaceType = iota
	EllipsoidType
	XCylinderType
	YCylinderType
	ZCylinderType
	XConeType
	YConeType
	ZConeType
)

var surfaceNames = map[string]SurfaceType{
	"plane":      PlaneType,
	"ellipsoid":  EllipsoidType,
	"x_cylinder": XCylinderType,
	"y_cylinder": YCylinderType,
	"z_cylinder": ZCylinderType,
	"x_cone":     XConeType,
	"y_cone":     YConeType,
	"z_cone":     ZConeType,
}

// ParseSurfaceType converts a surface name like "z_cylinder" to a
// SurfaceType.
func ParseSurfaceType(name string) (SurfaceType, error) {
	t, ok := surfaceNames[name]
	if !ok {
		return 0, fmt.Errorf("'%s' is not a recognized surface type", name)
	}
	return t, nil
}

// Plane is the half-space behind a plane, i.e. the side opposite Normal.
type Plane struct {
	Point, Normal r3.Vector
}

// NewPlane returns the half-space {p : (p - point) . normal < 0}.
func NewPlane(point, normal r3.Vector) *Plane {
	return &Plane{Point: point, Normal: normal}
}

func (*Plane) node()    {}
func (*Plane) surface() {}

func (s *Plane) Contains(p r3.Vector) bool {
	return p.Sub(s.Point).Dot(s.Normal) < 0
}

// DistanceAlongLine returns the signed distance to the plane. Rays parallel
// to the plane return +Inf.
func (s *Plane) DistanceAlongLine(p, dir r3.Vector) float64 {
	denom := s.Normal.Dot(dir)
	if denom == 0 {
		return math.Inf(1)
	}
	return s.Point.Sub(p).Dot(s.Normal) / denom
}

// BoundingBox returns a half-infinite box for planes whose normal lies along
// a coordinate axis and an infinite box otherwise.
func (s *Plane) BoundingBox() BoundingBox {
	box := InfiniteBox()
	axis, ok := alignedAxis(s.Normal)
	if !ok {
		return box
	}

	x := Component(s.Point, axis)
	if Component(s.Normal, axis) > 0 {
		box.Max = WithComponent(box.Max, axis, x)
	} else {
		box.Min = WithComponent(box.Min, axis, x)
	}
	return box
}

// alignedAxis returns the axis a vector lies along, if it lies along one.
func alignedAxis(v r3.Vector) (Axis, bool) {
	nonzero, axis := 0, X
	for a := X; a <= Z; a++ {
		if Component(v, a) != 0 {
			nonzero++
			axis = a
		}
	}
	return axis, nonzero == 1
}

// quadric is the axis-aligned region sum_i w[i] (p_i - c_i)^2 < k.
type quadric struct {
	center r3.Vector
	w      [3]float64
	k      float64
}

func (q *quadric) eval(p r3.Vector) float64 {
	s := p.Sub(q.center)
	return q.w[0]*s.X*s.X + q.w[1]*s.Y*s.Y + q.w[2]*s.Z*s.Z
}

func (q *quadric) contains(p r3.Vector) bool {
	return q.eval(p) < q.k
}

// distance solves for the intersection of the ray with the quadric's
// boundary. If both roots are positive the nearer is returned, otherwise the
// larger root is, so a pair of negative roots gives the less negative one.
func (q *quadric) distance(p, dir r3.Vector) float64 {
	s := p.Sub(q.center)
	a := q.w[0]*dir.X*dir.X + q.w[1]*dir.Y*dir.Y + q.w[2]*dir.Z*dir.Z
	b := 2 * (q.w[0]*s.X*dir.X + q.w[1]*s.Y*dir.Y + q.w[2]*s.Z*dir.Z)
	c := q.eval(p) - q.k

	if a == 0 {
		if b == 0 {
			return math.Inf(1)
		}
		return -c / b
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return math.Inf(1)
	}
	sq := math.Sqrt(disc)
	t1, t2 := (-b-sq)/(2*a), (-b+sq)/(2*a)

	if t1 > 0 && t2 > 0 {
		return math.Min(t1, t2)
	}
	return math.Max(t1, t2)
}

// Ellipsoid is the interior of an axis-aligned ellipsoid.
type Ellipsoid struct {
	Center  r3.Vector
	A, B, C float64
	q       quadric
}

// NewEllipsoid returns an ellipsoid with semi-axes a, b, c along x, y, z.
func NewEllipsoid(center r3.Vector, a, b, c float64) *Ellipsoid {
	return &Ellipsoid{
		Center: center, A: a, B: b, C: c,
		q: quadric{center: center, w: [3]float64{1 / (a * a), 1 / (b * b), 1 / (c * c)}, k: 1},
	}
}

func (*Ellipsoid) node()    {}
func (*Ellipsoid) surface() {}

func (s *Ellipsoid) Contains(p r3.Vector) bool { return s.q.contains(p) }

func (s *Ellipsoid) DistanceAlongLine(p, dir r3.Vector) float64 {
	return s.q.distance(p, dir)
}

func (s *Ellipsoid) BoundingBox() BoundingBox {
	r := r3.Vector{X: s.A, Y: s.B, Z: s.C}
	return BoundingBox{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Cylinder is the interior of an infinite elliptic cylinder along an axis.
// A and B are the semi-axes along the two perpendicular axes, taken in
// x, y, z order.
type Cylinder struct {
	Axis   Axis
	Center r3.Vector
	A, B   float64
	q      quadric
}

// NewCylinder returns a cylinder along the given axis.
func NewCylinder(axis Axis, center r3.Vector, a, b float64) *Cylinder {
	s := &Cylinder{Axis: axis, Center: center, A: a, B: b}
	i, j := axis.Perpendicular()
	s.q.center = center
	s.q.w[i], s.q.w[j] = 1/(a*a), 1/(b*b)
	s.q.k = 1
	return s
}

func (*Cylinder) node()    {}
func (*Cylinder) surface() {}

func (s *Cylinder) Contains(p r3.Vector) bool { return s.q.contains(p) }

func (s *Cylinder) DistanceAlongLine(p, dir r3.Vector) float64 {
	return s.q.distance(p, dir)
}

// BoundingBox is unbounded along the cylinder's axis.
func (s *Cylinder) BoundingBox() BoundingBox {
	box := InfiniteBox()
	i, j := s.Axis.Perpendicular()
	ci, cj := Component(s.Center, i), Component(s.Center, j)
	box.Min = WithComponent(WithComponent(box.Min, i, ci-s.A), j, cj-s.B)
	box.Max = WithComponent(WithComponent(box.Max, i, ci+s.A), j, cj+s.B)
	return box
}

// Cone is the interior of an infinite elliptic double cone along an axis:
// (u/A)^2 + (v/B)^2 - (w/C)^2 < 0, where w is the offset along the axis and
// u, v are the perpendicular offsets in x, y, z order.
type Cone struct {
	Axis    Axis
	Center  r3.Vector
	A, B, C float64
	q       quadric
}

// NewCone returns a cone with its apex at center.
func NewCone(axis Axis, center r3.Vector, a, b, c float64) *Cone {
	s := &Cone{Axis: axis, Center: center, A: a, B: b, C: c}
	i, j := axis.Perpendicular()
	s.q.center = center
	s.q.w[i], s.q.w[j] = 1/(a*a), 1/(b*b)
	s.q.w[axis] = -1 / (c * c)
	return s
}

func (*Cone) node()    {}
func (*Cone) surface() {}

func (s *Cone) Contains(p r3.Vector) bool { return s.q.contains(p) }

func (s *Cone) DistanceAlongLine(p, dir r3.Vector) float64 {
	return s.q.distance(p, dir)
}

func (s *Cone) BoundingBox() BoundingBox { return InfiniteBox() }
