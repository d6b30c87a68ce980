/*package geom contains the geometric primitives of the simulation: vectors,
axis-aligned bounding boxes, quadric surfaces, constructive solid geometry
trees, direction sampling and uniform cell grids.

Positions are in cm and directions are unit vectors. All vectors are
r3.Vector values.
*/
package geom

import (
	"github.com/golang/geo/r3"
)

// Axis names one of the three coordinate axes.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return "invalid"
}

// Perpendicular returns the two axes perpendicular to a in increasing order.
func (a Axis) Perpendicular() (Axis, Axis) {
	switch a {
	case X:
		return Y, Z
	case Y:
		return X, Z
	}
	return X, Y
}

// Rand is a source of uniform deviates in [0, 1).
type Rand interface {
	Float64() float64
}

// Component returns the component of v along the given axis.
func Component(v r3.Vector, axis Axis) float64 {
	switch axis {
	case X:
		return v.X
	case Y:
		return v.Y
	}
	return v.Z
}

// WithComponent returns a copy of v with the given component replaced.
func WithComponent(v r3.Vector, axis Axis, x float64) r3.Vector {
	switch axis {
	case X:
		v.X = x
	case Y:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}

// Vec creates a vector from an array of components.
func Vec(xs [3]float64) r3.Vector {
	return r3.Vector{X: xs[0], Y: xs[1], Z: xs[2]}
}

// Array returns the components of v as an array.
func Array(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
