package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 3D grid of cells spanning a bounding box. Every cell holds Stride
// consecutive values.
type Grid struct {
	Box    BoundingBox
	Res    [3]int
	Stride int

	Length, Area, Volume int
	step                 [3]float64
}

// NewGrid returns a new Grid instance.
func NewGrid(box BoundingBox, res [3]int, stride int) *Grid {
	g := &Grid{}
	g.Init(box, res, stride)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(box BoundingBox, res [3]int, stride int) {
	g.Box = box
	g.Res = res
	g.Stride = stride

	g.Length = res[0] * stride
	g.Area = res[0] * res[1] * stride
	g.Volume = res[0] * res[1] * res[2]

	size := Array(box.Size())
	for i := 0; i < 3; i++ {
		g.step[i] = size[i] / float64(res[i])
	}
}

// Step returns the edge lengths of a single cell.
func (g *Grid) Step() r3.Vector { return Vec(g.step) }

// Idx returns the index of the first value of the cell at the given
// coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return z*g.Area + y*g.Length + x*g.Stride
}

// IdxCheck returns an index and true if the given coordinate are valid and
// false otherwise.
func (g *Grid) IdxCheck(x, y, z int) (idx int, ok bool) {
	if !g.BoundsCheck(x, y, z) {
		return -1, false
	}
	return g.Idx(x, y, z), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y, z int) bool {
	return (0 <= x && 0 <= y && 0 <= z) &&
		(x < g.Res[0] && y < g.Res[1] && z < g.Res[2])
}

// Coords returns the x, y, z coordinates of a cell from the index of its
// first value.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = (idx % g.Length) / g.Stride
	y = (idx % g.Area) / g.Length
	z = idx / g.Area
	return x, y, z
}

// Cell returns the coordinates of the cell containing p and true, or false
// if p lies outside the grid. Points on the upper faces belong to the last
// cell.
func (g *Grid) Cell(p r3.Vector) (x, y, z int, ok bool) {
	if !g.Box.Contains(p) {
		return -1, -1, -1, false
	}
	offset := Array(p.Sub(g.Box.Min))
	var c [3]int
	for i := 0; i < 3; i++ {
		c[i] = int(math.Floor(offset[i] / g.step[i]))
		if c[i] >= g.Res[i] {
			c[i] = g.Res[i] - 1
		}
	}
	return c[0], c[1], c[2], true
}

// Center returns the center of the cell at the given coordinates.
func (g *Grid) Center(x, y, z int) r3.Vector {
	return r3.Vector{
		X: g.Box.Min.X + (float64(x)+0.5)*g.step[0],
		Y: g.Box.Min.Y + (float64(y)+0.5)*g.step[1],
		Z: g.Box.Min.Z + (float64(z)+0.5)*g.step[2],
	}
}

// Plane returns the position of the i-th cell boundary along an axis.
func (g *Grid) Plane(axis Axis, i int) float64 {
	return Component(g.Box.Min, axis) + float64(i)*g.step[axis]
}
