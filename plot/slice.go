/*Package plot draws cross sections of simulation geometry and writes
matplotlib scripts for particle tracks and tally profiles.
*/
package plot

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/golang/geo/r3"
	"golang.org/x/image/colornames"

	"github.com/phil-mansfield/projector"
	"github.com/phil-mansfield/projector/geom"
)

const (
	// SliceHeader is the first line of a slice table.
	SliceHeader = "x,y,z,material,object"

	voidMaterial = "void"
	noObject     = "no_object"
)

// Slice is a grid of points on an axis-aligned plane through the simulation
// domain together with the object found at each point.
type Slice struct {
	Axis   geom.Axis
	Center float64
	// Width and Height are the number of pixels along the two in-plane
	// axes, in x, y, z order.
	Width, Height int

	// Points and Objects are stored row by row. Objects holds -1 for
	// points in vacuum.
	Points  []r3.Vector
	Objects []int

	ctx *projector.SimulationContext
}

// NewSlice samples the pixel centers of a width x height grid covering the
// domain on the plane where the axis coordinate equals center.
func NewSlice(
	ctx *projector.SimulationContext, axis geom.Axis,
	center float64, width, height int,
) (*Slice, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("slice resolution %d x %d is not positive", width, height)
	}
	dom := ctx.Domain
	lo, hi := geom.Component(dom.Min, axis), geom.Component(dom.Max, axis)
	if center < lo || center > hi {
		return nil, fmt.Errorf(
			"slice at %s = %g is outside the domain [%g, %g]", axis, center, lo, hi,
		)
	}

	a0, a1 := axis.Perpendicular()
	min0, min1 := geom.Component(dom.Min, a0), geom.Component(dom.Min, a1)
	step0 := (geom.Component(dom.Max, a0) - min0) / float64(width)
	step1 := (geom.Component(dom.Max, a1) - min1) / float64(height)

	s := &Slice{
		Axis: axis, Center: center, Width: width, Height: height,
		Points:  make([]r3.Vector, width*height),
		Objects: make([]int, width*height),
		ctx:     ctx,
	}
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			p := geom.WithComponent(r3.Vector{}, axis, center)
			p = geom.WithComponent(p, a0, min0+(float64(i)+0.5)*step0)
			p = geom.WithComponent(p, a1, min1+(float64(j)+0.5)*step1)

			idx := i + j*width
			s.Points[idx] = p
			s.Objects[idx] = ctx.FindObject(p)
		}
	}
	return s, nil
}

// WriteTable writes one line per pixel giving its position and the material
// and object names found there.
func (s *Slice) WriteTable(w io.Writer) error {
	buf := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(buf, SliceHeader); err != nil {
		return err
	}
	for i, p := range s.Points {
		mat, obj := voidMaterial, noObject
		if idx := s.Objects[i]; idx >= 0 {
			o := s.ctx.Objects[idx]
			mat, obj = o.MaterialName, o.Name
		}
		_, err := fmt.Fprintf(buf, "%g,%g,%g,%s,%s\n", p.X, p.Y, p.Z, mat, obj)
		if err != nil {
			return err
		}
	}
	return buf.Flush()
}

var palette = []color.RGBA{
	colornames.Steelblue, colornames.Firebrick, colornames.Gold,
	colornames.Seagreen, colornames.Darkorange, colornames.Mediumpurple,
	colornames.Slategray, colornames.Tan, colornames.Orchid, colornames.Teal,
}

// ObjectColor returns the color used for object i. Vacuum is black.
func ObjectColor(i int) color.RGBA {
	if i < 0 {
		return colornames.Black
	}
	return palette[i%len(palette)]
}

// Image renders the slice with one color per object. The first in-plane
// axis runs left to right and the second bottom to top.
func (s *Slice) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for j := 0; j < s.Height; j++ {
		for i := 0; i < s.Width; i++ {
			img.SetRGBA(i, s.Height-1-j, ObjectColor(s.Objects[i+j*s.Width]))
		}
	}
	return img
}

// WritePNG encodes Image as a PNG.
func (s *Slice) WritePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}
