package plot

import (
	"fmt"
	"image/color"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/projector/geom"
	"github.com/phil-mansfield/projector/particle"
	"github.com/phil-mansfield/projector/tally"
)

// Project returns the coordinates of a particle's track along the two axes
// spanning the plane perpendicular to axis.
func Project(p *particle.Particle, axis geom.Axis) (xs, ys []float64) {
	a0, a1 := axis.Perpendicular()
	xs = make([]float64, len(p.History.Points))
	ys = make([]float64, len(p.History.Points))
	for i, pt := range p.History.Points {
		xs[i], ys[i] = geom.Component(pt, a0), geom.Component(pt, a1)
	}
	return xs, ys
}

// Profile sums the slot-th value of a mesh tally over every cell with the
// same index along axis. xs are the cell centers along axis.
func Profile(t *tally.UniformMesh, axis geom.Axis, slot int) (xs, ys []float64) {
	g := t.Grid()
	n := g.Res[axis]
	xs, ys = make([]float64, n), make([]float64, n)
	for z := 0; z < g.Res[2]; z++ {
		for y := 0; y < g.Res[1]; y++ {
			for x := 0; x < g.Res[0]; x++ {
				i := [3]int{x, y, z}[axis]
				ys[i] += t.Value(x, y, z, slot)
			}
		}
	}
	for i := range xs {
		c := [3]int{}
		c[axis] = i
		xs[i] = geom.Component(g.Center(c[0], c[1], c[2]), axis)
	}
	return xs, ys
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Tracks adds a figure of up to maxTracks particle tracks, projected along
// axis, to the pending matplotlib script. plt.Execute must be called to
// render it.
func Tracks(ps []*particle.Particle, axis geom.Axis, maxTracks int, fname string) {
	if maxTracks > len(ps) || maxTracks <= 0 {
		maxTracks = len(ps)
	}

	plt.Figure(plt.FigSize(8, 8))
	for i, p := range ps[:maxTracks] {
		xs, ys := Project(p, axis)
		plt.Plot(xs, ys, plt.LW(1), plt.C(hex(ObjectColor(i))))
	}

	a0, a1 := axis.Perpendicular()
	plt.Title(fmt.Sprintf("%d photon tracks", maxTracks))
	plt.XLabel(fmt.Sprintf("$%s$ [cm]", a0), plt.FontSize(16))
	plt.YLabel(fmt.Sprintf("$%s$ [cm]", a1), plt.FontSize(16))
	plt.SaveFig(fname)
}

// TallyProfile adds a figure of a mesh tally's Profile to the pending
// matplotlib script.
func TallyProfile(t *tally.UniformMesh, axis geom.Axis, slot int, fname string) {
	xs, ys := Profile(t, axis, slot)

	plt.Figure()
	plt.Plot(xs, ys, "k", plt.LW(2))

	positive := len(ys) > 0
	for _, y := range ys {
		if y <= 0 {
			positive = false
			break
		}
	}
	if positive {
		plt.YScale("log")
	}

	plt.Title(fmt.Sprintf("%s: %s", t.ID(), t.Score()))
	plt.XLabel(fmt.Sprintf("$%s$ [cm]", axis), plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.Grid(plt.Axis("x"), plt.Which("both"))
	plt.SaveFig(fname)
}
