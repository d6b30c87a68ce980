package particle

import (
	"bufio"
	"fmt"
	"io"
)

// TrackHeader is the header line of a track table.
const TrackHeader = "x,y,z,energy,interaction,element"

// WriteTrack writes the particle's history as comma-separated rows.
func (p *Particle) WriteTrack(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, TrackHeader)
	h := &p.History
	for i := 0; i < h.Len(); i++ {
		pt := h.Points[i]
		fmt.Fprintf(
			bw, "%g,%g,%g,%g,%s,%d\n",
			pt.X, pt.Y, pt.Z, h.Energies[i], h.Interactions[i], h.Elements[i],
		)
	}
	return bw.Flush()
}
