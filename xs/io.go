package xs

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/phil-mansfield/table"
)

// Library directories are plain whitespace-separated text tables:
//
//	weights.txt   Z  atomic_weight
//	xs_ZZZ.txt    E  coherent  incoherent  photoelectric  pair_production
//	iff_ZZZ.txt   x  S(x)
//	cff_ZZZ.txt   x  cumulative  differential
//
// where ZZZ is the zero-padded atomic number. Elements listed in
// weights.txt without an xs file are skipped.
const (
	WeightsFile = "weights.txt"
)

// CrossSectionFile returns the name of the cross-section table of element z.
func CrossSectionFile(z int) string { return fmt.Sprintf("xs_%03d.txt", z) }

// IncoherentFile returns the name of the incoherent form factor table of
// element z.
func IncoherentFile(z int) string { return fmt.Sprintf("iff_%03d.txt", z) }

// CoherentFile returns the name of the coherent form factor table of
// element z.
func CoherentFile(z int) string { return fmt.Sprintf("cff_%03d.txt", z) }

// ReadLibrary loads every element found in the given directory.
func ReadLibrary(dir string) (*Library, error) {
	cols, err := table.ReadTable(path.Join(dir, WeightsFile), []int{0, 1}, nil)
	if err != nil {
		return nil, err
	}

	lib := &Library{}
	zs, weights := cols[0], cols[1]
	for i := range zs {
		z := int(zs[i])
		if _, err := os.Stat(path.Join(dir, CrossSectionFile(z))); os.IsNotExist(err) {
			continue
		}

		el, err := ReadElement(dir, z, weights[i])
		if err != nil {
			return nil, err
		}
		lib.Set(el)
	}

	return lib, nil
}

// ReadElement loads the tables of a single element.
func ReadElement(dir string, z int, weight float64) (*Element, error) {
	t := Tables{}

	xsCols, err := table.ReadTable(
		path.Join(dir, CrossSectionFile(z)), []int{0, 1, 2, 3, 4}, nil,
	)
	if err != nil {
		return nil, err
	}
	t.Energy = xsCols[0]
	copy(t.CrossSections[:], xsCols[1:])

	iffCols, err := table.ReadTable(path.Join(dir, IncoherentFile(z)), []int{0, 1}, nil)
	if err != nil {
		return nil, err
	}
	t.IncoherentX, t.IncoherentFF = iffCols[0], iffCols[1]

	cffCols, err := table.ReadTable(path.Join(dir, CoherentFile(z)), []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}
	t.CoherentX, t.CumulativeFF, t.DifferentialFF = cffCols[0], cffCols[1], cffCols[2]

	return NewElement(z, weight, t)
}

// WriteLibrary writes every element of a library to dir in the format read
// by ReadLibrary.
func WriteLibrary(dir string, lib *Library) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	zs := lib.AtomicNumbers()
	weights := make([][]float64, len(zs))
	for i, z := range zs {
		el, _ := lib.Element(z)
		weights[i] = []float64{float64(z), el.AtomicWeight}

		if err := writeElement(dir, el); err != nil {
			return err
		}
	}
	return writeRows(path.Join(dir, WeightsFile), weights)
}

func writeElement(dir string, el *Element) error {
	rows := make([][]float64, len(el.Energy))
	for i := range rows {
		rows[i] = []float64{
			el.Energy[i], el.CrossSections[0][i], el.CrossSections[1][i],
			el.CrossSections[2][i], el.CrossSections[3][i],
		}
	}
	if err := writeRows(path.Join(dir, CrossSectionFile(el.Z)), rows); err != nil {
		return err
	}

	rows = make([][]float64, len(el.IncoherentX))
	for i := range rows {
		rows[i] = []float64{el.IncoherentX[i], el.IncoherentFF[i]}
	}
	if err := writeRows(path.Join(dir, IncoherentFile(el.Z)), rows); err != nil {
		return err
	}

	rows = make([][]float64, len(el.CoherentX))
	for i := range rows {
		rows[i] = []float64{el.CoherentX[i], el.CumulativeFF[i], el.DifferentialFF[i]}
	}
	return writeRows(path.Join(dir, CoherentFile(el.Z)), rows)
}

func writeRows(fname string, rows [][]float64) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, row := range rows {
		for j, x := range row {
			if j > 0 {
				w.WriteString(" ")
			}
			w.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
		w.WriteString("\n")
	}
	return w.Flush()
}
