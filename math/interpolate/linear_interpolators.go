package interpolate

// Linear is a piecewise linear interpolator which clamps to its end values
// outside the range of its knots.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear creates a linear interpolator for a sequence of non-decreasing
// or non-increasing points, xs, which take on the values given by vals.
//
// Lookups occur in O(log |xs|).
func NewLinear(xs, vals []float64) *Linear {
	if len(xs) != len(vals) {
		panic("Length of input slices are not equal.")
	}
	lin := &Linear{}
	lin.xs.init(xs)
	lin.vals = vals
	return lin
}

// Eval returns the interpolated value at x. Points before the first knot
// evaluate to the first value and points after the last knot to the last.
func (lin *Linear) Eval(x float64) float64 {
	if lin.xs.below(x) {
		return lin.vals[0]
	} else if lin.xs.above(x) {
		return lin.vals[len(lin.vals)-1]
	}

	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]

	if x1 == x2 {
		return v1
	}
	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

// EvalAll evaluates the interpolator at all the given x values. If an output
// array is given, the output is written to that array (the array is still
// returned as a convenience).
//
// If more than one output array is provided, only the first is used.
func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		out[0][i] = lin.Eval(x)
	}
	return out[0]
}

// Range returns the first and last knots.
func (lin *Linear) Range() (lo, hi float64) {
	return lin.xs.val(0), lin.xs.val(len(lin.xs.xs) - 1)
}
