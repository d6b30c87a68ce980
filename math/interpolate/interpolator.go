package interpolate

// Interpolator is a one-dimensional function defined by a table of knots.
type Interpolator interface {
	Eval(x float64) float64
	EvalAll(xs []float64, out ...[]float64) []float64
}

var _ Interpolator = &Linear{}
