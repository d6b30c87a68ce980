package interpolate

// searcher finds the bracketing interval of a monotone sequence of knots.
type searcher struct {
	xs   []float64
	incr bool
}

func (s *searcher) init(xs []float64) {
	if len(xs) < 2 {
		panic("Interpolation tables need at least two knots.")
	}
	s.xs = xs
	s.incr = xs[len(xs)-1] >= xs[0]
}

func (s *searcher) val(i int) float64 { return s.xs[i] }

// below returns true if x lies before the first knot in the search direction.
func (s *searcher) below(x float64) bool {
	if s.incr {
		return x <= s.xs[0]
	}
	return x >= s.xs[0]
}

// above returns true if x lies after the last knot in the search direction.
func (s *searcher) above(x float64) bool {
	n := len(s.xs) - 1
	if s.incr {
		return x >= s.xs[n]
	}
	return x <= s.xs[n]
}

// search returns the index i such that x lies in [xs[i], xs[i+1]]. x must
// already be known to lie strictly inside the table.
func (s *searcher) search(x float64) int {
	lo, hi := 0, len(s.xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if (s.xs[mid] <= x) == s.incr {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
