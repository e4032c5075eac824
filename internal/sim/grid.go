package sim

import "gonum.org/v1/gonum/floats"

// UniformGrid returns n sample times evenly spaced over
// [start, start+horizon], endpoints included.
func UniformGrid(start, horizon float64, n int) []float64 {
	if n < 2 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, start+horizon)
}
