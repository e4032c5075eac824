package reactor

import "math"

// State is a point in concentration space, indexed by the channel
// constants.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an autonomous reaction network. Derive evaluates dX/dt at
// state x and time t; it must not mutate x and must not keep a
// reference to it.
type System interface {
	Derive(x State, t float64) State
	Dim() int
}
