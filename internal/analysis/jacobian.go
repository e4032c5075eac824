package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/limnolab/redoxsim/internal/reactor"
)

// fdStep picks a central-difference step scaled to the component magnitude.
func fdStep(v float64) float64 {
	h := 1e-7 * math.Abs(v)
	if h < 1e-12 {
		h = 1e-12
	}
	return h
}

// Jacobian estimates the Jacobian of the rate field at state x and time t
// using central differences. Entry (i, j) is the sensitivity of dx_i/dt to
// a perturbation of channel j.
func Jacobian(sys reactor.System, x reactor.State, t float64) *mat.Dense {
	n := sys.Dim()
	jac := mat.NewDense(n, n, nil)

	xp := x.Clone()
	for col := 0; col < n; col++ {
		h := fdStep(x[col])

		xp[col] = x[col] + h
		fp := sys.Derive(xp, t)
		xp[col] = x[col] - h
		fm := sys.Derive(xp, t)
		xp[col] = x[col]

		for row := 0; row < n; row++ {
			jac.Set(row, col, (fp[row]-fm[row])/(2*h))
		}
	}
	return jac
}
