package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/limnolab/redoxsim/internal/reactor"
)

// ErrEigenFailed reports that the eigenvalue factorization did not converge.
var ErrEigenFailed = errors.New("analysis: eigenvalue factorization failed")

// relEigenFloor is the fraction of the fastest timescale below which an
// eigenvalue is treated as numerically zero. The network couples six
// processes across fifteen channels, so most eigenvalues are exact zeros
// smeared by finite-difference noise.
const relEigenFloor = 1e-6

// StiffnessReport summarizes the timescale spread of the Jacobian at one
// state. Fastest and Slowest are the extreme nonzero |Re lambda| in 1/day;
// Ratio is their quotient.
type StiffnessReport struct {
	Eigenvalues []complex128
	Fastest     float64
	Slowest     float64
	Ratio       float64
}

// Stiffness factorizes the Jacobian at (x, t) and reports the spread of
// decay timescales. A large ratio marks a stiff network where the step
// controller resolves the fastest process while the slowest sets the
// horizon.
func Stiffness(sys reactor.System, x reactor.State, t float64) (*StiffnessReport, error) {
	jac := Jacobian(sys, x, t)

	var eig mat.Eigen
	if ok := eig.Factorize(jac, mat.EigenNone); !ok {
		return nil, ErrEigenFailed
	}

	rep := &StiffnessReport{Eigenvalues: eig.Values(nil)}
	for _, ev := range rep.Eigenvalues {
		if re := math.Abs(real(ev)); re > rep.Fastest {
			rep.Fastest = re
		}
	}
	floor := relEigenFloor * rep.Fastest
	for _, ev := range rep.Eigenvalues {
		re := math.Abs(real(ev))
		if re <= floor {
			continue
		}
		if rep.Slowest == 0 || re < rep.Slowest {
			rep.Slowest = re
		}
	}
	if rep.Slowest > 0 {
		rep.Ratio = rep.Fastest / rep.Slowest
	}
	return rep, nil
}
