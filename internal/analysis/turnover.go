package analysis

import (
	"gonum.org/v1/gonum/integrate"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/sim"
)

// Turnover integrates each process rate over a saved trajectory with the
// trapezoidal rule. The result is the cumulative extent of reaction per
// process in mol/L, in the rate's own reference units.
func Turnover(net *kinetics.Network, res *sim.Result) [kinetics.NumProcesses]float64 {
	var out [kinetics.NumProcesses]float64
	if res == nil || len(res.Times) < 2 {
		return out
	}

	series := make([][]float64, kinetics.NumProcesses)
	for p := range series {
		series[p] = make([]float64, len(res.Times))
	}
	for i, x := range res.States {
		r := net.Rates(x)
		for p := 0; p < kinetics.NumProcesses; p++ {
			series[p][i] = r[p]
		}
	}

	for p := 0; p < kinetics.NumProcesses; p++ {
		out[p] = integrate.Trapezoidal(res.Times, series[p])
	}
	return out
}
