package analysis

import (
	"context"
	"fmt"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
)

// depletionFrac is the threshold fraction behind the sweep depletion
// metrics: a substrate counts as depleted once it falls to five percent
// of its initial concentration.
const depletionFrac = 0.05

// SweepPoint holds the outcome metrics for one value of the swept
// constant. Depletion times are in days; the paired flags are false when
// the channel never crossed the threshold within the horizon.
type SweepPoint struct {
	Value float64

	FinalMethane float64
	FinalAcetate float64

	OxygenDepletion  float64
	OxygenDepleted   bool
	SulfateDepletion float64
	SulfateDepleted  bool

	Err error
}

// Sweep integrates the network once per value of the kinetic constant at
// path, holding everything else fixed, and collects outcome metrics per
// run. A value that fails parameter validation carries its error in the
// point instead of metrics. The base parameter set is not modified.
func Sweep(ctx context.Context, base kinetics.Params, path string, values []float64, x0 reactor.State, cfg sim.Config) ([]SweepPoint, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("analysis: sweep of %s: no values", path)
	}

	variants := make([]sim.Variant, len(values))
	for i, v := range values {
		p := base
		if err := p.Set(path, v); err != nil {
			return nil, err
		}
		variants[i] = sim.Variant{
			Name:   fmt.Sprintf("%s=%g", path, v),
			Params: p,
		}
	}

	points := make([]SweepPoint, len(values))
	for i, vr := range sim.RunVariants(ctx, variants, x0, cfg) {
		pt := SweepPoint{Value: values[i], Err: vr.Err}
		if vr.Result != nil && len(vr.Result.States) > 0 {
			final := vr.Result.Final()
			pt.FinalMethane = final[reactor.Methane]
			pt.FinalAcetate = final[reactor.Acetate]
			pt.OxygenDepletion, pt.OxygenDepleted = DepletionTime(vr.Result, reactor.Oxygen, depletionFrac)
			pt.SulfateDepletion, pt.SulfateDepleted = DepletionTime(vr.Result, reactor.Sulfate, depletionFrac)
		}
		points[i] = pt
	}
	return points, nil
}
