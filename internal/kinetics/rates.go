package kinetics

import "github.com/limnolab/redoxsim/internal/reactor"

// Process identifiers, in redox cascade order.
const (
	Aerobic = iota
	Denitrification
	SulfateReduction
	Methanogenesis
	Methanotrophy
	Hydrogenotrophy

	NumProcesses
)

// ProcessNames holds the machine keys, indexed by process identifier.
var ProcessNames = [NumProcesses]string{
	"aerobic",
	"denitrification",
	"sulfate_reduction",
	"methanogenesis",
	"methanotrophy",
	"hydrogenotrophy",
}

// Monod returns the saturation factor c/(k+c). It is exactly zero at
// zero concentration and approaches one as c grows past k.
func Monod(c, k float64) float64 { return c / (k + c) }

// Inhibition returns the switching factor k/(k+c). It is exactly one
// at zero concentration and falls toward zero as c grows past k.
func Inhibition(c, k float64) float64 { return k / (k + c) }

// rates evaluates the six base process rates at state x.
func rates(p *Params, x reactor.State) [NumProcesses]float64 {
	var r [NumProcesses]float64
	r[Aerobic] = 0.25 * p.Aerobic.MuMax * x[reactor.Aerobes] *
		Monod(x[reactor.Acetate], p.Aerobic.KAcetate) *
		Monod(x[reactor.Oxygen], p.Aerobic.KOxygen)
	r[Denitrification] = p.Denitrification.MuMax * x[reactor.NitrateReducers] *
		Monod(x[reactor.Nitrate], p.Denitrification.KNitrate) *
		Monod(x[reactor.Acetate], p.Denitrification.KAcetate) *
		Inhibition(x[reactor.Oxygen], p.Denitrification.KOxygenInhibit)
	r[SulfateReduction] = p.SulfateReduction.MuMax * x[reactor.SulfateReducers] *
		Monod(x[reactor.Sulfate], p.SulfateReduction.KSulfate) *
		Monod(x[reactor.Acetate], p.SulfateReduction.KAcetate) *
		Inhibition(x[reactor.Oxygen], p.SulfateReduction.KOxygenInhibit)
	r[Methanogenesis] = 0.1 * p.Methanogenesis.MuMax * x[reactor.Methanogens] *
		Monod(x[reactor.Acetate], p.Methanogenesis.KAcetate) *
		Inhibition(x[reactor.Sulfate], p.Methanogenesis.KSulfateInhibit) *
		Inhibition(x[reactor.Oxygen], p.Methanogenesis.KOxygenInhibit)
	r[Methanotrophy] = 0.1 * p.Methanotrophy.MuMax * x[reactor.Methanotrophs] *
		Monod(x[reactor.Methane], p.Methanotrophy.KMethane) *
		Monod(x[reactor.Oxygen], p.Methanotrophy.KOxygen)
	r[Hydrogenotrophy] = 0.1 * p.Hydrogenotrophy.MuMax * x[reactor.Hydrogenotrophs] *
		Monod(x[reactor.Hydrogen], p.Hydrogenotrophy.KHydrogen) *
		Monod(x[reactor.CarbonDioxide], p.Hydrogenotrophy.KCarbonDioxide) *
		Inhibition(x[reactor.Sulfate], p.Hydrogenotrophy.KSulfateInhibit) *
		Inhibition(x[reactor.Nitrate], p.Hydrogenotrophy.KNitrateInhibit)
	return r
}

// Factor is one multiplicative piece of a process rate law.
type Factor struct {
	Label string
	Value float64
}

// factors lists the saturation and inhibition factors of one process
// at state x, in rate law order.
func factors(p *Params, proc int, x reactor.State) []Factor {
	switch proc {
	case Aerobic:
		return []Factor{
			{"sat(acetate)", Monod(x[reactor.Acetate], p.Aerobic.KAcetate)},
			{"sat(o2)", Monod(x[reactor.Oxygen], p.Aerobic.KOxygen)},
		}
	case Denitrification:
		return []Factor{
			{"sat(no3)", Monod(x[reactor.Nitrate], p.Denitrification.KNitrate)},
			{"sat(acetate)", Monod(x[reactor.Acetate], p.Denitrification.KAcetate)},
			{"inh(o2)", Inhibition(x[reactor.Oxygen], p.Denitrification.KOxygenInhibit)},
		}
	case SulfateReduction:
		return []Factor{
			{"sat(so4)", Monod(x[reactor.Sulfate], p.SulfateReduction.KSulfate)},
			{"sat(acetate)", Monod(x[reactor.Acetate], p.SulfateReduction.KAcetate)},
			{"inh(o2)", Inhibition(x[reactor.Oxygen], p.SulfateReduction.KOxygenInhibit)},
		}
	case Methanogenesis:
		return []Factor{
			{"sat(acetate)", Monod(x[reactor.Acetate], p.Methanogenesis.KAcetate)},
			{"inh(so4)", Inhibition(x[reactor.Sulfate], p.Methanogenesis.KSulfateInhibit)},
			{"inh(o2)", Inhibition(x[reactor.Oxygen], p.Methanogenesis.KOxygenInhibit)},
		}
	case Methanotrophy:
		return []Factor{
			{"sat(ch4)", Monod(x[reactor.Methane], p.Methanotrophy.KMethane)},
			{"sat(o2)", Monod(x[reactor.Oxygen], p.Methanotrophy.KOxygen)},
		}
	case Hydrogenotrophy:
		return []Factor{
			{"sat(h2)", Monod(x[reactor.Hydrogen], p.Hydrogenotrophy.KHydrogen)},
			{"sat(co2)", Monod(x[reactor.CarbonDioxide], p.Hydrogenotrophy.KCarbonDioxide)},
			{"inh(so4)", Inhibition(x[reactor.Sulfate], p.Hydrogenotrophy.KSulfateInhibit)},
			{"inh(no3)", Inhibition(x[reactor.Nitrate], p.Hydrogenotrophy.KNitrateInhibit)},
		}
	}
	return nil
}
