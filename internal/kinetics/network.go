package kinetics

import "github.com/limnolab/redoxsim/internal/reactor"

// Term is one stoichiometric entry: the signed yield of a channel per
// unit of process rate.
type Term struct {
	Channel int
	Coeff   float64
}

// stoichiometry maps each process to its channel yields. The
// coefficients are the published electron balance for acetate-fed
// sediment columns and must be changed together, never per entry.
var stoichiometry = [NumProcesses][]Term{
	Aerobic: {
		{reactor.Acetate, -0.417},
		{reactor.Oxygen, -0.5},
		{reactor.Aerobes, 0.067},
		{reactor.DIC, 0.5},
	},
	Denitrification: {
		{reactor.Nitrate, -0.090},
		{reactor.Acetate, -0.125},
		{reactor.Nitrogen, 0.045},
		{reactor.NitrateReducers, 0.0275},
		{reactor.DIC, 0.1125},
	},
	SulfateReduction: {
		{reactor.Sulfate, -0.125},
		{reactor.Acetate, -0.13525},
		{reactor.SulfateReducers, 0.004375},
		{reactor.DIC, 0.25},
	},
	Methanogenesis: {
		{reactor.Acetate, -1.0},
		{reactor.Methane, 1.0},
		{reactor.Methanogens, 0.1},
		{reactor.DIC, 1.0},
	},
	Methanotrophy: {
		{reactor.Methane, -1.0},
		{reactor.Methanotrophs, 0.1},
	},
	Hydrogenotrophy: {
		{reactor.Hydrogen, -4.0},
		{reactor.CarbonDioxide, -1.0},
		{reactor.Methane, 1.0},
		{reactor.Hydrogenotrophs, 0.1},
	},
}

// Stoichiometry returns a copy of the yield table of one process.
func Stoichiometry(proc int) []Term {
	terms := make([]Term, len(stoichiometry[proc]))
	copy(terms, stoichiometry[proc])
	return terms
}

// Network wires the rate laws and the stoichiometry into a single ODE
// system over the reactor channels.
type Network struct {
	params Params
}

// New builds a network after validating p. The parameter set is
// copied, so mutating p afterwards does not affect the network.
func New(p Params) (*Network, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Network{params: p}, nil
}

func (n *Network) Dim() int { return reactor.NumChannels }

// Params returns a copy of the network's parameter set.
func (n *Network) Params() Params { return n.params }

// Rates evaluates the six base process rates at state x.
func (n *Network) Rates(x reactor.State) [NumProcesses]float64 {
	return rates(&n.params, x)
}

// Factors lists the saturation and inhibition factors of one process
// at state x.
func (n *Network) Factors(proc int, x reactor.State) []Factor {
	return factors(&n.params, proc, x)
}

// Contribution returns the share of a single process in dX/dt at x.
func (n *Network) Contribution(proc int, x reactor.State) reactor.State {
	dx := make(reactor.State, reactor.NumChannels)
	r := rates(&n.params, x)[proc]
	for _, tm := range stoichiometry[proc] {
		dx[tm.Channel] += tm.Coeff * r
	}
	return dx
}

// Derive implements [reactor.System]: the contribution of every
// process summed channel by channel.
func (n *Network) Derive(x reactor.State, _ float64) reactor.State {
	dx := make(reactor.State, reactor.NumChannels)
	r := rates(&n.params, x)
	for proc := range stoichiometry {
		for _, tm := range stoichiometry[proc] {
			dx[tm.Channel] += tm.Coeff * r[proc]
		}
	}
	return dx
}
