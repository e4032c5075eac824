package kinetics

import (
	"errors"
	"math"

	"github.com/limnolab/redoxsim/internal/reactor"
)

// ErrUnknownParameter indicates a dotted parameter path that does not
// exist in the parameter set.
var ErrUnknownParameter = errors.New("kinetics: unknown parameter")

// Parameter groups, one per process. Constants that appear in more
// than one rate law (oxygen and sulfate inhibition) are duplicated per
// group so each process can be tuned independently.

type AerobicParams struct {
	MuMax    float64 `yaml:"mu_max"`
	KAcetate float64 `yaml:"k_acetate"`
	KOxygen  float64 `yaml:"k_oxygen"`
}

type DenitrificationParams struct {
	MuMax          float64 `yaml:"mu_max"`
	KNitrate       float64 `yaml:"k_nitrate"`
	KAcetate       float64 `yaml:"k_acetate"`
	KOxygenInhibit float64 `yaml:"k_oxygen_inhibit"`
}

type SulfateReductionParams struct {
	MuMax          float64 `yaml:"mu_max"`
	KSulfate       float64 `yaml:"k_sulfate"`
	KAcetate       float64 `yaml:"k_acetate"`
	KOxygenInhibit float64 `yaml:"k_oxygen_inhibit"`
}

type MethanogenesisParams struct {
	MuMax           float64 `yaml:"mu_max"`
	KAcetate        float64 `yaml:"k_acetate"`
	KSulfateInhibit float64 `yaml:"k_sulfate_inhibit"`
	KOxygenInhibit  float64 `yaml:"k_oxygen_inhibit"`
}

type MethanotrophyParams struct {
	MuMax    float64 `yaml:"mu_max"`
	KMethane float64 `yaml:"k_methane"`
	KOxygen  float64 `yaml:"k_oxygen"`
}

type HydrogenotrophyParams struct {
	MuMax           float64 `yaml:"mu_max"`
	KHydrogen       float64 `yaml:"k_hydrogen"`
	KCarbonDioxide  float64 `yaml:"k_co2"`
	KSulfateInhibit float64 `yaml:"k_sulfate_inhibit"`
	KNitrateInhibit float64 `yaml:"k_nitrate_inhibit"`
}

// Params is the full kinetic parameter set. Networks copy it at
// construction, so a Params value can be reused and mutated freely
// between runs.
type Params struct {
	Aerobic          AerobicParams          `yaml:"aerobic"`
	Denitrification  DenitrificationParams  `yaml:"denitrification"`
	SulfateReduction SulfateReductionParams `yaml:"sulfate_reduction"`
	Methanogenesis   MethanogenesisParams   `yaml:"methanogenesis"`
	Methanotrophy    MethanotrophyParams    `yaml:"methanotrophy"`
	Hydrogenotrophy  HydrogenotrophyParams  `yaml:"hydrogenotrophy"`
}

// Default returns the reference parameter set for an organic-rich
// freshwater sediment column. Maximum rates are 1/day, constants are
// mol/L.
func Default() Params {
	return Params{
		Aerobic: AerobicParams{
			MuMax:    60,
			KAcetate: 5e-4,
			KOxygen:  2e-5,
		},
		Denitrification: DenitrificationParams{
			MuMax:          25,
			KNitrate:       8e-5,
			KAcetate:       5e-4,
			KOxygenInhibit: 1e-6,
		},
		SulfateReduction: SulfateReductionParams{
			MuMax:          35,
			KSulfate:       2e-4,
			KAcetate:       5e-4,
			KOxygenInhibit: 1e-6,
		},
		Methanogenesis: MethanogenesisParams{
			MuMax:           70,
			KAcetate:        3e-4,
			KSulfateInhibit: 1e-5,
			KOxygenInhibit:  1e-6,
		},
		Methanotrophy: MethanotrophyParams{
			MuMax:    20,
			KMethane: 1e-5,
			KOxygen:  2e-5,
		},
		Hydrogenotrophy: HydrogenotrophyParams{
			MuMax:           50,
			KHydrogen:       1e-5,
			KCarbonDioxide:  5e-5,
			KSulfateInhibit: 1e-5,
			KNitrateInhibit: 1e-5,
		},
	}
}

type paramField struct {
	path string
	v    *float64
	rate bool // maximum rate: zero switches the process off
}

func (p *Params) fields() []paramField {
	return []paramField{
		{"aerobic.mu_max", &p.Aerobic.MuMax, true},
		{"aerobic.k_acetate", &p.Aerobic.KAcetate, false},
		{"aerobic.k_oxygen", &p.Aerobic.KOxygen, false},
		{"denitrification.mu_max", &p.Denitrification.MuMax, true},
		{"denitrification.k_nitrate", &p.Denitrification.KNitrate, false},
		{"denitrification.k_acetate", &p.Denitrification.KAcetate, false},
		{"denitrification.k_oxygen_inhibit", &p.Denitrification.KOxygenInhibit, false},
		{"sulfate_reduction.mu_max", &p.SulfateReduction.MuMax, true},
		{"sulfate_reduction.k_sulfate", &p.SulfateReduction.KSulfate, false},
		{"sulfate_reduction.k_acetate", &p.SulfateReduction.KAcetate, false},
		{"sulfate_reduction.k_oxygen_inhibit", &p.SulfateReduction.KOxygenInhibit, false},
		{"methanogenesis.mu_max", &p.Methanogenesis.MuMax, true},
		{"methanogenesis.k_acetate", &p.Methanogenesis.KAcetate, false},
		{"methanogenesis.k_sulfate_inhibit", &p.Methanogenesis.KSulfateInhibit, false},
		{"methanogenesis.k_oxygen_inhibit", &p.Methanogenesis.KOxygenInhibit, false},
		{"methanotrophy.mu_max", &p.Methanotrophy.MuMax, true},
		{"methanotrophy.k_methane", &p.Methanotrophy.KMethane, false},
		{"methanotrophy.k_oxygen", &p.Methanotrophy.KOxygen, false},
		{"hydrogenotrophy.mu_max", &p.Hydrogenotrophy.MuMax, true},
		{"hydrogenotrophy.k_hydrogen", &p.Hydrogenotrophy.KHydrogen, false},
		{"hydrogenotrophy.k_co2", &p.Hydrogenotrophy.KCarbonDioxide, false},
		{"hydrogenotrophy.k_sulfate_inhibit", &p.Hydrogenotrophy.KSulfateInhibit, false},
		{"hydrogenotrophy.k_nitrate_inhibit", &p.Hydrogenotrophy.KNitrateInhibit, false},
	}
}

// Validate checks every parameter. Maximum rates may be zero, which
// switches the process off; saturation and inhibition constants must
// be strictly positive so the rate factors stay defined at zero
// concentration.
func (p Params) Validate() error {
	for _, f := range p.fields() {
		v := *f.v
		finite := !math.IsNaN(v) && !math.IsInf(v, 0)
		if f.rate {
			if !finite || v < 0 {
				return &reactor.ConfigError{Field: f.path, Value: v, Reason: reactor.ErrRateNegative}
			}
			continue
		}
		if !finite || v <= 0 {
			return &reactor.ConfigError{Field: f.path, Value: v, Reason: reactor.ErrConstantNotPositive}
		}
	}
	return nil
}

// Get returns the parameter at a dotted path such as
// "methanogenesis.k_sulfate_inhibit".
func (p *Params) Get(path string) (float64, bool) {
	for _, f := range p.fields() {
		if f.path == path {
			return *f.v, true
		}
	}
	return 0, false
}

// Set assigns the parameter at a dotted path. The value is not range
// checked here; call Validate before building a network.
func (p *Params) Set(path string, v float64) error {
	for _, f := range p.fields() {
		if f.path == path {
			*f.v = v
			return nil
		}
	}
	return &reactor.ConfigError{Field: path, Value: v, Reason: ErrUnknownParameter}
}

// Paths lists every parameter path in process order.
func (p *Params) Paths() []string {
	fs := p.fields()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.path
	}
	return out
}
