package config

import (
	"errors"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
	"github.com/limnolab/redoxsim/internal/solver"
)

const (
	DefaultHorizon = 80.0
	DefaultSamples = 401
)

// ErrUnknownChannel indicates an initial concentration keyed by a name
// that is not a reactor channel.
var ErrUnknownChannel = errors.New("config: unknown channel name")

// Config is one fully described run: scenario label, output grid,
// solver tuning, initial concentrations and kinetic parameters.
type Config struct {
	Scenario string  `yaml:"scenario"`
	Start    float64 `yaml:"start"`
	Horizon  float64 `yaml:"horizon"`
	Samples  int     `yaml:"samples"`

	// Times is an explicit output grid; when set it overrides Start,
	// Horizon and Samples.
	Times []float64 `yaml:"times,omitempty"`

	Solver solver.Options `yaml:"solver"`

	// Initial maps channel names to mol/L. Channels not listed start
	// at zero.
	Initial map[string]float64 `yaml:"initial"`

	Kinetics kinetics.Params `yaml:"kinetics"`
}

// Default returns the freshwater column scenario.
func Default() *Config {
	return &Config{
		Scenario: "freshwater",
		Horizon:  DefaultHorizon,
		Samples:  DefaultSamples,
		Solver:   solver.DefaultOptions(),
		Initial: map[string]float64{
			"acetate":          8e-3,
			"o2":               2.8e-4,
			"aerobes":          2e-6,
			"no3":              1e-3,
			"nitrate_reducers": 1.5e-6,
			"so4":              3e-3,
			"sulfate_reducers": 1e-6,
			"methanogens":      1e-6,
			"methanotrophs":    1e-6,
			"hydrogenotrophs":  5e-6,
			"h2":               1e-3,
			"co2":              1e-3,
		},
		Kinetics: kinetics.Default(),
	}
}

// Clone deep-copies the config so presets and defaults stay pristine.
func (c *Config) Clone() *Config {
	out := *c
	out.Times = append([]float64(nil), c.Times...)
	out.Initial = make(map[string]float64, len(c.Initial))
	for k, v := range c.Initial {
		out.Initial[k] = v
	}
	return &out
}

// Load reads a YAML file over the defaults, so partial files only
// override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.Times) > 0 {
		prev := math.Inf(-1)
		for _, t := range c.Times {
			if math.IsNaN(t) || math.IsInf(t, 0) || t <= prev {
				return &reactor.ConfigError{Field: "times", Value: t, Reason: reactor.ErrBadTimeGrid}
			}
			prev = t
		}
	} else {
		if math.IsNaN(c.Start) || math.IsInf(c.Start, 0) {
			return &reactor.ConfigError{Field: "start", Value: c.Start, Reason: reactor.ErrBadTimeGrid}
		}
		if math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) || c.Horizon <= c.Start {
			return &reactor.ConfigError{Field: "horizon", Value: c.Horizon, Reason: reactor.ErrBadTimeGrid}
		}
		if c.Samples < 2 {
			return &reactor.ConfigError{Field: "samples", Value: float64(c.Samples), Reason: reactor.ErrBadTimeGrid}
		}
	}

	if err := c.Solver.Validate(); err != nil {
		return err
	}

	for name, v := range c.Initial {
		if _, ok := reactor.Index(name); !ok {
			return &reactor.ConfigError{Field: "initial." + name, Value: v, Reason: ErrUnknownChannel}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return &reactor.ConfigError{Field: "initial." + name, Value: v, Reason: reactor.ErrNegativeConcentration}
		}
	}

	return c.Kinetics.Validate()
}

// InitialState assembles the state vector from the named initial
// concentrations. Validate first; unknown names are skipped here.
func (c *Config) InitialState() reactor.State {
	x := make(reactor.State, reactor.NumChannels)
	for name, v := range c.Initial {
		if i, ok := reactor.Index(name); ok {
			x[i] = v
		}
	}
	return x
}

// Grid returns the output time grid.
func (c *Config) Grid() []float64 {
	if len(c.Times) > 0 {
		return append([]float64(nil), c.Times...)
	}
	return sim.UniformGrid(c.Start, c.Horizon, c.Samples)
}

// RunConfig binds the grid and solver options for the simulator.
func (c *Config) RunConfig() sim.Config {
	return sim.Config{Times: c.Grid(), Solver: c.Solver}
}
