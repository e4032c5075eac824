// Package automation runs scripted campaigns: YAML files chaining
// several scenario runs, so a whole comparison comes out of one
// invocation with every trajectory saved to the run store.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/limnolab/redoxsim/internal/config"
	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/sim"
	"github.com/limnolab/redoxsim/internal/store"
)

// Campaign is a scripted sequence of scenario runs.
type Campaign struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step describes one run: a scenario preset plus overrides. Initial
// concentrations merge over the preset's, and Set patches kinetic
// constants by dotted path.
type Step struct {
	Scenario string             `yaml:"scenario"`
	Label    string             `yaml:"label,omitempty"`
	Horizon  float64            `yaml:"horizon,omitempty"`
	Samples  int                `yaml:"samples,omitempty"`
	Initial  map[string]float64 `yaml:"initial,omitempty"`
	Set      map[string]float64 `yaml:"set,omitempty"`
}

// Load reads a campaign from a YAML file.
func Load(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var camp Campaign
	if err := yaml.Unmarshal(data, &camp); err != nil {
		return nil, err
	}
	return &camp, nil
}

// build resolves a step into a validated run config.
func (st Step) build() (*config.Config, error) {
	name := st.Scenario
	if name == "" {
		name = "freshwater"
	}
	cfg := config.Preset(name)
	if cfg == nil {
		return nil, fmt.Errorf("automation: unknown scenario %q", name)
	}

	if st.Horizon > 0 {
		cfg.Horizon = st.Horizon
	}
	if st.Samples > 0 {
		cfg.Samples = st.Samples
	}
	for ch, v := range st.Initial {
		cfg.Initial[ch] = v
	}
	for path, v := range st.Set {
		if err := cfg.Kinetics.Set(path, v); err != nil {
			return nil, err
		}
	}
	if st.Label != "" {
		cfg.Scenario = st.Label
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StepResult pairs a completed step with its stored run.
type StepResult struct {
	Label  string
	RunID  string
	Result *sim.Result
}

// Run executes a campaign in order. Every step is resolved and
// validated before the first integration, so a typo in step five does
// not waste steps one through four. Execution aborts at the first
// failing step and returns the steps that completed. A nil store skips
// persistence.
func Run(ctx context.Context, camp *Campaign, st *store.Store, logger zerolog.Logger) ([]StepResult, error) {
	if camp == nil || len(camp.Steps) == 0 {
		return nil, fmt.Errorf("automation: campaign has no steps")
	}

	cfgs := make([]*config.Config, len(camp.Steps))
	for i, step := range camp.Steps {
		cfg, err := step.build()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		cfgs[i] = cfg
	}

	results := make([]StepResult, 0, len(cfgs))
	for i, cfg := range cfgs {
		logger.Info().
			Int("step", i+1).
			Int("of", len(cfgs)).
			Str("scenario", cfg.Scenario).
			Float64("horizon", cfg.Horizon).
			Msg("campaign step")

		net, err := kinetics.New(cfg.Kinetics)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, cfg.Scenario, err)
		}

		res, err := sim.New(net).Run(ctx, cfg.InitialState(), cfg.RunConfig())
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, cfg.Scenario, err)
		}

		sr := StepResult{Label: cfg.Scenario, Result: res}
		if st != nil {
			sr.RunID, err = st.Save(cfg.Scenario, cfg.Solver, res)
			if err != nil {
				return results, fmt.Errorf("step %d (%s): save: %w", i+1, cfg.Scenario, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
