package solver

import (
	"errors"
	"math"

	"github.com/limnolab/redoxsim/internal/reactor"
)

// ErrBadOptions indicates a solver option that is negative, zero where
// zero is not allowed, or not finite.
var ErrBadOptions = errors.New("solver: option must be positive and finite")

// Options control the adaptive run.
type Options struct {
	AbsTol   float64 `yaml:"abs_tol"`   // per-component absolute tolerance
	RelTol   float64 `yaml:"rel_tol"`   // per-component relative tolerance
	InitStep float64 `yaml:"init_step"` // first trial step; 0 derives one from the horizon
	MinStep  float64 `yaml:"min_step"`  // below this the run aborts
	MaxStep  float64 `yaml:"max_step"`  // upper clamp on suggested steps; 0 disables
	MaxSteps int     `yaml:"max_steps"` // budget on step attempts, accepted plus rejected
}

func DefaultOptions() Options {
	return Options{
		AbsTol:   1e-8,
		RelTol:   1e-6,
		MinStep:  1e-12,
		MaxSteps: 5_000_000,
	}
}

func (o Options) Validate() error {
	checks := []struct {
		name      string
		v         float64
		allowZero bool
	}{
		{"solver.abs_tol", o.AbsTol, false},
		{"solver.rel_tol", o.RelTol, false},
		{"solver.init_step", o.InitStep, true},
		{"solver.min_step", o.MinStep, false},
		{"solver.max_step", o.MaxStep, true},
		{"solver.max_steps", float64(o.MaxSteps), true},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 || (!c.allowZero && c.v == 0) {
			return &reactor.ConfigError{Field: c.name, Value: c.v, Reason: ErrBadOptions}
		}
	}
	if o.MaxStep > 0 && o.MaxStep < o.MinStep {
		return &reactor.ConfigError{Field: "solver.max_step", Value: o.MaxStep, Reason: ErrBadOptions}
	}
	return nil
}

// InitialStep picks the first trial step for a run over the given
// horizon when the caller did not set one.
func (o Options) InitialStep(horizon float64) float64 {
	if o.InitStep > 0 {
		return o.InitStep
	}
	h := horizon * 1e-6
	if h < o.MinStep {
		h = o.MinStep
	}
	if o.MaxStep > 0 && h > o.MaxStep {
		h = o.MaxStep
	}
	return h
}

// Stats counts the work done by one run.
type Stats struct {
	Steps    int     // accepted steps
	Rejected int     // rejected attempts
	Evals    int     // derivative evaluations
	LastStep float64 // size of the last accepted step
}
