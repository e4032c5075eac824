package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/solver"
)

// Config describes one integration run.
type Config struct {
	// Times is the output grid. The first entry is the initial time;
	// entries must be finite and strictly increasing. The integrator
	// lands on every entry exactly, clamping its internal step.
	Times []float64

	Solver solver.Options
}

// Observer is called once per emitted sample, in grid order. The
// state passed in is owned by the result; observers must not modify
// it.
type Observer interface {
	OnSample(t float64, x reactor.State)
}

// Result is a completed (or partial) trajectory.
type Result struct {
	Times      []float64
	States     []reactor.State
	Stats      solver.Stats
	Excursions []reactor.Excursion
}

// Channel extracts one column of the trajectory.
func (r *Result) Channel(i int) []float64 {
	out := make([]float64, len(r.States))
	for k, x := range r.States {
		out[k] = x[i]
	}
	return out
}

// Final returns the last sampled state, or nil for an empty result.
func (r *Result) Final() reactor.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type Simulator struct {
	sys       reactor.System
	observers []Observer
}

func New(sys reactor.System) *Simulator {
	return &Simulator{sys: sys}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 across the output grid. On failure the
// returned result still holds every sample emitted so far and the
// error wraps the reason together with the last accepted point.
func (s *Simulator) Run(ctx context.Context, x0 reactor.State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	times := cfg.Times
	horizon := times[len(times)-1] - times[0]
	rk := solver.New(cfg.Solver)
	dt := cfg.Solver.InitialStep(horizon)

	result := &Result{
		Times:  make([]float64, 0, len(times)),
		States: make([]reactor.State, 0, len(times)),
	}

	x := x0.Clone()
	t := times[0]
	s.emit(result, t, x)

	for _, target := range times[1:] {
		for t < target {
			select {
			case <-ctx.Done():
				result.Stats = rk.Stats()
				return result, ctx.Err()
			default:
			}

			h := dt
			clamped := false
			if t+h >= target {
				h = target - t
				clamped = true
			}

			xNew, took, next, err := rk.Advance(s.sys, x, t, h)
			if err != nil {
				result.Stats = rk.Stats()
				return result, &reactor.IntegrationError{
					Time:   t,
					Step:   rk.Stats().Steps,
					State:  x.Clone(),
					Reason: err,
				}
			}

			x = xNew
			if clamped && took == h {
				t = target
				if next > dt {
					dt = next
				}
			} else {
				t += took
				dt = next
			}
		}
		s.emit(result, target, x)
	}

	result.Stats = rk.Stats()
	return result, nil
}

// emit appends a sample, scans it for negative excursions and fans it
// out to the observers.
func (s *Simulator) emit(res *Result, t float64, x reactor.State) {
	c := x.Clone()
	res.Times = append(res.Times, t)
	res.States = append(res.States, c)

	for i, v := range c {
		if v < 0 {
			res.Excursions = append(res.Excursions, reactor.Excursion{Time: t, Channel: i, Value: v})
		}
	}
	for _, o := range s.observers {
		o.OnSample(t, c)
	}
}

func (s *Simulator) validate(x0 reactor.State, cfg Config) error {
	if len(x0) != s.sys.Dim() {
		return &reactor.ConfigError{Field: "initial", Value: float64(len(x0)), Reason: reactor.ErrDimensionMismatch}
	}
	if !x0.IsValid() {
		return &reactor.ConfigError{Field: "initial", Value: 0, Reason: reactor.ErrInvalidState}
	}
	for i, v := range x0 {
		if v < 0 {
			return &reactor.ConfigError{Field: fmt.Sprintf("initial[%d]", i), Value: v, Reason: reactor.ErrNegativeConcentration}
		}
	}

	if len(cfg.Times) == 0 {
		return &reactor.ConfigError{Field: "times", Value: 0, Reason: reactor.ErrBadTimeGrid}
	}
	prev := math.Inf(-1)
	for _, tt := range cfg.Times {
		if math.IsNaN(tt) || math.IsInf(tt, 0) || tt <= prev {
			return &reactor.ConfigError{Field: "times", Value: tt, Reason: reactor.ErrBadTimeGrid}
		}
		prev = tt
	}

	return cfg.Solver.Validate()
}
