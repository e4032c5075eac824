package reactor

import (
	"errors"
	"fmt"
)

// Domain errors for run setup and integration.
var (
	// ErrConstantNotPositive indicates a half-saturation or inhibition
	// constant that is zero, negative or not finite.
	ErrConstantNotPositive = errors.New("reactor: kinetic constant must be positive and finite")

	// ErrRateNegative indicates a negative maximum rate coefficient.
	ErrRateNegative = errors.New("reactor: maximum rate must be non-negative and finite")

	// ErrNegativeConcentration indicates a negative initial concentration.
	ErrNegativeConcentration = errors.New("reactor: initial concentration must be non-negative")

	// ErrBadTimeGrid indicates sample times that are not finite and
	// strictly increasing.
	ErrBadTimeGrid = errors.New("reactor: sample times must be finite and strictly increasing")

	// ErrDimensionMismatch indicates a state vector whose length does not
	// match the system dimension.
	ErrDimensionMismatch = errors.New("reactor: state dimension does not match system")

	// ErrStepTooSmall indicates the adaptive step collapsed below the
	// configured minimum without meeting the error tolerance.
	ErrStepTooSmall = errors.New("reactor: adaptive step below minimum")

	// ErrStepBudget indicates the step budget ran out before the horizon.
	ErrStepBudget = errors.New("reactor: step budget exhausted before reaching horizon")

	// ErrInvalidState indicates NaN or Inf in a state vector.
	ErrInvalidState = errors.New("reactor: invalid state (NaN or Inf detected)")
)

// ConfigError reports an invalid run setup detected before integration
// starts.
type ConfigError struct {
	Field  string
	Value  float64
	Reason error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s = %g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Reason }

// IntegrationError reports a failure during time stepping. Time and
// State hold the last accepted point so callers can see how far the
// run got before it stopped.
type IntegrationError struct {
	Time   float64
	Step   int
	State  State
	Reason error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %s", e.Step, e.Time, e.Reason)
}

func (e *IntegrationError) Unwrap() error { return e.Reason }

// Excursion records a sampled point where a component dipped below
// zero. Excursions are advisory: state is never clamped, and small
// undershoots near depletion shrink as tolerances tighten.
type Excursion struct {
	Time    float64
	Channel int
	Value   float64
}

func (e Excursion) String() string {
	return fmt.Sprintf("%s = %.3e at t=%.4f", Channels[e.Channel].Name, e.Value, e.Time)
}
