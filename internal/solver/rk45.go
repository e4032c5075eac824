package solver

import (
	"math"

	"github.com/limnolab/redoxsim/internal/reactor"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is an embedded Dormand-Prince 4(5) pair with per-component
// error control. A value drives one run at a time; Reset clears the
// counters for reuse.
type RK45 struct {
	opts     Options
	safety   float64
	minScale float64
	maxScale float64
	stats    Stats
}

func New(opts Options) *RK45 {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultOptions().MaxSteps
	}
	return &RK45{
		opts:     opts,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Options() Options { return r.opts }

func (r *RK45) Stats() Stats { return r.stats }

func (r *RK45) Reset() { r.stats = Stats{} }

// Advance takes one accepted step from (t, x). It tries dt first and
// shrinks on rejection until the weighted error estimate drops below
// one. It returns the new state, the step actually taken and the
// suggested size for the next step.
func (r *RK45) Advance(sys reactor.System, x reactor.State, t, dt float64) (reactor.State, float64, float64, error) {
	for {
		if r.stats.Steps+r.stats.Rejected >= r.opts.MaxSteps {
			return nil, 0, 0, reactor.ErrStepBudget
		}
		if dt < r.opts.MinStep {
			return nil, 0, 0, reactor.ErrStepTooSmall
		}

		xNew, errMax := r.attempt(sys, x, t, dt)

		if math.IsNaN(errMax) || math.IsInf(errMax, 0) || !xNew.IsValid() {
			r.stats.Rejected++
			dt *= r.minScale
			continue
		}

		if errMax > 1 {
			r.stats.Rejected++
			dt *= math.Max(r.minScale, r.safety*math.Pow(errMax, -0.25))
			continue
		}

		r.stats.Steps++
		r.stats.LastStep = dt

		next := dt * r.maxScale
		if errMax > 0 {
			next = dt * math.Min(r.maxScale, r.safety*math.Pow(errMax, -0.2))
		}
		if r.opts.MaxStep > 0 && next > r.opts.MaxStep {
			next = r.opts.MaxStep
		}
		return xNew, dt, next, nil
	}
}

// attempt evaluates one trial step of size dt, returning the
// fifth-order solution and the largest component error relative to
// its tolerance scale.
func (r *RK45) attempt(sys reactor.System, x reactor.State, t, dt float64) (reactor.State, float64) {
	n := len(x)

	k1 := sys.Derive(x, t)

	x2 := make(reactor.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := sys.Derive(x2, t+a2*dt)

	x3 := make(reactor.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x3, t+a3*dt)

	x4 := make(reactor.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x4, t+a4*dt)

	x5 := make(reactor.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x5, t+a5*dt)

	x6 := make(reactor.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x6, t+dt)

	xNew := make(reactor.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}
	k7 := sys.Derive(xNew, t+dt)

	r.stats.Evals += 7

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := r.opts.AbsTol + r.opts.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}
	return xNew, errMax
}
