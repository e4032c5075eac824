// Package reactor provides the core primitives shared by the redoxsim
// packages.
//
// A reactor state is a fixed-order vector of concentrations ([State],
// addressed by the channel constants). Anything that can be integrated
// implements [System]: an autonomous ODE dX/dt = f(X, t) over that
// vector. The package also carries the error taxonomy for run setup
// ([ConfigError]) and time stepping ([IntegrationError]), plus the
// [Excursion] diagnostic for negative concentration undershoots.
//
// # Units
//
// Concentrations are mol/L and time is days throughout. Display
// scaling to micromolar or millimolar happens at the edges, driven by
// the per-channel metadata in [Channels].
//
// # Ordering
//
// The channel order is a wire contract. Trajectory columns, CSV
// exports and YAML initial conditions all address components by these
// positions, so the constants must never be reordered.
package reactor
