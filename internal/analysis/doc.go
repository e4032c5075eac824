// Package analysis provides diagnostics for reaction network trajectories.
//
// The package includes tools for characterizing a network and its runs:
//
//   - [Jacobian]: finite-difference Jacobian of the rate field
//   - [Stiffness]: eigenvalue timescale spread at a state
//   - [DepletionTime]: when a substrate falls below a fraction of its start
//   - [Turnover]: integrated extent of each process over a run
//   - [Sweep]: outcome metrics across values of one kinetic constant
//
// # Stiffness
//
// A large eigenvalue ratio means the network mixes fast and slow
// processes, which is what drives the adaptive step controller:
//
//	rep, err := analysis.Stiffness(net, x0, 0)
//	if err == nil && rep.Ratio > 1e3 {
//	    // Expect small accepted steps relative to the horizon
//	}
package analysis
