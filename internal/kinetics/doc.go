// Package kinetics implements the microbial redox reaction network.
//
// Six processes couple the fifteen reactor channels:
//
//   - aerobic acetate respiration
//   - denitrification
//   - sulfate reduction
//   - acetoclastic methanogenesis
//   - methanotrophy
//   - hydrogenotrophic methanogenesis
//
// Each process rate is a maximum rate scaled by its biomass pool and by
// Monod saturation and inhibition factors ([Monod], [Inhibition]).
// [Network] implements [reactor.System] by summing the stoichiometric
// contribution of every process into a single derivative vector, so the
// share of any one process in dX/dt can always be recovered with
// [Network.Contribution].
//
// Rates are deliberately raw: no clamping, no floors. A component that
// undershoots zero mid-step stays negative and feeds back through the
// saturation terms; the solver's error control keeps such excursions at
// tolerance level.
//
// The acetate saturation enters each organotrophic rate linearly.
// Column studies leave open whether the term should be squared; the
// linear form is the published one and is pinned by the regression
// tests.
package kinetics
