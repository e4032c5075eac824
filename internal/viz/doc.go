// Package viz renders reaction column trajectories in the terminal.
//
// The package has two halves: static plots of finished runs and a live
// Bubble Tea view that integrates the network while you watch:
//
//   - [PlotChannels]: asciigraph time series in display units
//   - [Summary]: final concentrations and solver counters
//   - [PhaseLabel]: redox phase badge for a state
//   - [Model]: live watch TUI with pause, reset, and channel selection
//
// # Key Bindings
//
//	Space   - Pause/Resume integration
//	R       - Reset to the initial state
//	Tab/J/K - Select the plotted channel
//	Q       - Quit
package viz
