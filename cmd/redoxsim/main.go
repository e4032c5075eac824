package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/limnolab/redoxsim/internal/analysis"
	"github.com/limnolab/redoxsim/internal/automation"
	"github.com/limnolab/redoxsim/internal/chart"
	"github.com/limnolab/redoxsim/internal/config"
	"github.com/limnolab/redoxsim/internal/experiment"
	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/observability"
	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
	"github.com/limnolab/redoxsim/internal/store"
	"github.com/limnolab/redoxsim/internal/viz"
)

var (
	dataDir string
	verbose bool

	horizon    float64
	samples    int
	configFile string
	sets       []string
	initials   []string

	// plot and chart selection
	channelList string
	logScale    bool
	plotHeight  int
	plotWidth   int
	chartOut    string
	exportOut   string

	// rates and stiffness evaluation time
	atDay float64

	// sweep range
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepN     int
	geometric  bool

	// knockout panel subset
	panelNames []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "redoxsim",
		Short: "microbial redox cascade batch reactor simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			observability.InitLogger("redoxsim", verbose)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".redoxsim", "run store directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "integrate a scenario and save the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "days to integrate")
	runCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "output samples")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringArrayVar(&sets, "set", nil, "kinetic constant override path=value")
	runCmd.Flags().StringArrayVar(&initials, "initial", nil, "initial concentration override channel=mol/L")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE:  listScenarios,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved trajectory in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&channelList, "channels", "acetate,o2,no3,so4,ch4", "comma separated channels")
	plotCmd.Flags().BoolVar(&logScale, "log", false, "log10 concentration axis")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render a saved trajectory to a PNG or SVG image",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "redoxsim.png", "output image (.png or .svg)")
	chartCmd.Flags().StringVar(&channelList, "channels", "acetate,o2,no3,so4,ch4", "comma separated channels")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")

	ratesCmd := &cobra.Command{
		Use:   "rates [scenario]",
		Short: "show process rates and limiting factors",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showRates,
	}
	ratesCmd.Flags().Float64Var(&atDay, "at", 0, "evaluate after integrating to this day")
	ratesCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	ratesCmd.Flags().StringArrayVar(&sets, "set", nil, "kinetic constant override path=value")
	ratesCmd.Flags().StringArrayVar(&initials, "initial", nil, "initial concentration override channel=mol/L")

	stiffnessCmd := &cobra.Command{
		Use:   "stiffness [scenario]",
		Short: "report the Jacobian timescale spread",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showStiffness,
	}
	stiffnessCmd.Flags().Float64Var(&atDay, "at", 0, "evaluate after integrating to this day")
	stiffnessCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	stiffnessCmd.Flags().StringArrayVar(&sets, "set", nil, "kinetic constant override path=value")
	stiffnessCmd.Flags().StringArrayVar(&initials, "initial", nil, "initial concentration override channel=mol/L")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "sweep one kinetic constant across an ensemble",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "dotted parameter path, e.g. methanogenesis.mu_max")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 5, "number of values")
	sweepCmd.Flags().BoolVar(&geometric, "geometric", false, "space values geometrically")
	sweepCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "days to integrate")
	sweepCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "output samples")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringArrayVar(&sets, "set", nil, "kinetic constant override path=value")
	sweepCmd.Flags().StringArrayVar(&initials, "initial", nil, "initial concentration override channel=mol/L")
	_ = sweepCmd.MarkFlagRequired("param")

	knockoutsCmd := &cobra.Command{
		Use:   "knockouts [scenario]",
		Short: "run the per-process knockout panel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runKnockouts,
	}
	knockoutsCmd.Flags().StringSliceVar(&panelNames, "only", nil, "subset of experiments to run")
	knockoutsCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "days to integrate")
	knockoutsCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "output samples")
	knockoutsCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	knockoutsCmd.Flags().StringArrayVar(&sets, "set", nil, "kinetic constant override path=value")
	knockoutsCmd.Flags().StringArrayVar(&initials, "initial", nil, "initial concentration override channel=mol/L")

	campaignCmd := &cobra.Command{
		Use:   "campaign [file]",
		Short: "run a scripted campaign from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCampaign,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "watch a run live in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchScenario,
	}
	watchCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "days to integrate")
	watchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	watchCmd.Flags().StringArrayVar(&sets, "set", nil, "kinetic constant override path=value")
	watchCmd.Flags().StringArrayVar(&initials, "initial", nil, "initial concentration override channel=mol/L")

	rootCmd.AddCommand(runCmd, scenariosCmd, listCmd, plotCmd, chartCmd, exportCmd,
		ratesCmd, stiffnessCmd, sweepCmd, knockoutsCmd, campaignCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves the run configuration: scenario preset or config
// file first, then flag overrides, then validation.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	case len(args) > 0:
		cfg = config.Preset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown scenario %q (available: %s)",
				args[0], strings.Join(config.ListScenarios(), ", "))
		}
	default:
		cfg = config.Default()
	}

	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}

	for _, kv := range initials {
		name, v, err := splitOverride(kv)
		if err != nil {
			return nil, err
		}
		cfg.Initial[name] = v
	}
	for _, kv := range sets {
		path, v, err := splitOverride(kv)
		if err != nil {
			return nil, err
		}
		if err := cfg.Kinetics.Set(path, v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitOverride(kv string) (string, float64, error) {
	key, val, ok := strings.Cut(kv, "=")
	if !ok {
		return "", 0, fmt.Errorf("override %q is not key=value", kv)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return "", 0, fmt.Errorf("override %q: %w", kv, err)
	}
	return strings.TrimSpace(key), v, nil
}

func parseChannels(list string) ([]int, error) {
	out := make([]int, 0, 8)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		idx, ok := reactor.Index(name)
		if !ok {
			return nil, fmt.Errorf("unknown channel %q", name)
		}
		out = append(out, idx)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no channels selected")
	}
	return out, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	net, err := kinetics.New(cfg.Kinetics)
	if err != nil {
		return err
	}

	log.Info().
		Str("scenario", cfg.Scenario).
		Float64("horizon", cfg.Horizon).
		Int("samples", cfg.Samples).
		Msg("starting run")

	start := time.Now()
	res, runErr := sim.New(net).Run(context.Background(), cfg.InitialState(), cfg.RunConfig())
	elapsed := time.Since(start)

	if res == nil || len(res.Times) == 0 {
		return runErr
	}

	label := cfg.Scenario
	if runErr != nil {
		label += "_partial"
		var ierr *reactor.IntegrationError
		if errors.As(runErr, &ierr) {
			log.Error().
				Float64("time", ierr.Time).
				Int("steps", ierr.Step).
				Err(ierr.Reason).
				Msg("integration failed")
		}
	}

	runID, err := st.Save(label, cfg.Solver, res)
	if err != nil {
		return err
	}
	logExcursions(res)

	log.Info().
		Str("run", runID).
		Int("steps", res.Stats.Steps).
		Int("rejected", res.Stats.Rejected).
		Int("evals", res.Stats.Evals).
		Dur("elapsed", elapsed).
		Msg("trajectory saved")

	fmt.Println(viz.Summary(res))
	return runErr
}

// logExcursions reports negative excursions aggregated per channel so a
// long run cannot flood the log.
func logExcursions(res *sim.Result) {
	if len(res.Excursions) == 0 {
		return
	}

	counts := make(map[int]int)
	worst := make(map[int]float64)
	for _, e := range res.Excursions {
		counts[e.Channel]++
		if e.Value < worst[e.Channel] {
			worst[e.Channel] = e.Value
		}
	}
	for ch := 0; ch < reactor.NumChannels; ch++ {
		if counts[ch] == 0 {
			continue
		}
		log.Warn().
			Str("channel", reactor.Channels[ch].Name).
			Int("samples", counts[ch]).
			Float64("worst", worst[ch]).
			Msg("negative excursion")
	}
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tACETATE mM\tO2 mM\tNO3 mM\tSO4 mM\tHORIZON d")

	for _, name := range config.ListScenarios() {
		cfg := config.Preset(name)
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%g\n",
			name,
			cfg.Initial["acetate"]*1e3,
			cfg.Initial["o2"]*1e3,
			cfg.Initial["no3"]*1e3,
			cfg.Initial["so4"]*1e3,
			cfg.Horizon,
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tCREATED\tDAYS\tSAMPLES\tSTEPS\tEXCURSIONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Horizon-run.Start,
			run.Samples,
			run.Steps,
			run.Excursions,
		)
	}
	return w.Flush()
}

// loadRun rebuilds a result from the store for the display commands.
func loadRun(runID string) (*store.RunMetadata, *sim.Result, error) {
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	times, states, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, &sim.Result{Times: times, States: states}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	channels, err := parseChannels(channelList)
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s), %d samples\n\n", meta.ID, meta.Scenario, len(res.Times))

	var out string
	if logScale {
		out, err = viz.PlotChannelsLog(res, channels, plotHeight, plotWidth)
	} else {
		out, err = viz.PlotChannels(res, channels, plotHeight, plotWidth)
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	channels, err := parseChannels(channelList)
	if err != nil {
		return err
	}

	if err := chart.Write(chartOut, res, channels, meta.Scenario); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", chartOut)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	return st.ExportFile(exportOut, args[0])
}

// stateAt integrates quietly to the requested day; at or before the
// start it returns the initial state untouched.
func stateAt(cfg *config.Config, net *kinetics.Network, day float64) (reactor.State, error) {
	x := cfg.InitialState()
	if day <= cfg.Start {
		return x, nil
	}

	runCfg := sim.Config{Times: []float64{cfg.Start, day}, Solver: cfg.Solver}
	res, err := sim.New(net).Run(context.Background(), x, runCfg)
	if err != nil {
		return nil, err
	}
	return res.Final(), nil
}

func showRates(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	net, err := kinetics.New(cfg.Kinetics)
	if err != nil {
		return err
	}

	x, err := stateAt(cfg, net, atDay)
	if err != nil {
		return err
	}
	day := math.Max(atDay, cfg.Start)

	fmt.Printf("%s at day %.4g, phase %s\n\n", cfg.Scenario, day, viz.Phase(x))

	procRates := net.Rates(x)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROCESS\tRATE mol/L/d\tFACTORS")
	for p := 0; p < kinetics.NumProcesses; p++ {
		parts := make([]string, 0, 4)
		for _, f := range net.Factors(p, x) {
			parts = append(parts, fmt.Sprintf("%s=%.3g", f.Label, f.Value))
		}
		fmt.Fprintf(w, "%s\t%.4g\t%s\n", kinetics.ProcessNames[p], procRates[p], strings.Join(parts, "  "))
	}
	return w.Flush()
}

func showStiffness(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	net, err := kinetics.New(cfg.Kinetics)
	if err != nil {
		return err
	}

	x, err := stateAt(cfg, net, atDay)
	if err != nil {
		return err
	}
	day := math.Max(atDay, cfg.Start)

	rep, err := analysis.Stiffness(net, x, day)
	if err != nil {
		return err
	}

	fmt.Printf("%s at day %.4g\n\n", cfg.Scenario, day)

	evs := append([]complex128(nil), rep.Eigenvalues...)
	sort.Slice(evs, func(i, j int) bool {
		return math.Abs(real(evs[i])) > math.Abs(real(evs[j]))
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RE 1/d\tIM 1/d\tTIMESCALE d")
	for _, ev := range evs {
		re := real(ev)
		scale := "-"
		if r := math.Abs(re); r > 0 {
			scale = fmt.Sprintf("%.3g", 1/r)
		}
		fmt.Fprintf(w, "%.4g\t%.4g\t%s\n", re, imag(ev), scale)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nfastest: %.4g 1/d\nslowest: %.4g 1/d\nstiffness ratio: %.4g\n",
		rep.Fastest, rep.Slowest, rep.Ratio)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if sweepN < 2 {
		return fmt.Errorf("sweep needs at least 2 values")
	}
	values := make([]float64, sweepN)
	if geometric {
		if sweepFrom <= 0 || sweepTo <= 0 {
			return fmt.Errorf("geometric spacing needs positive bounds")
		}
		floats.LogSpan(values, sweepFrom, sweepTo)
	} else {
		floats.Span(values, sweepFrom, sweepTo)
	}

	log.Info().
		Str("param", sweepParam).
		Int("values", sweepN).
		Str("scenario", cfg.Scenario).
		Msg("starting sweep")

	points, err := analysis.Sweep(context.Background(), cfg.Kinetics, sweepParam,
		values, cfg.InitialState(), cfg.RunConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL CH4 mM\tFINAL ACETATE mM\tO2 GONE d\tSO4 GONE d\n", strings.ToUpper(sweepParam))
	for _, pt := range points {
		if pt.Err != nil {
			fmt.Fprintf(w, "%.4g\terror: %v\n", pt.Value, pt.Err)
			continue
		}
		fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%s\t%s\n",
			pt.Value,
			pt.FinalMethane*1e3,
			pt.FinalAcetate*1e3,
			fmtDay(pt.OxygenDepletion, pt.OxygenDepleted),
			fmtDay(pt.SulfateDepletion, pt.SulfateDepleted),
		)
	}
	return w.Flush()
}

func fmtDay(t float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(t, 'f', 2, 64)
}

func runKnockouts(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	outcomes, err := registry.RunPanel(context.Background(), panelNames,
		cfg.Kinetics, cfg.InitialState(), cfg.RunConfig())
	if err != nil {
		return err
	}

	fmt.Printf("knockout panel on %s, %g days\n\n", cfg.Scenario, cfg.Horizon)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXPERIMENT\tFINAL CH4 mM\tFINAL ACETATE mM\tFINAL SO4 mM\tO2 GONE d\tSO4 GONE d")
	for _, out := range outcomes {
		if out.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", out.Name, out.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%s\t%s\n",
			out.Name,
			out.FinalMethane*1e3,
			out.FinalAcetate*1e3,
			out.FinalSulfate*1e3,
			fmtDay(out.OxygenDepletion, out.OxygenDepleted),
			fmtDay(out.SulfateDepletion, out.SulfateDepleted),
		)
	}
	return w.Flush()
}

func runCampaign(cmd *cobra.Command, args []string) error {
	camp, err := automation.Load(args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	log.Info().
		Str("campaign", camp.Name).
		Int("steps", len(camp.Steps)).
		Msg("starting campaign")

	results, runErr := automation.Run(context.Background(), camp, st, log.Logger)

	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tRUN\tFINAL CH4 mM\tEXCURSIONS")
		for _, sr := range results {
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%d\n",
				sr.Label,
				sr.RunID,
				sr.Result.Final()[reactor.Methane]*1e3,
				len(sr.Result.Excursions),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return runErr
}

func watchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	net, err := kinetics.New(cfg.Kinetics)
	if err != nil {
		return err
	}

	grid := cfg.Grid()
	span := grid[len(grid)-1] - grid[0]
	return viz.Watch(cfg.Scenario, net, cfg.InitialState(), span, cfg.Solver)
}
