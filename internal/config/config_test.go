package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/solver"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	grid := cfg.Grid()
	if len(grid) != DefaultSamples {
		t.Errorf("grid has %d points, want %d", len(grid), DefaultSamples)
	}
	if grid[0] != 0 || grid[len(grid)-1] != DefaultHorizon {
		t.Errorf("grid spans [%v, %v]", grid[0], grid[len(grid)-1])
	}
}

func TestInitialStateAssembly(t *testing.T) {
	x := Default().InitialState()
	if len(x) != reactor.NumChannels {
		t.Fatalf("state has %d channels", len(x))
	}

	checks := map[int]float64{
		reactor.Acetate:         8e-3,
		reactor.Oxygen:          2.8e-4,
		reactor.Sulfate:         3e-3,
		reactor.Hydrogenotrophs: 5e-6,
		reactor.Methane:         0,
		reactor.DIC:             0,
		reactor.Nitrogen:        0,
	}
	for ch, want := range checks {
		if x[ch] != want {
			t.Errorf("%s = %v, want %v", reactor.Channels[ch].Name, x[ch], want)
		}
	}
}

func TestPresetsAreIsolated(t *testing.T) {
	a := Preset("freshwater")
	if a == nil {
		t.Fatal("freshwater preset missing")
	}
	a.Initial["so4"] = 99
	a.Kinetics.Aerobic.MuMax = 0

	b := Preset("freshwater")
	if b.Initial["so4"] != 3e-3 {
		t.Errorf("preset map leaked a mutation: so4 = %v", b.Initial["so4"])
	}
	if b.Kinetics.Aerobic.MuMax != 60 {
		t.Errorf("preset kinetics leaked a mutation: mu_max = %v", b.Kinetics.Aerobic.MuMax)
	}
}

func TestPresetScenarios(t *testing.T) {
	if Preset("martian") != nil {
		t.Error("unknown scenario returned a config")
	}

	names := ListScenarios()
	if len(names) != 4 {
		t.Fatalf("ListScenarios() = %v", names)
	}
	for _, name := range names {
		c := Preset(name)
		if c == nil {
			t.Fatalf("preset %q missing", name)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
		if c.Scenario != name {
			t.Errorf("preset %q labeled %q", name, c.Scenario)
		}
	}

	if Preset("sulfate_rich").Initial["so4"] != 2.8e-2 {
		t.Error("sulfate_rich preset lost its sulfate")
	}
	if Preset("anoxic").Initial["o2"] != 0 {
		t.Error("anoxic preset has oxygen")
	}
	if Preset("no_sulfate").Initial["sulfate_reducers"] != 0 {
		t.Error("no_sulfate preset still seeds reducers")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := Preset("anoxic")
	cfg.Horizon = 40
	cfg.Samples = 201
	cfg.Solver.RelTol = 1e-7
	cfg.Kinetics.Methanogenesis.MuMax = 55

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got.Scenario != "anoxic" || got.Horizon != 40 || got.Samples != 201 {
		t.Errorf("grid fields lost: %+v", got)
	}
	if got.Solver.RelTol != 1e-7 {
		t.Errorf("solver options lost: %v", got.Solver.RelTol)
	}
	if got.Kinetics.Methanogenesis.MuMax != 55 {
		t.Errorf("kinetics lost: %v", got.Kinetics.Methanogenesis.MuMax)
	}
	if got.Initial["o2"] != 0 || got.Initial["acetate"] != 8e-3 {
		t.Errorf("initial concentrations lost: %v", got.Initial)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")

	partial := []byte("horizon: 40\ninitial:\n  so4: 0.028\nkinetics:\n  methanogenesis:\n    mu_max: 35\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Horizon != 40 {
		t.Errorf("horizon = %v", cfg.Horizon)
	}
	if cfg.Initial["so4"] != 0.028 {
		t.Errorf("so4 override lost: %v", cfg.Initial["so4"])
	}
	if cfg.Initial["acetate"] != 8e-3 {
		t.Errorf("untouched initial defaulted wrong: %v", cfg.Initial["acetate"])
	}
	if cfg.Kinetics.Methanogenesis.MuMax != 35 {
		t.Errorf("mu_max override lost: %v", cfg.Kinetics.Methanogenesis.MuMax)
	}
	if cfg.Kinetics.Methanogenesis.KAcetate != 3e-4 {
		t.Errorf("untouched kinetics defaulted wrong: %v", cfg.Kinetics.Methanogenesis.KAcetate)
	}
	if cfg.Samples != DefaultSamples {
		t.Errorf("samples = %v", cfg.Samples)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero horizon", func(c *Config) { c.Horizon = 0 }, reactor.ErrBadTimeGrid},
		{"horizon before start", func(c *Config) { c.Start = 90 }, reactor.ErrBadTimeGrid},
		{"one sample", func(c *Config) { c.Samples = 1 }, reactor.ErrBadTimeGrid},
		{"unsorted times", func(c *Config) { c.Times = []float64{0, 2, 1} }, reactor.ErrBadTimeGrid},
		{"negative initial", func(c *Config) { c.Initial["no3"] = -1e-3 }, reactor.ErrNegativeConcentration},
		{"unknown channel", func(c *Config) { c.Initial["ammonium"] = 1e-3 }, ErrUnknownChannel},
		{"bad solver", func(c *Config) { c.Solver.AbsTol = 0 }, solver.ErrBadOptions},
		{"bad kinetics", func(c *Config) { c.Kinetics.Aerobic.KOxygen = 0 }, reactor.ErrConstantNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExplicitTimesOverrideGrid(t *testing.T) {
	cfg := Default()
	cfg.Times = []float64{0, 1, 5, 20}
	cfg.Horizon = 0 // ignored when times are explicit

	if err := cfg.Validate(); err != nil {
		t.Fatalf("explicit times rejected: %v", err)
	}
	grid := cfg.Grid()
	if len(grid) != 4 || grid[3] != 20 {
		t.Errorf("grid = %v", grid)
	}

	// returned grid is a copy
	grid[0] = 99
	if cfg.Times[0] != 0 {
		t.Error("Grid() aliases the config")
	}
}

func TestRunConfig(t *testing.T) {
	cfg := Default()
	rc := cfg.RunConfig()
	if len(rc.Times) != DefaultSamples {
		t.Errorf("run config grid has %d points", len(rc.Times))
	}
	if rc.Solver != solver.DefaultOptions() {
		t.Errorf("solver options not carried: %+v", rc.Solver)
	}
}

func TestKnockoutPresetStillRuns(t *testing.T) {
	// a zeroed process rate is a supported experiment setup
	cfg := Default()
	cfg.Kinetics.SulfateReduction.MuMax = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("knockout config invalid: %v", err)
	}
	if _, err := kinetics.New(cfg.Kinetics); err != nil {
		t.Fatalf("knockout network rejected: %v", err)
	}
}
