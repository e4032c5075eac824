package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
	"github.com/limnolab/redoxsim/internal/solver"
)

func sampleResult() *sim.Result {
	x0 := make(reactor.State, reactor.NumChannels)
	x1 := make(reactor.State, reactor.NumChannels)
	for i := range x0 {
		x0[i] = float64(i+1) * 1.5e-7
		x1[i] = x0[i] * 0.375
	}

	return &sim.Result{
		Times:  []float64{0, 0.5},
		States: []reactor.State{x0, x1},
		Stats:  solver.Stats{Steps: 12, Rejected: 3, Evals: 105, LastStep: 0.04},
		Excursions: []reactor.Excursion{
			{Time: 0.5, Channel: reactor.Acetate, Value: -1e-12},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := sampleResult()
	runID, err := st.Save("freshwater", solver.DefaultOptions(), res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "freshwater_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "freshwater" {
		t.Errorf("scenario = %q, want freshwater", meta.Scenario)
	}
	if meta.Samples != 2 || meta.Start != 0 || meta.Horizon != 0.5 {
		t.Errorf("grid metadata = (%d, %g, %g)", meta.Samples, meta.Start, meta.Horizon)
	}
	if meta.Steps != 12 || meta.Rejected != 3 || meta.Evals != 105 {
		t.Errorf("stats metadata = (%d, %d, %d)", meta.Steps, meta.Rejected, meta.Evals)
	}
	if meta.Excursions != 1 {
		t.Errorf("excursions = %d, want 1", meta.Excursions)
	}
	opts := solver.DefaultOptions()
	if meta.AbsTol != opts.AbsTol || meta.RelTol != opts.RelTol {
		t.Errorf("tolerances = (%g, %g)", meta.AbsTol, meta.RelTol)
	}
	if len(meta.Channels) != reactor.NumChannels {
		t.Fatalf("got %d channels, want %d", len(meta.Channels), reactor.NumChannels)
	}
	if meta.Channels[reactor.Oxygen] != "o2" {
		t.Errorf("channel name = %q, want o2", meta.Channels[reactor.Oxygen])
	}
}

func TestStoreTrajectoryRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := sampleResult()
	runID, err := st.Save("freshwater", solver.DefaultOptions(), res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	times, states, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}

	if len(times) != len(res.Times) {
		t.Fatalf("got %d times, want %d", len(times), len(res.Times))
	}
	for i, tm := range times {
		if tm != res.Times[i] {
			t.Errorf("times[%d] = %g, want %g", i, tm, res.Times[i])
		}
	}
	for i, s := range states {
		if len(s) != reactor.NumChannels {
			t.Fatalf("states[%d] has %d channels", i, len(s))
		}
		for j, v := range s {
			if v != res.States[i][j] {
				t.Errorf("states[%d][%d] = %g, want %g", i, j, v, res.States[i][j])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("anoxic", solver.DefaultOptions(), sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Scenario != "anoxic" {
		t.Errorf("scenario = %q, want anoxic", runs[0].Scenario)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("freshwater", solver.DefaultOptions(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)

	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "trajectory.csv")); os.IsNotExist(err) {
		t.Error("trajectory.csv not created")
	}
}

func TestStoreLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("freshwater_0"); err == nil {
		t.Error("expected an error for a missing run")
	}
	if _, _, err := st.LoadTrajectory("freshwater_0"); err == nil {
		t.Error("expected an error for a missing trajectory")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("freshwater", solver.DefaultOptions(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.Export(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.Scenario != "freshwater" || data.Steps != 12 || data.Excursions != 1 {
		t.Errorf("metadata = (%q, %d, %d)", data.Scenario, data.Steps, data.Excursions)
	}
	if len(data.Times) != 2 || len(data.States) != 2 {
		t.Fatalf("trajectory shape = (%d, %d)", len(data.Times), len(data.States))
	}
	if data.States[1][reactor.Oxygen] != sampleResult().States[1][reactor.Oxygen] {
		t.Errorf("states[1][o2] = %g", data.States[1][reactor.Oxygen])
	}

	if err := st.Export(&buf, "freshwater_0"); err == nil {
		t.Error("expected an error for a missing run")
	}
}

func TestExportFile(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("anoxic", solver.DefaultOptions(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := st.ExportFile(path, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	for _, want := range []string{`"scenario": "anoxic"`, `"o2"`, `"steps": 12`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("export missing %s", want)
		}
	}
}
