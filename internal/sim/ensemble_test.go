package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/solver"
)

func TestRunVariants(t *testing.T) {
	knockout := kinetics.Default()
	knockout.SulfateReduction.MuMax = 0

	broken := kinetics.Default()
	broken.Aerobic.KOxygen = -1

	variants := []Variant{
		{Name: "reference", Params: kinetics.Default()},
		{Name: "no_sulfate_reduction", Params: knockout},
		{Name: "invalid", Params: broken},
	}

	cfg := Config{Times: UniformGrid(0, 5, 26), Solver: solver.DefaultOptions()}
	out := RunVariants(context.Background(), variants, freshwaterState(), cfg)

	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
	for i, v := range variants {
		if out[i].Name != v.Name {
			t.Errorf("result %d named %q, want %q", i, out[i].Name, v.Name)
		}
	}

	for _, idx := range []int{0, 1} {
		if out[idx].Err != nil {
			t.Errorf("%s failed: %v", out[idx].Name, out[idx].Err)
			continue
		}
		if len(out[idx].Result.States) != 26 {
			t.Errorf("%s: %d samples, want 26", out[idx].Name, len(out[idx].Result.States))
		}
	}

	if out[2].Err == nil {
		t.Fatal("invalid variant did not fail")
	}
	if !errors.Is(out[2].Err, reactor.ErrConstantNotPositive) {
		t.Errorf("invalid variant error = %v", out[2].Err)
	}
	if out[2].Result != nil {
		t.Error("invalid variant produced a result")
	}
}

func TestRunVariantsIndependent(t *testing.T) {
	// identical parameter sets must give identical trajectories even
	// when run concurrently
	variants := []Variant{
		{Name: "a", Params: kinetics.Default()},
		{Name: "b", Params: kinetics.Default()},
	}

	cfg := Config{Times: UniformGrid(0, 3, 31), Solver: solver.DefaultOptions()}
	out := RunVariants(context.Background(), variants, freshwaterState(), cfg)

	for _, r := range out {
		if r.Err != nil {
			t.Fatalf("%s failed: %v", r.Name, r.Err)
		}
	}
	a, b := out[0].Result, out[1].Result
	for k := range a.States {
		for i := range a.States[k] {
			if a.States[k][i] != b.States[k][i] {
				t.Fatalf("trajectories diverged at sample %d channel %d", k, i)
			}
		}
	}
}
