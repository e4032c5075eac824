package sim

import (
	"context"
	"sync"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/reactor"
)

// Variant names one parameter set within a sweep.
type Variant struct {
	Name   string
	Params kinetics.Params
}

// VariantResult pairs a variant with its run outcome.
type VariantResult struct {
	Name   string
	Result *Result
	Err    error
}

// RunVariants integrates every variant concurrently from the same
// initial state and grid. The returned slice keeps the variant order;
// a failed variant carries its error without aborting the others.
func RunVariants(ctx context.Context, variants []Variant, x0 reactor.State, cfg Config) []VariantResult {
	out := make([]VariantResult, len(variants))

	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(idx int, v Variant) {
			defer wg.Done()
			out[idx].Name = v.Name

			net, err := kinetics.New(v.Params)
			if err != nil {
				out[idx].Err = err
				return
			}
			out[idx].Result, out[idx].Err = New(net).Run(ctx, x0, cfg)
		}(i, v)
	}
	wg.Wait()

	return out
}
