package experiment

import (
	"fmt"
	"strings"

	"github.com/limnolab/redoxsim/internal/kinetics"
)

// Definition is one named perturbation of a base parameter set.
type Definition struct {
	Name        string
	Description string

	// Mutate derives the experiment's parameters from the base set.
	// The base is passed by value and never modified.
	Mutate func(kinetics.Params) kinetics.Params
}

// Registry holds the built-in experiment definitions in a stable order.
type Registry struct {
	order []string
	defs  map[string]Definition
}

// NewRegistry builds the standard panel: the unmodified reference plus
// one knockout per microbial process.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]Definition)}

	r.register(Definition{
		Name:        "reference",
		Description: "unmodified parameter set",
		Mutate:      func(p kinetics.Params) kinetics.Params { return p },
	})

	for proc := 0; proc < kinetics.NumProcesses; proc++ {
		proc := proc
		pretty := strings.ReplaceAll(kinetics.ProcessNames[proc], "_", " ")
		r.register(Definition{
			Name:        "no_" + kinetics.ProcessNames[proc],
			Description: pretty + " disabled",
			Mutate: func(p kinetics.Params) kinetics.Params {
				return silence(p, proc)
			},
		})
	}

	return r
}

func (r *Registry) register(d Definition) {
	r.defs[d.Name] = d
	r.order = append(r.order, d.Name)
}

// Get resolves an experiment by name.
func (r *Registry) Get(name string) (Definition, error) {
	d, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("experiment: unknown experiment %q (available: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	return d, nil
}

// Names lists the experiment names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// List returns the definitions in registration order.
func (r *Registry) List() []Definition {
	out := make([]Definition, len(r.order))
	for i, name := range r.order {
		out[i] = r.defs[name]
	}
	return out
}

// silence zeroes the maximum rate of one process, which switches it off
// without touching its saturation constants.
func silence(p kinetics.Params, proc int) kinetics.Params {
	switch proc {
	case kinetics.Aerobic:
		p.Aerobic.MuMax = 0
	case kinetics.Denitrification:
		p.Denitrification.MuMax = 0
	case kinetics.SulfateReduction:
		p.SulfateReduction.MuMax = 0
	case kinetics.Methanogenesis:
		p.Methanogenesis.MuMax = 0
	case kinetics.Methanotrophy:
		p.Methanotrophy.MuMax = 0
	case kinetics.Hydrogenotrophy:
		p.Hydrogenotrophy.MuMax = 0
	}
	return p
}
