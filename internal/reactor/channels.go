package reactor

import "strings"

// Channel indices of the reactor state vector.
const (
	Acetate = iota
	Oxygen
	Aerobes
	Nitrate
	Nitrogen
	NitrateReducers
	DIC
	Sulfate
	SulfateReducers
	Methanogens
	Methanotrophs
	Hydrogenotrophs
	Methane
	Hydrogen
	CarbonDioxide

	NumChannels
)

// Channel describes one slot of the state vector.
type Channel struct {
	Name    string  // machine key used in flags, YAML and CSV headers
	Symbol  string  // short display label
	Biomass bool    // microbial pool rather than a dissolved species
	Scale   float64 // display multiplier from mol/L
	Unit    string  // display unit after scaling
}

// Channels holds per-channel metadata, in state vector order.
var Channels = [NumChannels]Channel{
	Acetate:         {Name: "acetate", Symbol: "CH3COO-", Scale: 1e3, Unit: "mmol/L"},
	Oxygen:          {Name: "o2", Symbol: "O2", Scale: 1e3, Unit: "mmol/L"},
	Aerobes:         {Name: "aerobes", Symbol: "AOB", Biomass: true, Scale: 1e6, Unit: "umol/L"},
	Nitrate:         {Name: "no3", Symbol: "NO3-", Scale: 1e3, Unit: "mmol/L"},
	Nitrogen:        {Name: "n2", Symbol: "N2", Scale: 1e3, Unit: "mmol/L"},
	NitrateReducers: {Name: "nitrate_reducers", Symbol: "NRB", Biomass: true, Scale: 1e6, Unit: "umol/L"},
	DIC:             {Name: "dic", Symbol: "DIC", Scale: 1e3, Unit: "mmol/L"},
	Sulfate:         {Name: "so4", Symbol: "SO4 2-", Scale: 1e3, Unit: "mmol/L"},
	SulfateReducers: {Name: "sulfate_reducers", Symbol: "SRB", Biomass: true, Scale: 1e6, Unit: "umol/L"},
	Methanogens:     {Name: "methanogens", Symbol: "MB", Biomass: true, Scale: 1e6, Unit: "umol/L"},
	Methanotrophs:   {Name: "methanotrophs", Symbol: "MTB", Biomass: true, Scale: 1e6, Unit: "umol/L"},
	Hydrogenotrophs: {Name: "hydrogenotrophs", Symbol: "HMG", Biomass: true, Scale: 1e6, Unit: "umol/L"},
	Methane:         {Name: "ch4", Symbol: "CH4", Scale: 1e3, Unit: "mmol/L"},
	Hydrogen:        {Name: "h2", Symbol: "H2", Scale: 1e3, Unit: "mmol/L"},
	CarbonDioxide:   {Name: "co2", Symbol: "CO2", Scale: 1e3, Unit: "mmol/L"},
}

// Index resolves a channel by its machine key. Matching is
// case-insensitive.
func Index(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, c := range Channels {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}
