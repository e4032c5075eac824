package config

import "sort"

// Presets holds the ready-made column scenarios. Access them through
// Preset, which hands out copies.
var Presets = map[string]*Config{
	"freshwater":   Default(),
	"sulfate_rich": sulfateRich(),
	"anoxic":       anoxic(),
	"no_sulfate":   noSulfate(),
}

// sulfateRich is a marine-like column: so much sulfate that acetate
// runs out before the sulfate does, keeping methanogenesis suppressed
// for the whole run.
func sulfateRich() *Config {
	c := Default()
	c.Scenario = "sulfate_rich"
	c.Initial["so4"] = 2.8e-2
	return c
}

// anoxic starts with no dissolved oxygen, skipping the aerobic phase.
func anoxic() *Config {
	c := Default()
	c.Scenario = "anoxic"
	c.Initial["o2"] = 0
	return c
}

// noSulfate removes the sulfate pool and its reducers, so
// methanogenesis takes over as soon as nitrate clears.
func noSulfate() *Config {
	c := Default()
	c.Scenario = "no_sulfate"
	c.Initial["so4"] = 0
	c.Initial["sulfate_reducers"] = 0
	return c
}

// Preset returns a copy of a named scenario, or nil if it does not
// exist.
func Preset(name string) *Config {
	c, ok := Presets[name]
	if !ok {
		return nil
	}
	return c.Clone()
}

// ListScenarios returns the preset names in stable order.
func ListScenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
