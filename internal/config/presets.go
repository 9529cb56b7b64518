package config

import "sort"

var Presets = map[string]*Config{
	"gentle": {
		Function: "Convex", LearningRate: 0.05, Start: -1.5, Steps: 10,
	},
	"fast": {
		Function: "Convex", LearningRate: 0.4, Start: -1.5, Steps: 10,
	},
	"overshoot": {
		Function: "Convex", LearningRate: 0.95, Start: -1.5, Steps: 12,
	},
	"local-minimum": {
		Function: "Non-Convex", LearningRate: 0.05, Start: 1.5, Steps: 15,
	},
	"escape": {
		Function: "Non-Convex", LearningRate: 0.3, Start: 1.5, Steps: 20,
	},
}

// GetPreset returns a copy of the named preset with the remaining fields
// defaulted, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Function = p.Function
	cfg.LearningRate = p.LearningRate
	cfg.Start = p.Start
	cfg.Steps = p.Steps
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
