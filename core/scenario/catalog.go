package scenario

import (
	"errors"
	"sort"

	"github.com/kilianp07/pulsecore/core/model"
)

// ErrUnknownScenario is returned when a lookup names no catalog entry.
var ErrUnknownScenario = errors.New("unknown scenario")

// Storage Fill runs twice a week; the catalog normalizes it to a daily rate.
const storageFillPerDay = 2.0 / 7.0

var catalog = map[string]model.ScenarioDefinition{
	"Peak Demand":  {Name: "Peak Demand", SpinMinutes: 15, SpinsPerDay: 4, TargetFraction: 1.0},
	"Base Load":    {Name: "Base Load", SpinMinutes: 30, SpinsPerDay: 2, TargetFraction: 0.75},
	"Emergency":    {Name: "Emergency", SpinMinutes: 60, SpinsPerDay: 1, TargetFraction: 1.0},
	"Storage Fill": {Name: "Storage Fill", SpinMinutes: 120, SpinsPerDay: storageFillPerDay, TargetFraction: 0.5},
}

// Lookup returns the scenario registered under name.
func Lookup(name string) (model.ScenarioDefinition, error) {
	sc, ok := catalog[name]
	if !ok {
		return model.ScenarioDefinition{}, ErrUnknownScenario
	}
	return sc, nil
}

// All returns the catalog entries sorted by name.
func All() []model.ScenarioDefinition {
	out := make([]model.ScenarioDefinition, 0, len(catalog))
	for _, sc := range catalog {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
