package model

// ScenarioDefinition is a named operating profile. The catalog is fixed at
// process start; state machine runs only refer to entries by name.
type ScenarioDefinition struct {
	Name        string  `json:"name"`
	SpinMinutes float64 `json:"spin_minutes"`
	SpinsPerDay float64 `json:"spins_per_day"`
	// TargetFraction maps the scenario to its steady RPM as a fraction of
	// the configured maximum.
	TargetFraction float64 `json:"target_fraction"`
}

// ScenarioEnergy summarizes the daily energy yield of a scenario.
type ScenarioEnergy struct {
	DailyEnergyGWh  float64 `json:"daily_energy_gwh"`
	NetEnergyGWh    float64 `json:"net_energy_gwh"`
	EfficiencyRatio float64 `json:"efficiency_ratio"`
}
