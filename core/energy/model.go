// Package energy holds the closed-form capacity and yield calculations of
// the storage network. Everything here is pure and deterministic.
package energy

import (
	"fmt"
	"math"

	"github.com/kilianp07/pulsecore/core/model"
)

const (
	inchesToMeters = 0.0254
	gjPerGWh       = 3600.0
)

// StorageCapacity returns the capacity in GWh of a single conduit modeled as
// a cylinder of the given length and diameter filled at the given density.
func StorageCapacity(lengthM, diameterIn, densityGWhPerM3 float64) float64 {
	radius := diameterIn * inchesToMeters / 2
	volume := math.Pi * radius * radius * lengthM
	return volume * densityGWhPerM3
}

// NetworkCapacity derives the redundancy and total capacity of a conduit
// network. The active-conduit lower bound is enforced by the configuration
// store; the guard here keeps the division total.
func NetworkCapacity(cfg model.NetworkConfig, diameterIn, densityGWhPerM3 float64) (model.NetworkCapacity, error) {
	if cfg.ActiveConduits < 1 {
		return model.NetworkCapacity{}, fmt.Errorf("active conduits must be at least 1, got %d", cfg.ActiveConduits)
	}
	perConduit := StorageCapacity(float64(cfg.ConduitLengthM), diameterIn, densityGWhPerM3)
	return model.NetworkCapacity{
		StandbyConduits:  cfg.NumConduits - cfg.ActiveConduits,
		RedundancyFactor: float64(cfg.NumConduits) / float64(cfg.ActiveConduits),
		TotalCapacityGWh: float64(cfg.ActiveConduits) * perConduit,
	}, nil
}

// ScenarioEnergy computes the daily yield of an operating scenario. The
// startup cost is debited once per spin; the efficiency ratio is net over
// gross, defined as 0 when no energy is generated and never negative.
func ScenarioEnergy(sc model.ScenarioDefinition, peakPowerGW, startupEnergyGJ float64) model.ScenarioEnergy {
	daily := peakPowerGW * (sc.SpinMinutes / 60) * sc.SpinsPerDay
	startupGWh := startupEnergyGJ / gjPerGWh
	net := daily - startupGWh*sc.SpinsPerDay
	ratio := 0.0
	if daily > 0 {
		ratio = net / daily
		if ratio < 0 {
			ratio = 0
		}
	}
	return model.ScenarioEnergy{
		DailyEnergyGWh:  daily,
		NetEnergyGWh:    net,
		EfficiencyRatio: ratio,
	}
}
