package simulation

import (
	"fmt"

	"github.com/kilianp07/pulsecore/core/safety"
)

// Config holds the physical constants of the simulated core. None of them
// are load-bearing physics; the defaults reproduce the reference design
// (200 GW at 200k RPM, 199 kg solid disk of 1.5 m radius).
type Config struct {
	MaxRPM          float64 `json:"max_rpm"`
	PeakPowerGW     float64 `json:"peak_power_gw"`
	CoreMassKG      float64 `json:"core_mass_kg"`
	CoreRadiusM     float64 `json:"core_radius_m"`
	AccelRPMPerSec  float64 `json:"accel_rpm_per_sec"`
	DecelRPMPerSec  float64 `json:"decel_rpm_per_sec"`
	StartupEnergyGJ float64 `json:"startup_energy_gj"`
	// PowerExponent shapes the rpm-to-power curve: (rpm/max)^k * peak.
	// Must be >= 1 so generation stays monotone and convex.
	PowerExponent float64 `json:"power_exponent"`
	// StressCurve samples the rpm-fraction to stress mapping. Empty means
	// the default mildly convex curve.
	StressCurve []safety.CurvePoint `json:"stress_curve"`
}

// SetDefaults applies the reference core constants.
func (c *Config) SetDefaults() {
	if c.MaxRPM == 0 {
		c.MaxRPM = 200000
	}
	if c.PeakPowerGW == 0 {
		c.PeakPowerGW = 200
	}
	if c.CoreMassKG == 0 {
		c.CoreMassKG = 199
	}
	if c.CoreRadiusM == 0 {
		c.CoreRadiusM = 1.5
	}
	if c.AccelRPMPerSec == 0 {
		c.AccelRPMPerSec = 1000
	}
	if c.DecelRPMPerSec == 0 {
		c.DecelRPMPerSec = 1000
	}
	if c.StartupEnergyGJ == 0 {
		c.StartupEnergyGJ = 2217.3
	}
	if c.PowerExponent == 0 {
		c.PowerExponent = 2
	}
	if len(c.StressCurve) == 0 {
		c.StressCurve = safety.DefaultCurve()
	}
}

// Validate checks the constants are physically usable.
func (c Config) Validate() error {
	if c.MaxRPM <= 0 {
		return fmt.Errorf("max_rpm must be positive")
	}
	if c.PeakPowerGW <= 0 {
		return fmt.Errorf("peak_power_gw must be positive")
	}
	if c.CoreMassKG <= 0 || c.CoreRadiusM <= 0 {
		return fmt.Errorf("core mass and radius must be positive")
	}
	if c.AccelRPMPerSec <= 0 || c.DecelRPMPerSec <= 0 {
		return fmt.Errorf("acceleration rates must be positive")
	}
	if c.StartupEnergyGJ < 0 {
		return fmt.Errorf("startup_energy_gj must not be negative")
	}
	if c.PowerExponent < 1 {
		return fmt.Errorf("power_exponent must be >= 1")
	}
	if _, err := safety.NewStressCurve(c.StressCurve); err != nil {
		return fmt.Errorf("stress_curve: %w", err)
	}
	return nil
}
