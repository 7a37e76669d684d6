package config

import "fmt"

// NetworkConfig sets the initial conduit topology and the per-conduit
// storage constants. Topology can be replaced at runtime through the
// configuration store; the constants are fixed for the process lifetime.
type NetworkConfig struct {
	ConduitLengthM  int     `json:"conduit_length_m"`
	NumConduits     int     `json:"num_conduits"`
	ActiveConduits  int     `json:"active_conduits"`
	DiameterIn      float64 `json:"conduit_diameter_in"`
	DensityGWhPerM3 float64 `json:"storage_density_gwh_per_m3"`
}

// SetDefaults applies the reference network: three 4-mile conduits, two
// active, 48 inch bore at 2.5 GWh/m³.
func (c *NetworkConfig) SetDefaults() {
	if c.ConduitLengthM == 0 {
		c.ConduitLengthM = 6437
	}
	if c.NumConduits == 0 {
		c.NumConduits = 3
	}
	if c.ActiveConduits == 0 {
		c.ActiveConduits = 2
	}
	if c.DiameterIn == 0 {
		c.DiameterIn = 48
	}
	if c.DensityGWhPerM3 == 0 {
		c.DensityGWhPerM3 = 2.5
	}
}

// Validate checks the topology invariants.
func (c NetworkConfig) Validate() error {
	if c.ConduitLengthM <= 0 || c.NumConduits <= 0 {
		return fmt.Errorf("conduit length and count must be positive")
	}
	if c.ActiveConduits < 1 || c.ActiveConduits > c.NumConduits {
		return fmt.Errorf("active conduits must be between 1 and %d", c.NumConduits)
	}
	if c.DiameterIn <= 0 || c.DensityGWhPerM3 <= 0 {
		return fmt.Errorf("conduit diameter and storage density must be positive")
	}
	return nil
}
