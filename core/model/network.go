package model

// NetworkConfig describes the conduit topology of the storage network.
// Updates replace the whole triple; there are no partial merges.
type NetworkConfig struct {
	ConduitLengthM int `json:"conduit_length_m"`
	NumConduits    int `json:"num_conduits"`
	ActiveConduits int `json:"active_conduits"`
}

// NetworkCapacity is the derived capacity report for a NetworkConfig.
type NetworkCapacity struct {
	StandbyConduits  int     `json:"standby_conduits"`
	RedundancyFactor float64 `json:"redundancy_factor"`
	TotalCapacityGWh float64 `json:"total_capacity_gwh"`
}
