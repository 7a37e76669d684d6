// Package network holds the conduit topology configuration and derives its
// capacity report through the energy model.
package network

import (
	"errors"
	"sync"

	"github.com/kilianp07/pulsecore/core/energy"
	"github.com/kilianp07/pulsecore/core/model"
)

// ErrInvalidConfig is returned when an update violates the topology
// invariants. The store is left unchanged.
var ErrInvalidConfig = errors.New("invalid network configuration")

// Store owns the current NetworkConfig. Updates are atomic: readers either
// see the previous configuration or the fully applied new one.
type Store struct {
	mu              sync.RWMutex
	cfg             model.NetworkConfig
	diameterIn      float64
	densityGWhPerM3 float64
}

// NewStore creates a store with the given defaults and per-conduit constants.
func NewStore(defaults model.NetworkConfig, diameterIn, densityGWhPerM3 float64) (*Store, error) {
	if err := validate(defaults); err != nil {
		return nil, err
	}
	return &Store{cfg: defaults, diameterIn: diameterIn, densityGWhPerM3: densityGWhPerM3}, nil
}

func validate(cfg model.NetworkConfig) error {
	if cfg.ConduitLengthM <= 0 || cfg.NumConduits <= 0 {
		return ErrInvalidConfig
	}
	if cfg.ActiveConduits < 1 || cfg.ActiveConduits > cfg.NumConduits {
		return ErrInvalidConfig
	}
	return nil
}

// Update replaces the whole configuration and returns the derived capacity.
func (s *Store) Update(lengthM, num, active int) (model.NetworkCapacity, error) {
	cfg := model.NetworkConfig{ConduitLengthM: lengthM, NumConduits: num, ActiveConduits: active}
	if err := validate(cfg); err != nil {
		return model.NetworkCapacity{}, err
	}
	cap, err := energy.NetworkCapacity(cfg, s.diameterIn, s.densityGWhPerM3)
	if err != nil {
		return model.NetworkCapacity{}, err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return cap, nil
}

// Config returns the current configuration.
func (s *Store) Config() model.NetworkConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Capacity returns the capacity report for the current configuration.
func (s *Store) Capacity() model.NetworkCapacity {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	cap, _ := energy.NetworkCapacity(cfg, s.diameterIn, s.densityGWhPerM3)
	return cap
}
