package model

import (
	"encoding/json"
	"time"
)

// CoreStatus defines the state of the spin-up core.
type CoreStatus int

const (
	StatusIdle CoreStatus = iota
	StatusAccelerating
	StatusRunning
	StatusDecelerating
	StatusEmergencyStopped
)

// String returns a human-readable representation of the core status.
func (s CoreStatus) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusAccelerating:
		return "ACCELERATING"
	case StatusRunning:
		return "RUNNING"
	case StatusDecelerating:
		return "DECELERATING"
	case StatusEmergencyStopped:
		return "EMERGENCY_STOPPED"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string label so telemetry consumers
// never depend on the internal enum ordering.
func (s CoreStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status label produced by MarshalJSON.
func (s *CoreStatus) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "ACCELERATING":
		*s = StatusAccelerating
	case "RUNNING":
		*s = StatusRunning
	case "DECELERATING":
		*s = StatusDecelerating
	case "EMERGENCY_STOPPED":
		*s = StatusEmergencyStopped
	default:
		*s = StatusIdle
	}
	return nil
}

// TelemetrySnapshot is the per-tick value handed to telemetry consumers.
// It is always a copy; consumers never share state with the core.
type TelemetrySnapshot struct {
	Status             CoreStatus `json:"status"`
	ScenarioID         string     `json:"scenario_id,omitempty"`
	RunID              string     `json:"run_id,omitempty"`
	RPM                float64    `json:"rpm"`
	TargetRPM          float64    `json:"target_rpm"`
	PowerGW            float64    `json:"power_gw"`
	KineticEnergyGJ    float64    `json:"kinetic_energy_gj"`
	MaterialStressPct  float64    `json:"material_stress_pct"`
	SafetyLevel        string     `json:"safety_level"`
	SafetyStatus       string     `json:"safety_status"`
	SafetyMessage      string     `json:"safety_message"`
	ElapsedSeconds     float64    `json:"elapsed_seconds"`
	CumulativeEnergyGJ float64    `json:"cumulative_energy_gj"`
	CycleCount         int        `json:"cycle_count"`
	Timestamp          time.Time  `json:"timestamp"`
}
