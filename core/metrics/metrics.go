// Package metrics defines the observability events emitted by the engine
// and the sink interfaces recording them. Sinks are implemented under infra.
package metrics

import (
	"time"

	"github.com/kilianp07/pulsecore/core/model"
)

// TelemetryEvent wraps one telemetry snapshot for recording.
type TelemetryEvent struct {
	Snapshot model.TelemetrySnapshot
	Time     time.Time
}

// Sink records telemetry snapshots for observability purposes.
type Sink interface {
	RecordTelemetry(ev TelemetryEvent) error
}

// CycleEvent captures a completed spin cycle.
type CycleEvent struct {
	ScenarioID  string
	CycleCount  int
	NetEnergyGJ float64
	Time        time.Time
}

// CycleRecorder records completed spin cycles.
type CycleRecorder interface {
	RecordCycle(ev CycleEvent) error
}

// EmergencyStopEvent captures an abrupt halt and the speed it interrupted.
type EmergencyStopEvent struct {
	RPMBefore float64
	Time      time.Time
}

// EmergencyStopRecorder records emergency stops.
type EmergencyStopRecorder interface {
	RecordEmergencyStop(ev EmergencyStopEvent) error
}

// ConfigEvent captures an accepted network configuration update.
type ConfigEvent struct {
	Config   model.NetworkConfig
	Capacity model.NetworkCapacity
	Time     time.Time
}

// ConfigRecorder records network configuration updates.
type ConfigRecorder interface {
	RecordConfigUpdate(ev ConfigEvent) error
}

// NopSink implements all recorder interfaces with no-op methods.
type NopSink struct{}

func (NopSink) RecordTelemetry(TelemetryEvent) error         { return nil }
func (NopSink) RecordCycle(CycleEvent) error                 { return nil }
func (NopSink) RecordEmergencyStop(EmergencyStopEvent) error { return nil }
func (NopSink) RecordConfigUpdate(ConfigEvent) error         { return nil }
