package metrics

import coremetrics "github.com/kilianp07/pulsecore/core/metrics"

// MultiSink fans engine events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTelemetry forwards the snapshot to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordTelemetry(ev coremetrics.TelemetryEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTelemetry(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordCycle forwards cycle events to sinks that record them.
func (m *MultiSink) RecordCycle(ev coremetrics.CycleEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.CycleRecorder); ok {
			if err := rec.RecordCycle(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordEmergencyStop forwards emergency-stop events to sinks that record them.
func (m *MultiSink) RecordEmergencyStop(ev coremetrics.EmergencyStopEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.EmergencyStopRecorder); ok {
			if err := rec.RecordEmergencyStop(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordConfigUpdate forwards configuration events to sinks that record them.
func (m *MultiSink) RecordConfigUpdate(ev coremetrics.ConfigEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ConfigRecorder); ok {
			if err := rec.RecordConfigUpdate(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
