package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/kilianp07/pulsecore/core/metrics"
)

type countingSink struct {
	telemetry int
	cycles    int
	estops    int
	configs   int
	err       error
}

func (c *countingSink) RecordTelemetry(coremetrics.TelemetryEvent) error {
	c.telemetry++
	return c.err
}

func (c *countingSink) RecordCycle(coremetrics.CycleEvent) error {
	c.cycles++
	return c.err
}

func (c *countingSink) RecordEmergencyStop(coremetrics.EmergencyStopEvent) error {
	c.estops++
	return c.err
}

func (c *countingSink) RecordConfigUpdate(coremetrics.ConfigEvent) error {
	c.configs++
	return c.err
}

// telemetryOnly implements only the base Sink interface.
type telemetryOnly struct{ telemetry int }

func (s *telemetryOnly) RecordTelemetry(coremetrics.TelemetryEvent) error {
	s.telemetry++
	return nil
}

func TestMultiSinkFanout(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{}
	m := NewMultiSink(a, b)

	if err := m.RecordTelemetry(coremetrics.TelemetryEvent{}); err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	if err := m.RecordCycle(coremetrics.CycleEvent{}); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if err := m.RecordEmergencyStop(coremetrics.EmergencyStopEvent{}); err != nil {
		t.Fatalf("estop: %v", err)
	}
	if err := m.RecordConfigUpdate(coremetrics.ConfigEvent{}); err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, s := range []*countingSink{a, b} {
		if s.telemetry != 1 || s.cycles != 1 || s.estops != 1 || s.configs != 1 {
			t.Fatalf("fanout missed a sink: %+v", s)
		}
	}
}

func TestMultiSinkSkipsNonRecorders(t *testing.T) {
	base := &telemetryOnly{}
	full := &countingSink{}
	m := NewMultiSink(base, full)

	if err := m.RecordCycle(coremetrics.CycleEvent{}); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if base.telemetry != 0 {
		t.Fatalf("base sink touched by cycle event")
	}
	if full.cycles != 1 {
		t.Fatalf("cycle recorder skipped")
	}
}

func TestMultiSinkPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMultiSink(&countingSink{err: boom}, &countingSink{})
	if err := m.RecordTelemetry(coremetrics.TelemetryEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
