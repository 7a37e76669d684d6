package model

import (
	"encoding/json"
	"testing"
)

func TestCoreStatusJSONLabels(t *testing.T) {
	statuses := []CoreStatus{
		StatusIdle,
		StatusAccelerating,
		StatusRunning,
		StatusDecelerating,
		StatusEmergencyStopped,
	}
	for _, s := range statuses {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		var back CoreStatus
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if back != s {
			t.Fatalf("%s round-tripped to %s", s, back)
		}
	}
}

func TestCoreStatusInSnapshot(t *testing.T) {
	snap := TelemetrySnapshot{Status: StatusEmergencyStopped, RPM: 0}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["status"] != "EMERGENCY_STOPPED" {
		t.Fatalf("status field = %v", raw["status"])
	}
}
