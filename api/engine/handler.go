// Package engine exposes the read-only HTTP query surface of the simulation
// engine. Commands go through the MQTT transport; this handler only serves
// derived data.
package engine

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/pulsecore/core/model"
)

// ScenarioSource provides the per-scenario energy comparison.
type ScenarioSource interface {
	Scenarios() map[string]model.ScenarioEnergy
}

// StatusSource provides the latest telemetry snapshot.
type StatusSource interface {
	LatestSnapshot() model.TelemetrySnapshot
}

// NewHandler returns an HTTP handler serving GET /api/scenarios and
// GET /api/status.
func NewHandler(scenarios ScenarioSource, status StatusSource) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scenarios", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, scenarios.Scenarios())
	})
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, status.LatestSnapshot())
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
