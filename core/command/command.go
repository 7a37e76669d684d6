// Package command defines the wire-level command/response surface consumed
// by external transports. The engine itself never depends on a transport;
// transports decode commands and hand them to a Handler.
package command

import "github.com/kilianp07/pulsecore/core/model"

// Action identifies the requested engine operation.
type Action string

const (
	ActionStart         Action = "start"
	ActionStop          Action = "stop"
	ActionEmergencyStop Action = "emergency_stop"
	ActionReset         Action = "reset"
	ActionUpdateNetwork Action = "update_network_config"
	ActionGetScenarios  Action = "get_scenarios"
)

// Command is a single engine command. Fields beyond Action are only read by
// the actions that need them.
type Command struct {
	CommandID       string  `json:"command_id"`
	Action          Action  `json:"action"`
	Scenario        string  `json:"scenario,omitempty"`
	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	ConduitLengthM  int     `json:"conduit_length_m,omitempty"`
	NumConduits     int     `json:"num_conduits,omitempty"`
	ActiveConduits  int     `json:"active_conduits,omitempty"`
}

// Response reports the outcome of a command. Errors are carried as strings;
// they never cross the boundary as panics or transport failures.
type Response struct {
	CommandID string                          `json:"command_id"`
	Status    string                          `json:"status"`
	Error     string                          `json:"error,omitempty"`
	Network   *model.NetworkCapacity          `json:"network,omitempty"`
	Scenarios map[string]model.ScenarioEnergy `json:"scenarios,omitempty"`
}

// Handler executes commands against the engine.
type Handler interface {
	Handle(cmd Command) Response
}
