package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleYAML = `
simulation:
  max_rpm: 100000
  peak_power_gw: 150
scheduler:
  tick_interval_ms: 500
network:
  conduit_length_m: 1200
  num_conduits: 5
  active_conduits: 3
mqtt:
  enabled: true
  broker: tcp://broker:1883
  client_id: test
metrics:
  prometheus_enabled: true
api:
  enabled: true
  addr: ":8081"
`

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", sampleYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float64(100000), cfg.Simulation.MaxRPM)
	assert.Equal(t, float64(150), cfg.Simulation.PeakPowerGW)
	// Unset fields pick up the reference defaults.
	assert.Equal(t, float64(199), cfg.Simulation.CoreMassKG)
	assert.Equal(t, 500, cfg.Scheduler.TickIntervalMS)
	assert.Equal(t, 1200, cfg.Network.ConduitLengthM)
	assert.Equal(t, 3, cfg.Network.ActiveConduits)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "pulsecore/telemetry", cfg.MQTT.TelemetryTopic)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, ":8081", cfg.API.Addr)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"scheduler":{"tick_interval_ms":250}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Scheduler.TickIntervalMS)
	assert.Equal(t, float64(200000), cfg.Simulation.MaxRPM)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PC_MQTT__BROKER", "tcp://elsewhere:1883")
	t.Setenv("PC_API__ADDR", ":9999")
	path := writeConfig(t, "config.yaml", sampleYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://elsewhere:1883", cfg.MQTT.Broker)
	assert.Equal(t, ":9999", cfg.API.Addr)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	path := writeConfig(t, "config.yaml", "scheduler:\n  tick_interval_ms: -5\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler")
}

func TestLoadInvalidNetwork(t *testing.T) {
	path := writeConfig(t, "config.yaml", "network:\n  num_conduits: 2\n  active_conduits: 5\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float64(200000), cfg.Simulation.MaxRPM)
	assert.Equal(t, 1000, cfg.Scheduler.TickIntervalMS)
	assert.Equal(t, 6437, cfg.Network.ConduitLengthM)
	assert.False(t, cfg.MQTT.Enabled)
}
