package metrics

import (
	"context"
	"math"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/pulsecore/core/metrics"
	"github.com/kilianp07/pulsecore/infra/logger"
)

// InfluxSink writes engine telemetry to an InfluxDB instance.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing backend never blocks
// the tick loop.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTelemetry writes one telemetry snapshot as a point.
func (s *InfluxSink) RecordTelemetry(ev coremetrics.TelemetryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap := ev.Snapshot
	p := write.NewPointWithMeasurement("core_telemetry").
		AddTag("status", snap.Status.String()).
		AddTag("safety_level", snap.SafetyLevel)
	if snap.ScenarioID != "" {
		p = p.AddTag("scenario", snap.ScenarioID)
	}
	p = p.AddField("rpm", round3(snap.RPM)).
		AddField("power_gw", round3(snap.PowerGW)).
		AddField("kinetic_energy_gj", round3(snap.KineticEnergyGJ)).
		AddField("material_stress_pct", round3(snap.MaterialStressPct)).
		AddField("cumulative_energy_gj", round3(snap.CumulativeEnergyGJ)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCycle writes a completed-cycle event.
func (s *InfluxSink) RecordCycle(ev coremetrics.CycleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("core_cycle_complete").
		AddTag("scenario", ev.ScenarioID).
		AddField("cycle_count", ev.CycleCount).
		AddField("net_energy_gj", round3(ev.NetEnergyGJ)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEmergencyStop writes an emergency-stop event.
func (s *InfluxSink) RecordEmergencyStop(ev coremetrics.EmergencyStopEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("core_emergency_stop").
		AddField("rpm_before", round3(ev.RPMBefore)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordConfigUpdate writes an accepted network configuration.
func (s *InfluxSink) RecordConfigUpdate(ev coremetrics.ConfigEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("network_config").
		AddField("conduit_length_m", ev.Config.ConduitLengthM).
		AddField("num_conduits", ev.Config.NumConduits).
		AddField("active_conduits", ev.Config.ActiveConduits).
		AddField("standby_conduits", ev.Capacity.StandbyConduits).
		AddField("redundancy_factor", round3(ev.Capacity.RedundancyFactor)).
		AddField("total_capacity_gwh", round3(ev.Capacity.TotalCapacityGWh)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
