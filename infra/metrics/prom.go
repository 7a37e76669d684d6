package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/pulsecore/core/metrics"
)

// PromSink exports engine telemetry as Prometheus metrics.
type PromSink struct {
	rpm      prometheus.Gauge
	power    prometheus.Gauge
	kinetic  prometheus.Gauge
	stress   prometheus.Gauge
	capacity prometheus.Gauge
	cycles   prometheus.Counter
	estops   prometheus.Counter
}

// NewPromSink registers the engine metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		rpm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "core_rpm",
			Help: "Current rotational speed of the core",
		}),
		power: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "core_power_gw",
			Help: "Current power output in GW",
		}),
		kinetic: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "core_kinetic_energy_gj",
			Help: "Current kinetic energy of the core in GJ",
		}),
		stress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "core_material_stress_pct",
			Help: "Current material stress as a percentage of maximum",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "network_total_capacity_gwh",
			Help: "Total storage capacity of the active conduit network in GWh",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "core_cycles_total",
			Help: "Number of completed spin cycles",
		}),
		estops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "core_emergency_stops_total",
			Help: "Number of emergency stops",
		}),
	}
	collectors := []prometheus.Collector{s.rpm, s.power, s.kinetic, s.stress, s.capacity, s.cycles, s.estops}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch i {
				case 5:
					s.cycles = are.ExistingCollector.(prometheus.Counter)
				case 6:
					s.estops = are.ExistingCollector.(prometheus.Counter)
				default:
					g := are.ExistingCollector.(prometheus.Gauge)
					switch i {
					case 0:
						s.rpm = g
					case 1:
						s.power = g
					case 2:
						s.kinetic = g
					case 3:
						s.stress = g
					case 4:
						s.capacity = g
					}
				}
			} else {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordTelemetry sets the gauges from a snapshot.
func (s *PromSink) RecordTelemetry(ev coremetrics.TelemetryEvent) error {
	s.rpm.Set(ev.Snapshot.RPM)
	s.power.Set(ev.Snapshot.PowerGW)
	s.kinetic.Set(ev.Snapshot.KineticEnergyGJ)
	s.stress.Set(ev.Snapshot.MaterialStressPct)
	return nil
}

// RecordCycle increments the completed-cycle counter.
func (s *PromSink) RecordCycle(coremetrics.CycleEvent) error {
	s.cycles.Inc()
	return nil
}

// RecordEmergencyStop increments the emergency-stop counter.
func (s *PromSink) RecordEmergencyStop(coremetrics.EmergencyStopEvent) error {
	s.estops.Inc()
	return nil
}

// RecordConfigUpdate sets the network capacity gauge.
func (s *PromSink) RecordConfigUpdate(ev coremetrics.ConfigEvent) error {
	s.capacity.Set(ev.Capacity.TotalCapacityGWh)
	return nil
}
