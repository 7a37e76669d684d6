// Package app wires the engine together: one core, one network store, one
// scheduler, and the transport edges. The Service owns the simulation state
// explicitly; nothing in the process reaches it except through here.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/pulsecore/api/engine"
	"github.com/kilianp07/pulsecore/config"
	"github.com/kilianp07/pulsecore/core/command"
	"github.com/kilianp07/pulsecore/core/energy"
	coremetrics "github.com/kilianp07/pulsecore/core/metrics"
	"github.com/kilianp07/pulsecore/core/model"
	"github.com/kilianp07/pulsecore/core/network"
	"github.com/kilianp07/pulsecore/core/scenario"
	"github.com/kilianp07/pulsecore/core/scheduler"
	"github.com/kilianp07/pulsecore/core/simulation"
	"github.com/kilianp07/pulsecore/core/telemetry"
	"github.com/kilianp07/pulsecore/infra/logger"
	"github.com/kilianp07/pulsecore/infra/metrics"
	"github.com/kilianp07/pulsecore/infra/mqtt"
)

// Service orchestrates the simulation engine and its transports.
type Service struct {
	cfg   *config.Config
	core  *simulation.Core
	store *network.Store
	bus   *telemetry.Bus
	sched *scheduler.Scheduler
	sink  coremetrics.Sink
	mqtt  *mqtt.Client
	log   logger.Logger
}

// New creates a Service from the configuration. The MQTT transport is only
// connected when enabled, so the engine runs standalone in tests and tools.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	core, err := simulation.New(cfg.Simulation, logger.New("core"))
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	store, err := network.NewStore(model.NetworkConfig{
		ConduitLengthM: cfg.Network.ConduitLengthM,
		NumConduits:    cfg.Network.NumConduits,
		ActiveConduits: cfg.Network.ActiveConduits,
	}, cfg.Network.DiameterIn, cfg.Network.DensityGWhPerM3)
	if err != nil {
		return nil, fmt.Errorf("network store: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := telemetry.NewBus()
	sched, err := scheduler.New(cfg.Scheduler, core, bus, sink, logger.New("scheduler"))
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	svc := &Service{
		cfg:   cfg,
		core:  core,
		store: store,
		bus:   bus,
		sched: sched,
		sink:  sink,
		log:   logg,
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.NewClient(cfg.MQTT, svc)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
	}
	return svc, nil
}

// Run starts the scheduler, transports and servers, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		if err := s.sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Errorf("scheduler: %v", err)
		}
	}()
	if s.mqtt != nil {
		sub := s.bus.Subscribe()
		go func() {
			defer s.bus.Unsubscribe(sub)
			for {
				select {
				case <-ctx.Done():
					return
				case snap, ok := <-sub:
					if !ok {
						return
					}
					if err := s.mqtt.PublishTelemetry(snap); err != nil {
						s.log.Errorf("publish telemetry: %v", err)
					}
				}
			}
		}()
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go func() {
			if err := s.serveAPI(ctx); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

func (s *Service) serveAPI(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: engine.NewHandler(s, s)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases the transports held by the service.
func (s *Service) Close() error {
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	s.bus.Close()
	return nil
}

// Start begins a spin cycle and wakes the scheduler.
func (s *Service) Start(scenarioName string, durationMinutes float64) error {
	if err := s.core.Start(scenarioName, durationMinutes); err != nil {
		return err
	}
	s.sched.Wake()
	return nil
}

// Stop begins deceleration of the current run.
func (s *Service) Stop() error {
	return s.core.Stop()
}

// EmergencyStop halts the core immediately and publishes the resulting
// snapshot so consumers see the transition without waiting for a tick.
func (s *Service) EmergencyStop() {
	snap, before := s.core.EmergencyStop()
	s.bus.Publish(snap)
	if err := s.sink.RecordTelemetry(coremetrics.TelemetryEvent{Snapshot: snap, Time: snap.Timestamp}); err != nil {
		s.log.Errorf("record telemetry: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.EmergencyStopRecorder); ok {
		if err := rec.RecordEmergencyStop(coremetrics.EmergencyStopEvent{RPMBefore: before, Time: snap.Timestamp}); err != nil {
			s.log.Errorf("record emergency stop: %v", err)
		}
	}
}

// Reset returns an emergency-stopped core to idle.
func (s *Service) Reset() error {
	if err := s.core.Reset(); err != nil {
		return err
	}
	s.bus.Publish(s.core.Snapshot())
	return nil
}

// UpdateNetworkConfig atomically replaces the conduit topology and returns
// the derived capacity report.
func (s *Service) UpdateNetworkConfig(lengthM, num, active int) (model.NetworkCapacity, error) {
	cap, err := s.store.Update(lengthM, num, active)
	if err != nil {
		return model.NetworkCapacity{}, err
	}
	if rec, ok := s.sink.(coremetrics.ConfigRecorder); ok {
		if err := rec.RecordConfigUpdate(coremetrics.ConfigEvent{
			Config:   s.store.Config(),
			Capacity: cap,
			Time:     time.Now(),
		}); err != nil {
			s.log.Errorf("record config update: %v", err)
		}
	}
	return cap, nil
}

// Scenarios returns the energy comparison for every catalog entry.
func (s *Service) Scenarios() map[string]model.ScenarioEnergy {
	out := make(map[string]model.ScenarioEnergy)
	for _, sc := range scenario.All() {
		out[sc.Name] = energy.ScenarioEnergy(sc, s.cfg.Simulation.PeakPowerGW, s.cfg.Simulation.StartupEnergyGJ)
	}
	return out
}

// LatestSnapshot returns the most recent telemetry, falling back to a live
// snapshot before the first tick.
func (s *Service) LatestSnapshot() model.TelemetrySnapshot {
	if snap, ok := s.bus.Latest(); ok {
		return snap
	}
	return s.core.Snapshot()
}

// NetworkCapacity returns the capacity report for the current topology.
func (s *Service) NetworkCapacity() model.NetworkCapacity {
	return s.store.Capacity()
}

// Handle implements command.Handler for the MQTT transport.
func (s *Service) Handle(cmd command.Command) command.Response {
	resp := command.Response{CommandID: cmd.CommandID}
	switch cmd.Action {
	case command.ActionStart:
		if err := s.Start(cmd.Scenario, cmd.DurationMinutes); err != nil {
			return fail(resp, err)
		}
		resp.Status = "started"
	case command.ActionStop:
		if err := s.Stop(); err != nil {
			return fail(resp, err)
		}
		resp.Status = "stopped"
	case command.ActionEmergencyStop:
		s.EmergencyStop()
		resp.Status = "emergency_stopped"
	case command.ActionReset:
		if err := s.Reset(); err != nil {
			return fail(resp, err)
		}
		resp.Status = "idle"
	case command.ActionUpdateNetwork:
		cap, err := s.UpdateNetworkConfig(cmd.ConduitLengthM, cmd.NumConduits, cmd.ActiveConduits)
		if err != nil {
			return fail(resp, err)
		}
		resp.Status = "updated"
		resp.Network = &cap
	case command.ActionGetScenarios:
		resp.Status = "ok"
		resp.Scenarios = s.Scenarios()
	default:
		return fail(resp, fmt.Errorf("unknown action %q", cmd.Action))
	}
	return resp
}

func fail(resp command.Response, err error) command.Response {
	resp.Status = "error"
	resp.Error = err.Error()
	return resp
}
