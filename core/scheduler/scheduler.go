// Package scheduler drives the core state machine at a fixed cadence and
// publishes the resulting telemetry snapshots.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/pulsecore/core/logger"
	"github.com/kilianp07/pulsecore/core/metrics"
	"github.com/kilianp07/pulsecore/core/simulation"
	"github.com/kilianp07/pulsecore/core/telemetry"
)

// Config defines the tick cadence.
type Config struct {
	TickIntervalMS int `json:"tick_interval_ms"`
}

// SetDefaults applies the 1 second default cadence.
func (c *Config) SetDefaults() {
	if c.TickIntervalMS == 0 {
		c.TickIntervalMS = 1000
	}
}

// Validate checks the cadence is usable.
func (c Config) Validate() error {
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive")
	}
	return nil
}

// Scheduler owns the background ticking task. While the core is at rest it
// parks instead of ticking; Wake resumes it after the next start command.
type Scheduler struct {
	cfg  Config
	core *simulation.Core
	bus  *telemetry.Bus
	sink metrics.Sink
	log  logger.Logger
	wake chan struct{}

	lastCycles int
}

// New creates a Scheduler. The sink may implement the optional recorder
// interfaces of core/metrics; nil falls back to NopSink.
func New(cfg Config, core *simulation.Core, bus *telemetry.Bus, sink metrics.Sink, log logger.Logger) (*Scheduler, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scheduler{
		cfg:        cfg,
		core:       core,
		bus:        bus,
		sink:       sink,
		log:        log,
		wake:       make(chan struct{}, 1),
		lastCycles: core.CycleCount(),
	}, nil
}

// Wake resumes ticking after a start command. Safe to call concurrently;
// redundant wakes are coalesced.
func (s *Scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run ticks the core until ctx is done. The scheduler lifecycle is
// independent of the simulation status: it outlives individual runs and is
// only terminated by context cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.TickIntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		if !s.core.Active() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.wake:
				// do not charge the idle wait to the next tick
				last = time.Now()
				ticker.Reset(interval)
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			snap := s.core.Tick(dt)
			s.bus.Publish(snap)
			if err := s.sink.RecordTelemetry(metrics.TelemetryEvent{Snapshot: snap, Time: now}); err != nil {
				s.log.Errorf("record telemetry: %v", err)
			}
			if snap.CycleCount > s.lastCycles {
				s.lastCycles = snap.CycleCount
				if rec, ok := s.sink.(metrics.CycleRecorder); ok {
					if err := rec.RecordCycle(metrics.CycleEvent{
						ScenarioID:  snap.ScenarioID,
						CycleCount:  snap.CycleCount,
						NetEnergyGJ: snap.CumulativeEnergyGJ,
						Time:        now,
					}); err != nil {
						s.log.Errorf("record cycle: %v", err)
					}
				}
			}
		case <-s.wake:
			// already ticking; nothing to do
		}
	}
}
