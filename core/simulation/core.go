// Package simulation owns the spin-up core state machine. All mutation goes
// through the methods of Core, which serialize on a single mutex so command
// handlers and the tick scheduler never observe half-updated state.
package simulation

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/pulsecore/core/logger"
	"github.com/kilianp07/pulsecore/core/model"
	"github.com/kilianp07/pulsecore/core/safety"
	"github.com/kilianp07/pulsecore/core/scenario"
)

var (
	// ErrAlreadyRunning is returned by Start when a run is in progress.
	ErrAlreadyRunning = errors.New("core already running")
	// ErrNotRunning is returned by Stop and Reset when there is nothing to act on.
	ErrNotRunning = errors.New("core not running")
)

// Core is the single simulation instance of the process.
type Core struct {
	mu    sync.Mutex
	cfg   Config
	curve *safety.StressCurve
	log   logger.Logger

	status     model.CoreStatus
	scenario   model.ScenarioDefinition
	runID      string
	rpm        float64
	targetRPM  float64
	durationS  float64
	elapsedS   float64
	energyGJ   float64
	cycleCount int

	// stressSpike marks the abrupt halt of an emergency stop. It is consumed
	// by the first snapshot taken after the transition.
	stressSpike bool
}

// New creates an idle core from validated configuration.
func New(cfg Config, log logger.Logger) (*Core, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	curve, err := safety.NewStressCurve(cfg.StressCurve)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Core{cfg: cfg, curve: curve, log: log, status: model.StatusIdle}, nil
}

// Start begins a spin cycle for the named scenario. A positive
// durationMinutes overrides the scenario's configured spin time.
func (c *Core) Start(scenarioName string, durationMinutes float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != model.StatusIdle {
		return ErrAlreadyRunning
	}
	sc, err := scenario.Lookup(scenarioName)
	if err != nil {
		return err
	}
	minutes := sc.SpinMinutes
	if durationMinutes > 0 {
		minutes = durationMinutes
	}
	c.scenario = sc
	c.runID = uuid.NewString()
	c.status = model.StatusAccelerating
	c.targetRPM = sc.TargetFraction * c.cfg.MaxRPM
	c.durationS = minutes * 60
	c.elapsedS = 0
	c.energyGJ = -c.cfg.StartupEnergyGJ
	c.log.Infof("run %s started: scenario=%s target_rpm=%.0f duration=%.0fm", c.runID, sc.Name, c.targetRPM, minutes)
	return nil
}

// Stop begins deceleration. Stopping a core that is already decelerating is
// a successful no-op; stopping an idle or emergency-stopped core fails.
func (c *Core) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.status {
	case model.StatusIdle, model.StatusEmergencyStopped:
		return ErrNotRunning
	case model.StatusDecelerating:
		return nil
	default:
		c.status = model.StatusDecelerating
		c.elapsedS = 0
		c.log.Infof("run %s stopping at %.0f rpm", c.runID, c.rpm)
		return nil
	}
}

// EmergencyStop halts the core instantaneously, bypassing deceleration. It
// returns the snapshot carrying the one-time stress spike of the abrupt halt
// and the rpm the halt interrupted, both captured under the same lock so a
// concurrent tick cannot slip between them.
func (c *Core) EmergencyStop() (model.TelemetrySnapshot, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.rpm
	if c.status != model.StatusEmergencyStopped {
		c.log.Warnf("emergency stop from %s at %.0f rpm", c.status, c.rpm)
		c.stressSpike = true
		c.status = model.StatusEmergencyStopped
		c.rpm = 0
		c.elapsedS = 0
	}
	return c.snapshotLocked(), before
}

// Reset returns an emergency-stopped core to idle.
func (c *Core) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != model.StatusEmergencyStopped {
		return ErrNotRunning
	}
	c.status = model.StatusIdle
	c.scenario = model.ScenarioDefinition{}
	c.runID = ""
	c.targetRPM = 0
	c.elapsedS = 0
	c.log.Infof("core reset to idle")
	return nil
}

// Tick advances the simulation by dt seconds and returns the resulting
// telemetry snapshot.
func (c *Core) Tick(dt float64) model.TelemetrySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dt < 0 {
		dt = 0
	}
	switch c.status {
	case model.StatusAccelerating:
		c.rpm += math.Min(c.cfg.AccelRPMPerSec*dt, c.targetRPM-c.rpm)
		c.elapsedS += dt
		if c.rpm >= c.targetRPM {
			c.rpm = c.targetRPM
			c.status = model.StatusRunning
			c.elapsedS = 0
			c.log.Infof("run %s at target %.0f rpm", c.runID, c.rpm)
		}
	case model.StatusRunning:
		c.elapsedS += dt
		if c.elapsedS >= c.durationS {
			c.status = model.StatusDecelerating
			c.elapsedS = 0
			c.log.Infof("run %s duration reached, decelerating", c.runID)
		}
	case model.StatusDecelerating:
		c.rpm -= math.Min(c.cfg.DecelRPMPerSec*dt, c.rpm)
		c.elapsedS += dt
		if c.rpm <= 0 {
			c.rpm = 0
			c.status = model.StatusIdle
			c.elapsedS = 0
			c.cycleCount++
			c.log.Infof("run %s complete: cycles=%d net_energy=%.1f GJ", c.runID, c.cycleCount, c.energyGJ)
		}
	default:
		// idle and emergency-stopped cores do not move
	}
	if c.status != model.StatusIdle && c.status != model.StatusEmergencyStopped {
		// GW times seconds is GJ, so generation accrues without conversion.
		c.energyGJ += c.powerLocked() * dt
	}
	return c.snapshotLocked()
}

// Snapshot returns the current telemetry without advancing time.
func (c *Core) Snapshot() model.TelemetrySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Active reports whether the core needs tick-driven advancement.
func (c *Core) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status != model.StatusIdle && c.status != model.StatusEmergencyStopped
}

// Status returns the current state machine status.
func (c *Core) Status() model.CoreStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// CycleCount returns the number of completed spin cycles.
func (c *Core) CycleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycleCount
}

func (c *Core) powerLocked() float64 {
	if c.rpm <= 0 {
		return 0
	}
	return math.Pow(c.rpm/c.cfg.MaxRPM, c.cfg.PowerExponent) * c.cfg.PeakPowerGW
}

func (c *Core) kineticEnergyLocked() float64 {
	inertia := 0.5 * c.cfg.CoreMassKG * c.cfg.CoreRadiusM * c.cfg.CoreRadiusM
	omega := c.rpm * 2 * math.Pi / 60
	return 0.5 * inertia * omega * omega / 1e9
}

func (c *Core) snapshotLocked() model.TelemetrySnapshot {
	stress := c.curve.Stress(c.rpm, c.cfg.MaxRPM)
	if c.stressSpike {
		stress = 100
		c.stressSpike = false
	}
	class := safety.Classify(stress)
	return model.TelemetrySnapshot{
		Status:             c.status,
		ScenarioID:         c.scenario.Name,
		RunID:              c.runID,
		RPM:                c.rpm,
		TargetRPM:          c.targetRPM,
		PowerGW:            c.powerLocked(),
		KineticEnergyGJ:    c.kineticEnergyLocked(),
		MaterialStressPct:  stress,
		SafetyLevel:        class.Level,
		SafetyStatus:       class.Status,
		SafetyMessage:      class.Message,
		ElapsedSeconds:     c.elapsedS,
		CumulativeEnergyGJ: c.energyGJ,
		CycleCount:         c.cycleCount,
		Timestamp:          time.Now().UTC(),
	}
}
