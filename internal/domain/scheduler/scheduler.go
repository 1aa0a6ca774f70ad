// Package scheduler gates convergence passes on game time: passes run only
// on player-home, unpaused maps, on a coarse tick cadence, and at least a
// configured number of game hours apart.
package scheduler

import (
	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// Config holds the pass cadence.
type Config struct {
	// PassIntervalHours is the minimum game-hours between passes on one map.
	PassIntervalHours float64

	// TickModulus coarsens the Tick entry point: only ticks divisible by it
	// even consider running. 0 disables the modulus gate.
	TickModulus int64
}

// DefaultConfig returns the shipped cadence: a pass roughly every six game
// hours, checked once per in-game minute.
func DefaultConfig() Config {
	return Config{
		PassIntervalHours: 6,
		TickModulus:       shared.TicksPerHour / 60,
	}
}

// Scheduler drives one engine for one map.
type Scheduler struct {
	engine *convergence.Engine
	world  ports.World
	cfg    Config
	log    shared.EngineLogger

	lastPass shared.GameTime
	hasRun   bool
}

// New creates a scheduler for one map's engine.
func New(engine *convergence.Engine, world ports.World, cfg Config, logger shared.EngineLogger) *Scheduler {
	if logger == nil {
		logger = shared.NopLogger{}
	}
	if cfg.PassIntervalHours <= 0 {
		cfg.PassIntervalHours = 6
	}
	return &Scheduler{engine: engine, world: world, cfg: cfg, log: logger}
}

// ShouldRun reports whether a pass is due at the given time.
func (s *Scheduler) ShouldRun(now shared.GameTime) bool {
	if s.cfg.TickModulus > 0 && now.Ticks()%s.cfg.TickModulus != 0 {
		return false
	}
	if !s.world.IsPlayerHome() || s.world.Paused() {
		return false
	}
	if s.hasRun && now.HoursSince(s.lastPass) < s.cfg.PassIntervalHours {
		return false
	}
	return true
}

// Tick is the host's per-tick entry point. It runs a pass when one is due
// and returns its report, or nil when gated.
func (s *Scheduler) Tick(now shared.GameTime) *convergence.PassReport {
	if !s.ShouldRun(now) {
		return nil
	}
	return s.Force(now)
}

// Force runs a pass immediately, bypassing every gate. The interval clock
// still resets so the next scheduled pass counts from here.
func (s *Scheduler) Force(now shared.GameTime) *convergence.PassReport {
	report := s.engine.RunPass(now)
	s.lastPass = now
	s.hasRun = true
	s.log.Log(shared.LevelInfo, "convergence pass completed", map[string]interface{}{
		"map":     string(report.Map),
		"time":    now.String(),
		"tracked": report.PawnsTracked,
		"updated": report.PawnsUpdated,
		"equips":  report.EquipActions,
		"pickups": report.PickupActions,
		"drops":   report.DropActions,
		"claimed": report.Allocation.Claimed,
	})
	return report
}

// LastPass returns the time of the most recent pass.
func (s *Scheduler) LastPass() (shared.GameTime, bool) {
	return s.lastPass, s.hasRun
}
