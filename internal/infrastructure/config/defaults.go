package config

import (
	"time"

	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "quartermaster.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Engine defaults
	if cfg.Engine.PassIntervalHours == 0 {
		cfg.Engine.PassIntervalHours = 6
	}
	if cfg.Engine.TickModulus == 0 {
		cfg.Engine.TickModulus = shared.TicksPerHour / 60
	}
	if cfg.Engine.DesirabilityRefreshHours == 0 {
		cfg.Engine.DesirabilityRefreshHours = 24
	}
	if cfg.Engine.CacheRefreshHours == 0 {
		cfg.Engine.CacheRefreshHours = 24
	}
	if cfg.Engine.AmmoSelfTarget == 0 {
		cfg.Engine.AmmoSelfTarget = 5
	}
	if cfg.Engine.LogCap == 0 {
		cfg.Engine.LogCap = shared.DefaultLogCap
	}

	// Simulation defaults
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 1
	}
	if cfg.Simulation.Pawns == 0 {
		cfg.Simulation.Pawns = 10
	}
	if cfg.Simulation.Days == 0 {
		cfg.Simulation.Days = 5
	}
	if cfg.Simulation.MapID == "" {
		cfg.Simulation.MapID = "sim-1"
	}
	if cfg.Simulation.ActionRate == 0 {
		cfg.Simulation.ActionRate = 50
	}
	if cfg.Simulation.ActionBurst == 0 {
		cfg.Simulation.ActionBurst = 100
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9091
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
