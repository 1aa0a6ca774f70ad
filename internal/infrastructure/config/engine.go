package config

// EngineConfig holds the convergence engine cadences and limits
type EngineConfig struct {
	// Minimum game-hours between convergence passes on one map
	PassIntervalHours float64 `mapstructure:"pass_interval_hours" validate:"omitempty,gt=0"`

	// Tick modulus gating the scheduler's per-tick entry point
	TickModulus int64 `mapstructure:"tick_modulus" validate:"omitempty,min=1"`

	// Game-hours a desirability snapshot stays fresh
	DesirabilityRefreshHours float64 `mapstructure:"desirability_refresh_hours" validate:"omitempty,gt=0"`

	// Game-hours a per-template stat snapshot stays fresh
	CacheRefreshHours float64 `mapstructure:"cache_refresh_hours" validate:"omitempty,gt=0"`

	// Stock target for weapons that consume themselves as ammunition
	AmmoSelfTarget int `mapstructure:"ammo_self_target" validate:"omitempty,min=1"`

	// Maximum entries kept in the in-memory engine log
	LogCap int `mapstructure:"log_cap" validate:"omitempty,min=1"`
}
