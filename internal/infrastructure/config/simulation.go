package config

// SimulationConfig holds the synthetic-colony simulation settings used by
// the simulate command and the BDD suite
type SimulationConfig struct {
	// Deterministic seed for colony generation
	Seed int64 `mapstructure:"seed"`

	// Number of colonists to generate
	Pawns int `mapstructure:"pawns" validate:"omitempty,min=1"`

	// Game-days to simulate
	Days int `mapstructure:"days" validate:"omitempty,min=1"`

	// Map identifier reported by the simulated world
	MapID string `mapstructure:"map_id"`

	// Host actions accepted per second; throttles the action sink the way
	// a real host throttles job dispatch
	ActionRate float64 `mapstructure:"action_rate" validate:"omitempty,gt=0"`

	// Burst size for the action throttle
	ActionBurst int `mapstructure:"action_burst" validate:"omitempty,min=1"`
}
