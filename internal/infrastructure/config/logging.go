package config

// LoggingConfig controls the CLI tee of the engine log. The engine always
// writes to its in-memory buffer; this only shapes the mirrored stream.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`
}
