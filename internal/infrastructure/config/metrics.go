package config

// MetricsConfig controls the optional Prometheus endpoint the run and
// simulate commands can expose. Disabled by default; the engine itself never
// depends on it.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path    string `mapstructure:"path"`
}
