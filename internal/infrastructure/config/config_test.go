package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidateCleanly(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "quartermaster.db", cfg.Database.Path)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, float64(6), cfg.Engine.PassIntervalHours)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestValidateRejectsUnknownDatabaseType(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Database.Type = "oracle"

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.Type")
}

func TestValidatePostgresRequiresURL(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Database.Type = "postgres"

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.URL")

	cfg.Database.URL = "postgres://qm:qm@localhost:5432/quartermaster"
	require.NoError(t, ValidateConfig(cfg))
}

func TestValidateRejectsFileLogOutput(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Logging.Output = "file"

	require.Error(t, ValidateConfig(cfg))
}
