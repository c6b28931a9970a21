package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AllFields(t *testing.T) {
	path := writeConfig(t, `connection:
  host: localhost
  port: 5433
  username: loader
  database: ny_taxi
  sslmode: disable
  aws_region: us-east-1

table: yellow_taxi_trips_2020_12
batch_size: 5000
url_prefix: https://mirror.example.com/yellow
sqlite: trips.db
timeout: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "loader", cfg.Connection.Username)
	assert.Equal(t, "ny_taxi", cfg.Connection.Database)
	assert.Equal(t, "disable", cfg.Connection.SSLMode)
	assert.Equal(t, "us-east-1", cfg.Connection.AWSRegion)
	assert.Equal(t, "yellow_taxi_trips_2020_12", cfg.Table)
	assert.Equal(t, 5000, cfg.BatchSize)
	assert.Equal(t, "https://mirror.example.com/yellow", cfg.URLPrefix)
	assert.Equal(t, "trips.db", cfg.SQLite)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Zero(t, cfg.BatchSize)
	assert.Empty(t, cfg.Connection.Host)

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "connection: [unclosed",
		"negative batch": "batch_size: -1",
		"bad timeout":    "timeout: soon",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrConfigNotFound))
		})
	}
}
