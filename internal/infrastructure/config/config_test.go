package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_FileValues(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
database:
  type: sqlite
  path: ":memory:"
daemon:
  address: "0.0.0.0:7000"
  scenario: configs/scenarios/outpost.yaml
  ticks_per_second: 4
  step: 30s
logging:
  level: debug
  format: json
scheduler:
  min_distance: 25
  max_distance: 100
  min_efficiency: 0.2
  energy_resource: Power
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "0.0.0.0:7000", cfg.Daemon.Address)
	assert.Equal(t, "configs/scenarios/outpost.yaml", cfg.Daemon.Scenario)
	assert.Equal(t, 4.0, cfg.Daemon.TicksPerSecond)
	assert.Equal(t, 30*time.Second, cfg.Daemon.Step)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	settings := cfg.Scheduler.ToSettings()
	assert.Equal(t, 25.0, settings.MinDistance)
	assert.Equal(t, 100.0, settings.MaxDistance)
	assert.Equal(t, 0.2, settings.MinEfficiency)
	assert.Equal(t, "Power", settings.EnergyResource)
	assert.NoError(t, settings.Validate())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
daemon:
  address: "localhost:7000"
logging:
  level: info
`)
	t.Setenv("GW_DAEMON_ADDRESS", "localhost:8000")
	t.Setenv("GW_LOGGING_LEVEL", "warn")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "localhost:8000", cfg.Daemon.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_DatabaseURL(t *testing.T) {
	// Arrange
	path := writeConfig(t, "database:\n  type: postgres\n")
	t.Setenv("DATABASE_URL", "postgresql://gw:secret@db:5432/groundworks")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "postgresql://gw:secret@db:5432/groundworks", cfg.Database.URL)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown database", "database:\n  type: mysql\n", "Type"},
		{"bad log level", "logging:\n  level: loud\n", "Level"},
		{"efficiency above one", "scheduler:\n  min_efficiency: 1.5\n", "MinEfficiency"},
		{"max below min", "scheduler:\n  min_distance: 300\n  max_distance: 100\n", "MaxDistance"},
		{"hold threshold of one", "scheduler:\n  resource_hold_threshold: 1\n", "ResourceHoldThreshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			path := writeConfig(t, tt.content)

			// Act
			_, err := config.LoadConfig(path)

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSetDefaults_MatchDomainDefaults(t *testing.T) {
	// Arrange
	cfg := &config.Config{}

	// Act
	config.SetDefaults(cfg)

	// Assert
	assert.Equal(t, workshop.DefaultSettings(), cfg.Scheduler.ToSettings())
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 60*time.Second, cfg.Scheduler.NoticeDedupWindow)
	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestLoadConfigOrDefault_FallsBack(t *testing.T) {
	// Arrange
	path := writeConfig(t, "logging:\n  level: loud\n")

	// Act
	cfg := config.LoadConfigOrDefault(path)

	// Assert
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateConfig_CrossFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		want   string
	}{
		{
			name: "postgres without target",
			mutate: func(cfg *config.Config) {
				cfg.Database.Type = "postgres"
				cfg.Database.Host = ""
			},
			want: "Database.URL: postgres needs a url",
		},
		{
			name: "metrics on the daemon port",
			mutate: func(cfg *config.Config) {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Port = 50061
			},
			want: "Metrics.Port",
		},
		{
			name: "idle above open",
			mutate: func(cfg *config.Config) {
				cfg.Database.Pool.MaxIdle = 50
			},
			want: "Database.Pool.MaxIdle (50) must be <= MaxOpen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := &config.Config{}
			config.SetDefaults(cfg)
			tt.mutate(cfg)

			// Act
			err := config.ValidateConfig(cfg)

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateConfig_MetricsOnOwnPort(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Metrics.Enabled = true

	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestLoadConfig_NestedEnvWithoutFileKey(t *testing.T) {
	// Arrange
	path := writeConfig(t, "logging:\n  level: info\n")
	t.Setenv("GW_DATABASE_SQLITE_BUSY_TIMEOUT", "9s")
	t.Setenv("GW_SCHEDULER_RESOURCE_HOLD_THRESHOLD", "0.25")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9*time.Second, cfg.Database.SQLite.BusyTimeout)
	assert.Equal(t, 0.25, cfg.Scheduler.ResourceHoldThreshold)
}
