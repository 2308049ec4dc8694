package config

import (
	"time"

	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "groundworks.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "groundworks"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "groundworks"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = min(5, cfg.Database.Pool.MaxOpen)
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}
	if cfg.Database.SQLite.JournalMode == "" {
		cfg.Database.SQLite.JournalMode = "wal"
	}
	if cfg.Database.SQLite.BusyTimeout == 0 {
		cfg.Database.SQLite.BusyTimeout = 5 * time.Second
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "silent"
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}

	// Daemon defaults
	if cfg.Daemon.Address == "" {
		cfg.Daemon.Address = "localhost:50061"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "groundworks-daemon.pid"
	}
	if cfg.Daemon.TicksPerSecond == 0 {
		cfg.Daemon.TicksPerSecond = 1
	}
	if cfg.Daemon.TickBurst == 0 {
		cfg.Daemon.TickBurst = 5
	}
	if cfg.Daemon.Step == 0 {
		cfg.Daemon.Step = time.Second
	}
	if cfg.Daemon.PersistEvery == 0 {
		cfg.Daemon.PersistEvery = 30
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
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

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ReadHeaderTimeout == 0 {
		cfg.Metrics.ReadHeaderTimeout = 5 * time.Second
	}

	// Scheduler defaults. Zero is a meaningful value for the thresholds and
	// min_distance, so those only fall back when the whole section is unset.
	stock := workshop.DefaultSettings()
	if cfg.Scheduler.MaxDistance == 0 && cfg.Scheduler.MinDistance == 0 {
		cfg.Scheduler.MinDistance = stock.MinDistance
		cfg.Scheduler.MaxDistance = stock.MaxDistance
	}
	if cfg.Scheduler.MinEfficiency == 0 {
		cfg.Scheduler.MinEfficiency = stock.MinEfficiency
	}
	if cfg.Scheduler.EnergyShutdownThreshold == 0 && cfg.Scheduler.EnergyResource == "" {
		cfg.Scheduler.EnergyShutdownThreshold = stock.EnergyShutdownThreshold
	}
	if cfg.Scheduler.EnergyResource == "" {
		cfg.Scheduler.EnergyResource = stock.EnergyResource
	}
	if cfg.Scheduler.MaxStepsPerTick == 0 {
		cfg.Scheduler.MaxStepsPerTick = stock.MaxStepsPerTick
	}
	if cfg.Scheduler.NoticeDedupWindow == 0 {
		cfg.Scheduler.NoticeDedupWindow = 60 * time.Second
	}
}
