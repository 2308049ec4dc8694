package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// gRPC server address for daemon (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// PID file guarding against a second daemon on the same database
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Scenario file describing resources, hosts and workshops
	Scenario string `mapstructure:"scenario"`

	// Wall-clock tick rate of the scheduler loop
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"gt=0"`

	// Ticks allowed to run back to back after a stall
	TickBurst int `mapstructure:"tick_burst" validate:"min=1"`

	// Simulation time covered by one tick
	Step time.Duration `mapstructure:"step" validate:"required"`

	// Persist state every N ticks (0 disables periodic persistence)
	PersistEvery int `mapstructure:"persist_every" validate:"min=0"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
