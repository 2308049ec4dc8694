package config

import "time"

// MetricsConfig controls the Prometheus scrape endpoint. When disabled no
// collectors are registered and the mediator runs without the metrics middleware.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Bind address of the HTTP endpoint; localhost unless scraped remotely
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"min=0"`
}
