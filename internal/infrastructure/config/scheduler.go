package config

import (
	"time"

	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// SchedulerConfig tunes distance decay and resource throttling
type SchedulerConfig struct {
	MinDistance             float64       `mapstructure:"min_distance" validate:"min=0"`
	MaxDistance             float64       `mapstructure:"max_distance" validate:"gtefield=MinDistance"`
	MinEfficiency           float64       `mapstructure:"min_efficiency" validate:"gt=0,lte=1"`
	EnergyShutdownThreshold float64       `mapstructure:"energy_shutdown_threshold" validate:"min=0,max=1"`
	ResourceHoldThreshold   float64       `mapstructure:"resource_hold_threshold" validate:"min=0,lt=1"`
	EnergyResource          string        `mapstructure:"energy_resource" validate:"required"`
	MaxStepsPerTick         int           `mapstructure:"max_steps_per_tick" validate:"min=1"`
	NoticeDedupWindow       time.Duration `mapstructure:"notice_dedup_window"`
}

// ToSettings converts the config into domain scheduler settings
func (c SchedulerConfig) ToSettings() workshop.Settings {
	return workshop.Settings{
		MinDistance:             c.MinDistance,
		MaxDistance:             c.MaxDistance,
		MinEfficiency:           c.MinEfficiency,
		EnergyShutdownThreshold: c.EnergyShutdownThreshold,
		ResourceHoldThreshold:   c.ResourceHoldThreshold,
		EnergyResource:          c.EnergyResource,
		MaxStepsPerTick:         c.MaxStepsPerTick,
	}
}
