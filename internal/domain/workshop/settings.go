package workshop

import (
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
)

// Settings tunes the scheduler
type Settings struct {
	// Up to MinDistance a workshop works at full efficiency
	MinDistance float64

	// Beyond MaxDistance a job is unreachable
	MaxDistance float64

	// Efficiency at exactly MaxDistance, in (0, 1]
	MinEfficiency float64

	// Granted/requested energy below this stops work for the tick
	EnergyShutdownThreshold float64

	// Throttle fractions at or below this put the job on hold instead of
	// doing a sliver of work
	ResourceHoldThreshold float64

	// Name of the resource that carries energy
	EnergyResource string

	// Upper bound on DoSomeWork iterations per tick
	MaxStepsPerTick int
}

// DefaultSettings returns the stock scheduler tuning
func DefaultSettings() Settings {
	return Settings{
		MinDistance:             50,
		MaxDistance:             200,
		MinEfficiency:           0.1,
		EnergyShutdownThreshold: 0.99,
		ResourceHoldThreshold:   0,
		EnergyResource:          "ElectricCharge",
		MaxStepsPerTick:         64,
	}
}

// Validate checks the settings for consistency
func (s Settings) Validate() error {
	if s.MinDistance < 0 {
		return shared.NewValidationError("min_distance", fmt.Sprintf("cannot be negative, got %g", s.MinDistance))
	}
	if s.MaxDistance < s.MinDistance {
		return shared.NewValidationError("max_distance", fmt.Sprintf("%g is below min_distance %g", s.MaxDistance, s.MinDistance))
	}
	if s.MinEfficiency <= 0 || s.MinEfficiency > 1 {
		return shared.NewValidationError("min_efficiency", fmt.Sprintf("must be in (0, 1], got %g", s.MinEfficiency))
	}
	if s.EnergyShutdownThreshold < 0 || s.EnergyShutdownThreshold > 1 {
		return shared.NewValidationError("energy_shutdown_threshold", fmt.Sprintf("must be in [0, 1], got %g", s.EnergyShutdownThreshold))
	}
	if s.ResourceHoldThreshold < 0 || s.ResourceHoldThreshold >= 1 {
		return shared.NewValidationError("resource_hold_threshold", fmt.Sprintf("must be in [0, 1), got %g", s.ResourceHoldThreshold))
	}
	if s.EnergyResource == "" {
		return shared.NewValidationError("energy_resource", "cannot be empty")
	}
	if s.MaxStepsPerTick < 1 {
		return shared.NewValidationError("max_steps_per_tick", fmt.Sprintf("must be positive, got %d", s.MaxStepsPerTick))
	}
	return nil
}

// DistanceEfficiency maps a workshop-to-host distance to a work multiplier.
//
// Full efficiency up to MinDistance, linear falloff to MinEfficiency at
// MaxDistance, zero (unreachable) beyond it.
func (s Settings) DistanceEfficiency(distance float64) float64 {
	if distance > s.MaxDistance {
		return 0
	}
	if distance <= s.MinDistance || s.MaxDistance <= s.MinDistance {
		return 1
	}
	t := (distance - s.MinDistance) / (s.MaxDistance - s.MinDistance)
	return 1 - t*(1-s.MinEfficiency)
}
