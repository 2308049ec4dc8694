package work

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
)

// ResourceKind describes a named resource consumed by a work stage.
//
// Density converts mass into resource units (units = mass / density) and
// EnergyPerMass converts the same mass into the energy needed to process it.
type ResourceKind struct {
	name          string
	density       float64
	energyPerMass float64
}

// NewResourceKind creates a validated ResourceKind
func NewResourceKind(name string, density, energyPerMass float64) (ResourceKind, error) {
	if name == "" {
		return ResourceKind{}, shared.NewValidationError("name", "resource name cannot be empty")
	}
	if density <= 0 {
		return ResourceKind{}, shared.NewValidationError("density", fmt.Sprintf("resource %s density must be positive, got %g", name, density))
	}
	if energyPerMass < 0 {
		return ResourceKind{}, shared.NewValidationError("energy_per_mass", fmt.Sprintf("resource %s energy per mass cannot be negative, got %g", name, energyPerMass))
	}
	return ResourceKind{name: name, density: density, energyPerMass: energyPerMass}, nil
}

// MustResourceKind is NewResourceKind for static definitions; it panics on invalid input.
func MustResourceKind(name string, density, energyPerMass float64) ResourceKind {
	r, err := NewResourceKind(name, density, energyPerMass)
	if err != nil {
		panic(err)
	}
	return r
}

func (r ResourceKind) Name() string           { return r.name }
func (r ResourceKind) Density() float64       { return r.density }
func (r ResourceKind) EnergyPerMass() float64 { return r.energyPerMass }

// IsZero reports whether r is the zero ResourceKind ("no resource").
func (r ResourceKind) IsZero() bool { return r.name == "" }

// UnitsForMass converts mass into resource units.
func (r ResourceKind) UnitsForMass(mass float64) float64 {
	if r.density <= 0 {
		return 0
	}
	return mass / r.density
}

// EnergyForMass returns the energy needed to process the given mass.
func (r ResourceKind) EnergyForMass(mass float64) float64 {
	return mass * r.energyPerMass
}

func (r ResourceKind) String() string { return r.name }

// ResourceCatalog is the set of resources known to a world.
type ResourceCatalog struct {
	kinds map[string]ResourceKind
}

// NewResourceCatalog creates a catalog from the given kinds
func NewResourceCatalog(kinds ...ResourceKind) (*ResourceCatalog, error) {
	c := &ResourceCatalog{kinds: make(map[string]ResourceKind, len(kinds))}
	for _, k := range kinds {
		if err := c.Register(k); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a resource kind; duplicate names are rejected.
func (c *ResourceCatalog) Register(kind ResourceKind) error {
	if kind.IsZero() {
		return shared.NewValidationError("name", "resource name cannot be empty")
	}
	if _, exists := c.kinds[kind.name]; exists {
		return shared.NewValidationError("name", fmt.Sprintf("resource %s already registered", kind.name))
	}
	c.kinds[kind.name] = kind
	return nil
}

// Lookup returns the resource kind with the given name.
func (c *ResourceCatalog) Lookup(name string) (ResourceKind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

// Names returns the registered resource names in lexical order.
func (c *ResourceCatalog) Names() []string {
	names := make([]string, 0, len(c.kinds))
	for name := range c.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
