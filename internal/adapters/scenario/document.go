package scenario

// Document is the YAML layout of a scenario file
type Document struct {
	Name      string              `yaml:"name" validate:"required"`
	Resources []ResourceDocument  `yaml:"resources" validate:"required,min=1,dive"`
	Pool      []ReservoirDocument `yaml:"pool" validate:"dive"`
	Hosts     []HostDocument      `yaml:"hosts" validate:"dive"`
	Vessels   []VesselDocument    `yaml:"vessels" validate:"dive"`
}

// ResourceDocument defines a resource kind
type ResourceDocument struct {
	Name          string  `yaml:"name" validate:"required"`
	Density       float64 `yaml:"density" validate:"gt=0"`
	EnergyPerMass float64 `yaml:"energy_per_mass" validate:"gte=0"`
}

// ReservoirDocument seeds the resource pool
type ReservoirDocument struct {
	Resource       string  `yaml:"resource" validate:"required"`
	Stock          float64 `yaml:"stock" validate:"gte=0"`
	Capacity       float64 `yaml:"capacity" validate:"gte=0"`
	RegenPerSecond float64 `yaml:"regen_per_second" validate:"gte=0"`
}

// PositionDocument is a point in world space
type PositionDocument struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// HostDocument is a construction site carrying one kit
type HostDocument struct {
	ID       string           `yaml:"id" validate:"required"`
	Name     string           `yaml:"name"`
	Position PositionDocument `yaml:"position"`
	// IDLE, DEPLOYING or DEPLOYED
	DeployState string `yaml:"deploy_state" validate:"omitempty,oneof=IDLE DEPLOYING DEPLOYED idle deploying deployed"`
	// Seconds a DEPLOYING host needs to become DEPLOYED
	DeploySeconds float64     `yaml:"deploy_seconds" validate:"gte=0"`
	Kit           KitDocument `yaml:"kit"`
}

// KitDocument is a composite job
type KitDocument struct {
	Name  string         `yaml:"name"`
	Parts []PartDocument `yaml:"parts" validate:"required,min=1,dive"`
}

// PartDocument is a member job, repeated Count times
type PartDocument struct {
	Name   string                   `yaml:"name" validate:"required"`
	Count  int                      `yaml:"count" validate:"gte=0"`
	Stages []StageDocument          `yaml:"stages" validate:"required,min=1,dive"`
	Curves map[string]CurveDocument `yaml:"curves" validate:"dive"`
}

// StageDocument is one work stage of a part
type StageDocument struct {
	Kind     string  `yaml:"kind" validate:"required"`
	Resource string  `yaml:"resource" validate:"required"`
	Work     float64 `yaml:"work" validate:"gte=0"`
}

// CurveDocument is a parameter curve
type CurveDocument struct {
	Interpolation string          `yaml:"interpolation"`
	Points        []PointDocument `yaml:"points" validate:"required,min=1,dive"`
}

// PointDocument is a curve control point
type PointDocument struct {
	At    float64 `yaml:"at" validate:"gte=0,lte=1"`
	Value float64 `yaml:"value"`
}

// VesselDocument hosts workshops and supplies their workforce
type VesselDocument struct {
	ID           string             `yaml:"id" validate:"required"`
	Name         string             `yaml:"name"`
	Position     PositionDocument   `yaml:"position"`
	Workforce    float64            `yaml:"workforce" validate:"gte=0"`
	MaxWorkforce float64            `yaml:"max_workforce" validate:"gte=0"`
	Workshops    []WorkshopDocument `yaml:"workshops" validate:"dive"`
}

// WorkshopDocument is a workshop aboard a vessel
type WorkshopDocument struct {
	ID        string   `yaml:"id" validate:"required"`
	Name      string   `yaml:"name"`
	Kinds     []string `yaml:"kinds"`
	Queue     []string `yaml:"queue"`
	Discover  bool     `yaml:"discover"`
	Autostart bool     `yaml:"autostart"`
}
