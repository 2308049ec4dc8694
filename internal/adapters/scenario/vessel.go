package scenario

import "github.com/andrescamacho/groundworks-go/internal/domain/shared"

// Vessel carries workshops and the crew that works them
type Vessel struct {
	id           string
	name         string
	position     shared.Position
	workforce    float64
	maxWorkforce float64
}

// NewVessel creates a vessel
func NewVessel(id, name string, position shared.Position, workforce, maxWorkforce float64) *Vessel {
	if name == "" {
		name = id
	}
	return &Vessel{id: id, name: name, position: position, workforce: workforce, maxWorkforce: maxWorkforce}
}

func (v *Vessel) ID() string                { return v.id }
func (v *Vessel) Name() string              { return v.name }
func (v *Vessel) Position() shared.Position { return v.position }
func (v *Vessel) Workforce() float64        { return v.workforce }
func (v *Vessel) MaxWorkforce() float64     { return v.maxWorkforce }

// SetWorkforce changes the crew's workforce, e.g. when crew boards or leaves
func (v *Vessel) SetWorkforce(workforce float64) {
	v.workforce = workforce
}

// MoveTo relocates the vessel
func (v *Vessel) MoveTo(position shared.Position) {
	v.position = position
}
