package entity

import "github.com/milk9111/platformer/physics"

type GroundState uint8

const (
	Airborne GroundState = iota
	Grounded
)

func (s GroundState) String() string {
	if s == Grounded {
		return "grounded"
	}
	return "airborne"
}

// GroundSensor tracks foot-sensor contacts. Only events naming its own
// sensor shape count; every other event is ignored.
//
// Contacts are counted, so standing across two platforms and leaving one
// keeps the sensor grounded. An end event with no matching begin is dropped.
type GroundSensor struct {
	shape    physics.ShapeID
	contacts int
}

func NewGroundSensor(shape physics.ShapeID) *GroundSensor {
	return &GroundSensor{shape: shape}
}

// Shape is the sensor shape this machine listens for.
func (g *GroundSensor) Shape() physics.ShapeID {
	return g.shape
}

func (g *GroundSensor) State() GroundState {
	if g.contacts > 0 {
		return Grounded
	}
	return Airborne
}

func (g *GroundSensor) Grounded() bool {
	return g.State() == Grounded
}

// Contacts is the number of surfaces the sensor currently touches.
func (g *GroundSensor) Contacts() int {
	return g.contacts
}

// Begin records a begin-touch and reports whether the state changed.
func (g *GroundSensor) Begin(ev physics.SensorEvent) bool {
	if ev.Sensor != g.shape {
		return false
	}
	g.contacts++
	return g.contacts == 1
}

// End records an end-touch and reports whether the state changed.
func (g *GroundSensor) End(ev physics.SensorEvent) bool {
	if ev.Sensor != g.shape || g.contacts == 0 {
		return false
	}
	g.contacts--
	return g.contacts == 0
}

// Handle feeds one step's events, begins before ends, and reports whether the
// state differs from before the call.
func (g *GroundSensor) Handle(events physics.SensorEvents) bool {
	before := g.State()
	for _, ev := range events.Begin {
		g.Begin(ev)
	}
	for _, ev := range events.End {
		g.End(ev)
	}
	return g.State() != before
}
