// Package entity holds the two rigid-body entities of a world: static
// platforms and the dynamic player.
package entity

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/physics"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/render"
)

// Kind tells a static platform from the dynamic player.
type Kind uint8

const (
	Static Kind = iota
	Dynamic
)

func (k Kind) String() string {
	if k == Dynamic {
		return "dynamic"
	}
	return "static"
}

// Entity is a body plus the shapes attached to it. Position is cached in
// world units and refreshed by Update, so drawing never queries the engine.
type Entity struct {
	kind        Kind
	eng         physics.Engine
	body        physics.BodyID
	shapes      []physics.ShapeID
	position    mgl64.Vec2
	halfExtents mgl64.Vec2
	color       color.Color
	foot        *GroundSensor
	destroyed   bool
}

// NewPlatform registers a static box. Its pose never changes.
func NewPlatform(eng physics.Engine, spec prefabs.PlatformSpec) *Entity {
	pos := common.ToWorldVec(spec.Center.Vec2())
	half := common.ToWorldVec(spec.HalfExtents.Vec2())

	body := eng.CreateBody(physics.BodyDef{Type: physics.StaticBody, Position: pos})
	shape := eng.CreatePolygonShape(body, physics.ShapeDef{Material: material(spec.Material)}, physics.MakeBox(half.X(), half.Y()))

	e := &Entity{
		kind:        Static,
		eng:         eng,
		body:        body,
		shapes:      []physics.ShapeID{shape},
		position:    pos,
		halfExtents: half,
	}
	if spec.Color != nil {
		e.color = spec.Color.Color
	}
	return e
}

// NewPlayer registers the dynamic player body, its collider and the foot
// sensor straddling the bottom edge.
func NewPlayer(eng physics.Engine, spec prefabs.PlayerSpec) *Entity {
	pos := common.ToWorldVec(spec.Spawn.Vec2())
	half := common.ToWorldVec(spec.HalfExtents.Vec2())
	hx, hy := half.X(), half.Y()

	fixed := true
	if spec.FixedRotation != nil {
		fixed = *spec.FixedRotation
	}
	body := eng.CreateBody(physics.BodyDef{
		Type:          physics.DynamicBody,
		Position:      pos,
		FixedRotation: fixed,
		LinearDamping: spec.LinearDamping,
	})

	def := physics.ShapeDef{Material: material(spec.Material)}
	var collider physics.ShapeID
	switch spec.Collider {
	case prefabs.ColliderCapsule:
		collider = eng.CreateCapsuleShape(body, def, physics.Capsule{
			Center1: mgl64.Vec2{0, -(hy - hx)},
			Center2: mgl64.Vec2{0, hy - hx},
			Radius:  hx,
		})
	case prefabs.ColliderBox, "":
		collider = eng.CreatePolygonShape(body, def, physics.MakeBox(hx, hy))
	default:
		panic(fmt.Sprintf("entity: new player: unknown collider %q", spec.Collider))
	}

	frac := spec.FootSensor.WidthFraction
	if frac == 0 {
		frac = 1
	}
	thickness := common.ToWorld(spec.FootSensor.Thickness)
	foot := eng.CreatePolygonShape(body, physics.ShapeDef{Sensor: true},
		physics.MakeOffsetBox(hx*frac, thickness/2, mgl64.Vec2{0, hy}))

	e := &Entity{
		kind:        Dynamic,
		eng:         eng,
		body:        body,
		shapes:      []physics.ShapeID{collider, foot},
		position:    pos,
		halfExtents: half,
		foot:        NewGroundSensor(foot),
	}
	if spec.Color != nil {
		e.color = spec.Color.Color
	}
	return e
}

func material(m prefabs.MaterialSpec) physics.Material {
	return physics.Material{Friction: m.Friction, Restitution: m.Restitution, Density: m.Density}
}

func (e *Entity) Kind() Kind { return e.kind }

func (e *Entity) Body() physics.BodyID { return e.body }

// Shapes returns the entity's shapes, collider first.
func (e *Entity) Shapes() []physics.ShapeID {
	return append([]physics.ShapeID(nil), e.shapes...)
}

// Position is the cached body center in world units.
func (e *Entity) Position() mgl64.Vec2 { return e.position }

func (e *Entity) HalfExtents() mgl64.Vec2 { return e.halfExtents }

func (e *Entity) Color() color.Color { return e.color }

func (e *Entity) Destroyed() bool { return e.destroyed }

// Update copies the engine pose into the cache. Static entities never move.
func (e *Entity) Update() {
	if e.destroyed || e.kind != Dynamic {
		return
	}
	e.position = e.eng.Position(e.body)
}

// Rect returns the display-space bounds as top-left corner and size.
func (e *Entity) Rect() (x, y, w, h float64) {
	tl := common.ToDisplayVec(e.position.Sub(e.halfExtents))
	size := common.ToDisplayVec(e.halfExtents.Mul(2))
	return tl.X(), tl.Y(), size.X(), size.Y()
}

// Draw fills the entity's rectangle. A nil clr uses the entity's own color.
func (e *Entity) Draw(c render.Canvas, clr color.Color) {
	if e.destroyed {
		return
	}
	if clr == nil {
		clr = e.color
	}
	if clr == nil {
		clr = color.White
	}
	x, y, w, h := e.Rect()
	c.FillRect(x, y, w, h, clr)
}

// Sensor returns the player's ground sensor, or nil for a platform.
func (e *Entity) Sensor() *GroundSensor { return e.foot }

func (e *Entity) Grounded() bool {
	return e.foot != nil && e.foot.Grounded()
}

// HandleSensorEvents feeds one step's events to the ground sensor and
// reports whether the grounded state changed.
func (e *Entity) HandleSensorEvents(events physics.SensorEvents) bool {
	if e.foot == nil || e.destroyed {
		return false
	}
	return e.foot.Handle(events)
}

func (e *Entity) Mass() float64 {
	if e.destroyed {
		return 0
	}
	return e.eng.Mass(e.body)
}

// ApplyImpulse pushes the body at its center of mass and wakes it.
func (e *Entity) ApplyImpulse(impulse mgl64.Vec2) {
	if e.destroyed || e.kind != Dynamic {
		return
	}
	e.eng.ApplyLinearImpulse(e.body, impulse, e.eng.WorldCenterOfMass(e.body), true)
}

// Destroy releases every shape, then the body. Later calls do nothing.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	for i := len(e.shapes) - 1; i >= 0; i-- {
		e.eng.DestroyShape(e.shapes[i])
	}
	e.eng.DestroyBody(e.body)
	e.shapes = nil
	e.destroyed = true
}
