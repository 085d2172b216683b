// Package physicstest provides an in-memory physics.Engine that records
// every call, for tests that care about ordering rather than dynamics.
package physicstest

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/physics"
)

// Call is one recorded engine call.
type Call struct {
	Op      string
	Body    physics.BodyID
	Shape   physics.ShapeID
	Vec     mgl64.Vec2
	Point   mgl64.Vec2
	Float   float64
	SubStep int
}

type body struct {
	def    physics.BodyDef
	pos    mgl64.Vec2
	rot    physics.Rot
	mass   float64
	shapes []physics.ShapeID
}

type shape struct {
	body physics.BodyID
	def  physics.ShapeDef
	geom physics.Geometry
}

var lastID atomic.Uint32

// Engine is a fake physics.Engine. Bodies do not move unless a test moves
// them with SetPosition.
type Engine struct {
	id     physics.WorldID
	Calls  []Call
	bodies map[physics.BodyID]*body
	shapes map[physics.ShapeID]*shape
	next   uint32

	pending   physics.SensorEvents
	current   physics.SensorEvents
	destroyed bool

	// DynamicMass is the starting mass of dynamic bodies created afterwards.
	DynamicMass float64
	Def         physics.WorldDef
}

var _ physics.Engine = (*Engine)(nil)

func New(def physics.WorldDef) *Engine {
	return &Engine{
		id:          physics.WorldID(0x8000 | (lastID.Add(1) & 0x7fff)),
		bodies:      make(map[physics.BodyID]*body),
		shapes:      make(map[physics.ShapeID]*shape),
		DynamicMass: 1,
		Def:         def,
	}
}

// Factory returns a physics.Factory that hands out e and records the def.
func Factory(e *Engine) physics.Factory {
	return func(def physics.WorldDef) physics.Engine {
		e.Def = def
		e.record(Call{Op: "new"})
		return e
	}
}

func (e *Engine) record(c Call) {
	e.Calls = append(e.Calls, c)
}

// Ops lists the recorded operation names in order.
func (e *Engine) Ops() []string {
	ops := make([]string, len(e.Calls))
	for i, c := range e.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the recorded calls of one operation.
func (e *Engine) Filter(op string) []Call {
	var out []Call
	for _, c := range e.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) Reset() {
	e.Calls = nil
}

// Live returns the number of bodies and shapes not yet destroyed.
func (e *Engine) Live() (bodies, shapes int) {
	return len(e.bodies), len(e.shapes)
}

func (e *Engine) Destroyed() bool {
	return e.destroyed
}

// QueueEvents makes events visible after the next Step.
func (e *Engine) QueueEvents(events physics.SensorEvents) {
	e.pending.Begin = append(e.pending.Begin, events.Begin...)
	e.pending.End = append(e.pending.End, events.End...)
}

func (e *Engine) SetPosition(id physics.BodyID, p mgl64.Vec2) {
	e.body(id).pos = p
}

// SetMass changes the mass reported for one body from now on.
func (e *Engine) SetMass(id physics.BodyID, m float64) {
	e.body(id).mass = m
}

func (e *Engine) SetRotation(id physics.BodyID, q physics.Rot) {
	e.body(id).rot = q
}

// AddShape attaches arbitrary geometry, including kinds the real engine
// cannot create through the interface.
func (e *Engine) AddShape(id physics.BodyID, geom physics.Geometry) physics.ShapeID {
	return e.attach(id, physics.ShapeDef{}, geom, "create_shape")
}

func (e *Engine) ID() physics.WorldID {
	return e.id
}

func (e *Engine) CreateBody(def physics.BodyDef) physics.BodyID {
	e.mustBeOpen()
	e.next++
	id := physics.BodyID{Index: e.next, Generation: 1, World: e.id}
	b := &body{def: def, pos: def.Position, rot: physics.IdentityRot}
	if def.Type == physics.DynamicBody {
		b.mass = e.DynamicMass
	}
	e.bodies[id] = b
	e.record(Call{Op: "create_body", Body: id, Vec: def.Position})
	return id
}

func (e *Engine) CreatePolygonShape(id physics.BodyID, def physics.ShapeDef, poly physics.Polygon) physics.ShapeID {
	return e.attach(id, def, physics.Geometry{Kind: physics.ShapePolygon, Polygon: poly}, "create_polygon")
}

func (e *Engine) CreateCapsuleShape(id physics.BodyID, def physics.ShapeDef, capsule physics.Capsule) physics.ShapeID {
	return e.attach(id, def, physics.Geometry{Kind: physics.ShapeCapsule, Capsule: capsule}, "create_capsule")
}

func (e *Engine) attach(id physics.BodyID, def physics.ShapeDef, geom physics.Geometry, op string) physics.ShapeID {
	b := e.body(id)
	e.next++
	sid := physics.ShapeID{Index: e.next, Generation: 1, World: e.id}
	e.shapes[sid] = &shape{body: id, def: def, geom: geom}
	b.shapes = append(b.shapes, sid)
	e.record(Call{Op: op, Body: id, Shape: sid})
	return sid
}

// IsSensor reports whether the shape was created as a sensor.
func (e *Engine) IsSensor(id physics.ShapeID) bool {
	return e.shape(id).def.Sensor
}

func (e *Engine) BodyDef(id physics.BodyID) physics.BodyDef {
	return e.body(id).def
}

func (e *Engine) Step(dt float64, subSteps int) {
	e.mustBeOpen()
	e.current = e.pending
	e.pending = physics.SensorEvents{}
	e.record(Call{Op: "step", Float: dt, SubStep: subSteps})
}

func (e *Engine) Position(id physics.BodyID) mgl64.Vec2 {
	p := e.body(id).pos
	e.record(Call{Op: "position", Body: id, Vec: p})
	return p
}

func (e *Engine) Rotation(id physics.BodyID) physics.Rot {
	return e.body(id).rot
}

func (e *Engine) Mass(id physics.BodyID) float64 {
	return e.body(id).mass
}

func (e *Engine) WorldCenterOfMass(id physics.BodyID) mgl64.Vec2 {
	return e.body(id).pos
}

func (e *Engine) ApplyLinearImpulse(id physics.BodyID, impulse, point mgl64.Vec2, wake bool) {
	e.body(id)
	if !wake {
		panic("physicstest: impulse applied without wake")
	}
	e.record(Call{Op: "impulse", Body: id, Vec: impulse, Point: point})
}

func (e *Engine) SensorEvents() physics.SensorEvents {
	e.mustBeOpen()
	e.record(Call{Op: "sensor_events"})
	return physics.SensorEvents{
		Begin: append([]physics.SensorEvent(nil), e.current.Begin...),
		End:   append([]physics.SensorEvent(nil), e.current.End...),
	}
}

func (e *Engine) ShapeCount(id physics.BodyID) int {
	return len(e.body(id).shapes)
}

func (e *Engine) Shapes(id physics.BodyID) []physics.ShapeID {
	return append([]physics.ShapeID(nil), e.body(id).shapes...)
}

func (e *Engine) Geometry(id physics.ShapeID) physics.Geometry {
	return e.shape(id).geom
}

func (e *Engine) DestroyShape(id physics.ShapeID) {
	s := e.shape(id)
	if b, ok := e.bodies[s.body]; ok {
		for i, sid := range b.shapes {
			if sid == id {
				b.shapes = append(b.shapes[:i], b.shapes[i+1:]...)
				break
			}
		}
	}
	delete(e.shapes, id)
	e.record(Call{Op: "destroy_shape", Body: s.body, Shape: id})
}

func (e *Engine) DestroyBody(id physics.BodyID) {
	b := e.body(id)
	for len(b.shapes) > 0 {
		e.DestroyShape(b.shapes[len(b.shapes)-1])
	}
	delete(e.bodies, id)
	e.record(Call{Op: "destroy_body", Body: id})
}

func (e *Engine) Destroy() {
	if e.destroyed {
		panic(fmt.Errorf("physicstest: world %d destroyed twice: %w", e.id, physics.ErrStaleHandle))
	}
	e.destroyed = true
	e.record(Call{Op: "destroy"})
}

func (e *Engine) mustBeOpen() {
	if e.destroyed {
		panic(fmt.Errorf("physicstest: world %d used after destroy: %w", e.id, physics.ErrStaleHandle))
	}
}

func (e *Engine) body(id physics.BodyID) *body {
	e.mustBeOpen()
	b, ok := e.bodies[id]
	if !ok {
		panic(fmt.Errorf("physicstest: body %+v: %w", id, physics.ErrStaleHandle))
	}
	return b
}

func (e *Engine) shape(id physics.ShapeID) *shape {
	e.mustBeOpen()
	s, ok := e.shapes[id]
	if !ok {
		panic(fmt.Errorf("physicstest: shape %+v: %w", id, physics.ErrStaleHandle))
	}
	return s
}
