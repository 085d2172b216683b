// Package physics defines the rigid-body engine boundary used by the
// simulation and a Chipmunk-backed implementation of it.
//
// All lengths and vectors crossing the boundary are in world units.
package physics

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrStaleHandle is wrapped by panics raised when a destroyed, null or
// foreign handle is passed to an engine.
var ErrStaleHandle = errors.New("physics: stale handle")

// WorldID tags every handle allocated by one engine instance.
type WorldID uint16

// BodyID identifies a body. The zero value is the null handle.
type BodyID struct {
	Index      uint32
	Generation uint16
	World      WorldID
}

// IsNull reports whether id is the zero handle.
func (id BodyID) IsNull() bool {
	return id == BodyID{}
}

// ShapeID identifies a shape. Two ShapeIDs are the same shape only when every
// field matches.
type ShapeID struct {
	Index      uint32
	Generation uint16
	World      WorldID
}

// IsNull reports whether id is the zero handle.
func (id ShapeID) IsNull() bool {
	return id == ShapeID{}
}

type BodyType uint8

const (
	StaticBody BodyType = iota
	DynamicBody
)

func (t BodyType) String() string {
	switch t {
	case StaticBody:
		return "static"
	case DynamicBody:
		return "dynamic"
	default:
		return "unknown"
	}
}

// WorldDef configures a new engine world.
type WorldDef struct {
	Gravity mgl64.Vec2
}

// BodyDef describes a body at creation time.
type BodyDef struct {
	Type          BodyType
	Position      mgl64.Vec2
	FixedRotation bool
	// LinearDamping slows linear velocity by 1/(1+dt*LinearDamping) per step.
	LinearDamping float64
}

// Material holds per-shape surface and mass properties.
type Material struct {
	Friction    float64
	Restitution float64
	Density     float64
}

// ShapeDef describes a shape at creation time. Sensor shapes report
// begin/end touch events and never take part in collision response.
type ShapeDef struct {
	Material Material
	Sensor   bool
}

type ShapeKind uint8

const (
	ShapeUnknown ShapeKind = iota
	ShapePolygon
	ShapeCapsule
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePolygon:
		return "polygon"
	case ShapeCapsule:
		return "capsule"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Polygon is a convex polygon in body-local coordinates, counter-clockwise.
type Polygon struct {
	Vertices []mgl64.Vec2
	Radius   float64
}

// MakeBox returns a box centered on the body origin.
func MakeBox(hx, hy float64) Polygon {
	return MakeOffsetBox(hx, hy, mgl64.Vec2{})
}

// MakeOffsetBox returns a box with half extents hx, hy centered at center.
func MakeOffsetBox(hx, hy float64, center mgl64.Vec2) Polygon {
	cx, cy := center.X(), center.Y()
	return Polygon{Vertices: []mgl64.Vec2{
		{cx + hx, cy - hy},
		{cx + hx, cy + hy},
		{cx - hx, cy + hy},
		{cx - hx, cy - hy},
	}}
}

// Capsule is a segment inflated by Radius, in body-local coordinates.
type Capsule struct {
	Center1 mgl64.Vec2
	Center2 mgl64.Vec2
	Radius  float64
}

// Circle is reported by Geometry only; the interface cannot create one.
type Circle struct {
	Center mgl64.Vec2
	Radius float64
}

// Geometry is a tagged union of the shape kinds an engine can report.
type Geometry struct {
	Kind    ShapeKind
	Polygon Polygon
	Capsule Capsule
	Circle  Circle
}

// Rot is a rotation stored as cosine and sine.
type Rot struct {
	C, S float64
}

var IdentityRot = Rot{C: 1}

// MakeRot returns the rotation by angle radians.
func MakeRot(angle float64) Rot {
	return Rot{C: math.Cos(angle), S: math.Sin(angle)}
}

// Apply rotates v.
func (q Rot) Apply(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{q.C*v[0] - q.S*v[1], q.S*v[0] + q.C*v[1]}
}

// Transform is a body's world pose.
type Transform struct {
	P mgl64.Vec2
	Q Rot
}

// TransformPoint maps a body-local point to world space.
func (t Transform) TransformPoint(v mgl64.Vec2) mgl64.Vec2 {
	return t.Q.Apply(v).Add(t.P)
}

// SensorEvent reports that Visitor started or stopped overlapping Sensor.
type SensorEvent struct {
	Sensor  ShapeID
	Visitor ShapeID
}

// SensorEvents holds the begin and end touches of the last completed step,
// each in the order the engine produced them.
type SensorEvents struct {
	Begin []SensorEvent
	End   []SensorEvent
}

// Empty reports whether the step produced no events.
func (e SensorEvents) Empty() bool {
	return len(e.Begin) == 0 && len(e.End) == 0
}

// Engine is the rigid-body solver consumed by the simulation.
type Engine interface {
	ID() WorldID

	CreateBody(def BodyDef) BodyID
	CreatePolygonShape(body BodyID, def ShapeDef, poly Polygon) ShapeID
	CreateCapsuleShape(body BodyID, def ShapeDef, capsule Capsule) ShapeID

	// Step advances the world by dt split into subSteps solver iterations and
	// replaces the sensor event queue with the events of this step.
	Step(dt float64, subSteps int)

	Position(body BodyID) mgl64.Vec2
	Rotation(body BodyID) Rot
	Mass(body BodyID) float64
	WorldCenterOfMass(body BodyID) mgl64.Vec2
	ApplyLinearImpulse(body BodyID, impulse, point mgl64.Vec2, wake bool)

	SensorEvents() SensorEvents

	ShapeCount(body BodyID) int
	Shapes(body BodyID) []ShapeID
	Geometry(shape ShapeID) Geometry

	DestroyShape(shape ShapeID)
	// DestroyBody destroys the body and every shape still attached to it.
	DestroyBody(body BodyID)
	// Destroy releases the world. Bodies must be destroyed first.
	Destroy()
}

// Factory creates an engine world.
type Factory func(def WorldDef) Engine
