package physics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeSensor
)

const (
	solverIterations = 20
	// collisionSlop is in world units; Chipmunk's default assumes pixels.
	collisionSlop = 0.005
)

var lastWorldID atomic.Uint32

func nextWorldID() WorldID {
	for {
		id := WorldID(lastWorldID.Add(1))
		if id != 0 {
			return id
		}
	}
}

// Chipmunk implements Engine on a single cp.Space.
type Chipmunk struct {
	id    WorldID
	space *cp.Space

	bodies pool[*bodyRecord]
	shapes pool[*shapeRecord]

	shapeIDs map[*cp.Shape]ShapeID
	events   SensorEvents
}

type bodyRecord struct {
	body   *cp.Body
	def    BodyDef
	shapes []ShapeID
}

type shapeRecord struct {
	shape *cp.Shape
	body  BodyID
	kind  ShapeKind
}

var _ Engine = (*Chipmunk)(nil)

// NewChipmunk creates a Chipmunk space configured from def.
func NewChipmunk(def WorldDef) *Chipmunk {
	space := cp.NewSpace()
	space.Iterations = solverIterations
	space.SetGravity(toCP(def.Gravity))
	space.SetCollisionSlop(collisionSlop)

	c := &Chipmunk{
		id:       nextWorldID(),
		space:    space,
		shapeIDs: make(map[*cp.Shape]ShapeID),
	}
	c.setupHandlers()
	return c
}

// ChipmunkFactory adapts NewChipmunk to Factory.
func ChipmunkFactory(def WorldDef) Engine {
	return NewChipmunk(def)
}

func (c *Chipmunk) ID() WorldID {
	return c.id
}

// Live returns the number of bodies and shapes not yet destroyed.
func (c *Chipmunk) Live() (bodies, shapes int) {
	return c.bodies.live, c.shapes.live
}

func (c *Chipmunk) setupHandlers() {
	handler := c.space.NewCollisionHandler(collisionTypeSensor, collisionTypeSolid)
	handler.UserData = c
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		eng, ok := userData.(*Chipmunk)
		if !ok || eng == nil {
			return true
		}
		if ev, ok := eng.sensorEvent(arb); ok {
			eng.events.Begin = append(eng.events.Begin, ev)
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		eng, ok := userData.(*Chipmunk)
		if !ok || eng == nil {
			return
		}
		if ev, ok := eng.sensorEvent(arb); ok {
			eng.events.End = append(eng.events.End, ev)
		}
	}
}

func (c *Chipmunk) sensorEvent(arb *cp.Arbiter) (SensorEvent, bool) {
	a, b := arb.Shapes()
	if !a.Sensor() && b.Sensor() {
		a, b = b, a
	}
	sensor, ok := c.shapeIDs[a]
	if !ok {
		return SensorEvent{}, false
	}
	return SensorEvent{Sensor: sensor, Visitor: c.shapeIDs[b]}, true
}

func (c *Chipmunk) CreateBody(def BodyDef) BodyID {
	c.mustBeOpen()

	var body *cp.Body
	switch def.Type {
	case StaticBody:
		body = cp.NewStaticBody()
	case DynamicBody:
		// Mass and moment are accumulated from shape densities.
		body = cp.NewBody(1, math.Inf(1))
		if def.LinearDamping > 0 {
			k := def.LinearDamping
			body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
				cp.BodyUpdateVelocity(b, gravity, damping/(1+dt*k), dt)
			})
		}
	default:
		panic(fmt.Sprintf("physics: create body: unknown body type %d", def.Type))
	}
	body.SetPosition(toCP(def.Position))
	c.space.AddBody(body)

	idx, gen := c.bodies.alloc(&bodyRecord{body: body, def: def})
	return BodyID{Index: idx, Generation: gen, World: c.id}
}

func (c *Chipmunk) CreatePolygonShape(id BodyID, def ShapeDef, poly Polygon) ShapeID {
	rec := c.body(id, "create polygon shape")
	if len(poly.Vertices) < 3 {
		panic(fmt.Sprintf("physics: create polygon shape: %d vertices", len(poly.Vertices)))
	}
	verts := make([]cp.Vector, len(poly.Vertices))
	for i, v := range poly.Vertices {
		verts[i] = toCP(v)
	}
	shape := cp.NewPolyShapeRaw(rec.body, len(verts), verts, poly.Radius)
	return c.attach(id, rec, shape, def, ShapePolygon)
}

func (c *Chipmunk) CreateCapsuleShape(id BodyID, def ShapeDef, capsule Capsule) ShapeID {
	rec := c.body(id, "create capsule shape")
	shape := cp.NewSegment(rec.body, toCP(capsule.Center1), toCP(capsule.Center2), capsule.Radius)
	return c.attach(id, rec, shape, def, ShapeCapsule)
}

func (c *Chipmunk) attach(id BodyID, rec *bodyRecord, shape *cp.Shape, def ShapeDef, kind ShapeKind) ShapeID {
	shape.SetFriction(def.Material.Friction)
	shape.SetElasticity(def.Material.Restitution)
	if def.Sensor {
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeSensor)
	} else {
		shape.SetCollisionType(collisionTypeSolid)
		if rec.def.Type == DynamicBody && def.Material.Density > 0 {
			shape.SetDensity(def.Material.Density)
		}
	}
	c.space.AddShape(shape)
	if rec.def.Type == DynamicBody && rec.def.FixedRotation {
		// Adding a massive shape recomputes the moment from scratch.
		rec.body.SetMoment(math.Inf(1))
	}

	idx, gen := c.shapes.alloc(&shapeRecord{shape: shape, body: id, kind: kind})
	sid := ShapeID{Index: idx, Generation: gen, World: c.id}
	c.shapeIDs[shape] = sid
	rec.shapes = append(rec.shapes, sid)
	return sid
}

func (c *Chipmunk) Step(dt float64, subSteps int) {
	c.mustBeOpen()
	if subSteps < 1 {
		subSteps = 1
	}
	c.events = SensorEvents{}
	h := dt / float64(subSteps)
	for i := 0; i < subSteps; i++ {
		c.space.Step(h)
	}
}

func (c *Chipmunk) Position(id BodyID) mgl64.Vec2 {
	return fromCP(c.body(id, "position").body.Position())
}

func (c *Chipmunk) Rotation(id BodyID) Rot {
	return MakeRot(c.body(id, "rotation").body.Angle())
}

func (c *Chipmunk) Mass(id BodyID) float64 {
	rec := c.body(id, "mass")
	if rec.def.Type != DynamicBody {
		return 0
	}
	return rec.body.Mass()
}

func (c *Chipmunk) WorldCenterOfMass(id BodyID) mgl64.Vec2 {
	body := c.body(id, "world center of mass").body
	return fromCP(body.LocalToWorld(body.CenterOfGravity()))
}

func (c *Chipmunk) ApplyLinearImpulse(id BodyID, impulse, point mgl64.Vec2, wake bool) {
	rec := c.body(id, "apply linear impulse")
	if rec.def.Type != DynamicBody {
		return
	}
	if wake {
		rec.body.Activate()
	}
	rec.body.ApplyImpulseAtWorldPoint(toCP(impulse), toCP(point))
}

func (c *Chipmunk) SensorEvents() SensorEvents {
	return SensorEvents{
		Begin: append([]SensorEvent(nil), c.events.Begin...),
		End:   append([]SensorEvent(nil), c.events.End...),
	}
}

func (c *Chipmunk) ShapeCount(id BodyID) int {
	return len(c.body(id, "shape count").shapes)
}

func (c *Chipmunk) Shapes(id BodyID) []ShapeID {
	return append([]ShapeID(nil), c.body(id, "shapes").shapes...)
}

func (c *Chipmunk) Geometry(id ShapeID) Geometry {
	rec := c.shape(id, "geometry")
	switch class := rec.shape.Class.(type) {
	case *cp.PolyShape:
		verts := make([]mgl64.Vec2, class.Count())
		for i := range verts {
			verts[i] = fromCP(class.Vert(i))
		}
		return Geometry{Kind: ShapePolygon, Polygon: Polygon{Vertices: verts, Radius: class.Radius()}}
	case *cp.Segment:
		return Geometry{Kind: ShapeCapsule, Capsule: Capsule{
			Center1: fromCP(class.A()),
			Center2: fromCP(class.B()),
			Radius:  class.Radius(),
		}}
	case *cp.Circle:
		return Geometry{Kind: ShapeCircle}
	default:
		return Geometry{Kind: ShapeUnknown}
	}
}

func (c *Chipmunk) DestroyShape(id ShapeID) {
	rec := c.shape(id, "destroy shape")
	if owner, ok := c.bodies.get(rec.body.Index, rec.body.Generation); ok {
		for i, sid := range owner.shapes {
			if sid == id {
				owner.shapes = append(owner.shapes[:i], owner.shapes[i+1:]...)
				break
			}
		}
	}
	c.space.RemoveShape(rec.shape)
	delete(c.shapeIDs, rec.shape)
	c.shapes.release(id.Index, id.Generation)
}

func (c *Chipmunk) DestroyBody(id BodyID) {
	rec := c.body(id, "destroy body")
	for len(rec.shapes) > 0 {
		c.DestroyShape(rec.shapes[len(rec.shapes)-1])
	}
	c.space.RemoveBody(rec.body)
	c.bodies.release(id.Index, id.Generation)
}

// Destroy drops the space. Bodies left alive are invalidated with it.
func (c *Chipmunk) Destroy() {
	if c.space == nil {
		return
	}
	var leaked []BodyID
	c.bodies.each(func(idx uint32, gen uint16, _ *bodyRecord) {
		leaked = append(leaked, BodyID{Index: idx, Generation: gen, World: c.id})
	})
	for _, id := range leaked {
		c.DestroyBody(id)
	}
	c.events = SensorEvents{}
	c.shapeIDs = nil
	c.space = nil
}

func (c *Chipmunk) mustBeOpen() {
	if c.space == nil {
		panic(fmt.Errorf("physics: world %d used after destroy: %w", c.id, ErrStaleHandle))
	}
}

func (c *Chipmunk) body(id BodyID, op string) *bodyRecord {
	c.mustBeOpen()
	if id.World != c.id {
		panic(fmt.Errorf("physics: %s: body %+v belongs to world %d: %w", op, id, id.World, ErrStaleHandle))
	}
	rec, ok := c.bodies.get(id.Index, id.Generation)
	if !ok {
		panic(fmt.Errorf("physics: %s: body %+v: %w", op, id, ErrStaleHandle))
	}
	return rec
}

func (c *Chipmunk) shape(id ShapeID, op string) *shapeRecord {
	c.mustBeOpen()
	if id.World != c.id {
		panic(fmt.Errorf("physics: %s: shape %+v belongs to world %d: %w", op, id, id.World, ErrStaleHandle))
	}
	rec, ok := c.shapes.get(id.Index, id.Generation)
	if !ok {
		panic(fmt.Errorf("physics: %s: shape %+v: %w", op, id, ErrStaleHandle))
	}
	return rec
}

func toCP(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: v[0], Y: v[1]}
}

func fromCP(v cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}
