package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) *Chipmunk {
	t.Helper()
	c := NewChipmunk(WorldDef{Gravity: mgl64.Vec2{0, 10}})
	t.Cleanup(c.Destroy)
	return c
}

func TestChipmunkWorldsTagHandles(t *testing.T) {
	a := newTestWorld(t)
	b := newTestWorld(t)
	require.NotEqual(t, a.ID(), b.ID())

	ba := a.CreateBody(BodyDef{Type: StaticBody})
	bb := b.CreateBody(BodyDef{Type: StaticBody})
	assert.Equal(t, ba.Index, bb.Index)
	assert.NotEqual(t, ba, bb)

	assert.ErrorIs(t, recoverError(func() { a.Position(bb) }), ErrStaleHandle)
	assert.ErrorIs(t, recoverError(func() { a.Position(BodyID{}) }), ErrStaleHandle)
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func TestChipmunkDynamicBodyFalls(t *testing.T) {
	c := newTestWorld(t)
	body := c.CreateBody(BodyDef{Type: DynamicBody, Position: mgl64.Vec2{1, 1}, FixedRotation: true})
	c.CreatePolygonShape(body, ShapeDef{Material: Material{Density: 1}}, MakeBox(0.5, 0.5))

	assert.InDelta(t, 1.0, c.Mass(body), 1e-9)
	start := c.Position(body)
	for i := 0; i < 30; i++ {
		c.Step(1.0/60.0, 4)
	}
	end := c.Position(body)
	assert.Greater(t, end.Y(), start.Y(), "gravity pulls toward +y")
	assert.InDelta(t, start.X(), end.X(), 1e-9)
	assert.InDelta(t, 1.0, c.Rotation(body).C, 1e-9)
}

func TestChipmunkImpulseChangesVelocity(t *testing.T) {
	c := NewChipmunk(WorldDef{})
	defer c.Destroy()
	body := c.CreateBody(BodyDef{Type: DynamicBody, FixedRotation: true})
	c.CreatePolygonShape(body, ShapeDef{Material: Material{Density: 2}}, MakeBox(0.25, 0.25))

	m := c.Mass(body)
	require.InDelta(t, 0.5, m, 1e-9)
	c.ApplyLinearImpulse(body, mgl64.Vec2{m * 1, 0}, c.WorldCenterOfMass(body), true)
	c.Step(1.0, 4)
	assert.InDelta(t, 1.0, c.Position(body).X(), 1e-6)
}

func TestChipmunkSensorEvents(t *testing.T) {
	c := newTestWorld(t)

	ground := c.CreateBody(BodyDef{Type: StaticBody, Position: mgl64.Vec2{0, 2}})
	groundShape := c.CreatePolygonShape(ground, ShapeDef{Material: Material{Friction: 1}}, MakeBox(5, 0.1))

	body := c.CreateBody(BodyDef{Type: DynamicBody, Position: mgl64.Vec2{0, 1}, FixedRotation: true, LinearDamping: 1})
	c.CreatePolygonShape(body, ShapeDef{Material: Material{Density: 1, Friction: 1}}, MakeBox(0.2, 0.2))
	foot := c.CreatePolygonShape(body, ShapeDef{Sensor: true}, MakeOffsetBox(0.18, 0.02, mgl64.Vec2{0, 0.2}))

	var begins []SensorEvent
	for i := 0; i < 240; i++ {
		c.Step(1.0/60.0, 4)
		ev := c.SensorEvents()
		begins = append(begins, ev.Begin...)
		assert.Empty(t, ev.End, "no separation while resting, tick %d", i)
	}

	require.Len(t, begins, 1)
	assert.Equal(t, foot, begins[0].Sensor)
	assert.Equal(t, groundShape, begins[0].Visitor)
	assert.InDelta(t, 2-0.1-0.2, c.Position(body).Y(), 0.02)
}

func TestChipmunkShapesAndGeometry(t *testing.T) {
	c := newTestWorld(t)
	body := c.CreateBody(BodyDef{Type: DynamicBody, FixedRotation: true})
	box := c.CreatePolygonShape(body, ShapeDef{Material: Material{Density: 1}}, MakeBox(1, 2))
	capsule := c.CreateCapsuleShape(body, ShapeDef{Sensor: true}, Capsule{Center1: mgl64.Vec2{0, -1}, Center2: mgl64.Vec2{0, 1}, Radius: 0.5})

	require.Equal(t, 2, c.ShapeCount(body))
	assert.Equal(t, []ShapeID{box, capsule}, c.Shapes(body))

	g := c.Geometry(box)
	require.Equal(t, ShapePolygon, g.Kind)
	require.Len(t, g.Polygon.Vertices, 4)
	for i, v := range MakeBox(1, 2).Vertices {
		assert.True(t, v.ApproxEqual(g.Polygon.Vertices[i]), "vertex %d", i)
	}

	g = c.Geometry(capsule)
	require.Equal(t, ShapeCapsule, g.Kind)
	assert.InDelta(t, 0.5, g.Capsule.Radius, 1e-9)
	assert.True(t, g.Capsule.Center2.ApproxEqual(mgl64.Vec2{0, 1}))
}

func TestChipmunkDestroy(t *testing.T) {
	c := NewChipmunk(WorldDef{})
	body := c.CreateBody(BodyDef{Type: DynamicBody})
	shape := c.CreatePolygonShape(body, ShapeDef{Material: Material{Density: 1}}, MakeBox(1, 1))
	c.CreatePolygonShape(body, ShapeDef{Sensor: true}, MakeBox(0.5, 0.5))

	c.DestroyShape(shape)
	assert.Equal(t, 1, c.ShapeCount(body))
	assert.Panics(t, func() { c.Geometry(shape) })

	c.DestroyBody(body)
	bodies, shapes := c.Live()
	assert.Zero(t, bodies)
	assert.Zero(t, shapes)
	assert.ErrorIs(t, recoverError(func() { c.Position(body) }), ErrStaleHandle)

	again := c.CreateBody(BodyDef{Type: StaticBody})
	assert.Equal(t, body.Index, again.Index)
	assert.NotEqual(t, body, again)

	c.Destroy()
	bodies, _ = c.Live()
	assert.Zero(t, bodies, "destroy invalidates leftover bodies")
	assert.Panics(t, func() { c.Step(1, 1) })
	c.Destroy()
}
