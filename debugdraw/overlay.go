// Package debugdraw outlines physics shapes over the rendered frame.
package debugdraw

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/physics"
	"github.com/milk9111/platformer/render"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	lineWidth = 1
	arcSteps  = 10
)

// Introspector is the read side of an engine the overlay needs.
type Introspector interface {
	Position(body physics.BodyID) mgl64.Vec2
	Rotation(body physics.BodyID) physics.Rot
	ShapeCount(body physics.BodyID) int
	Shapes(body physics.BodyID) []physics.ShapeID
	Geometry(shape physics.ShapeID) physics.Geometry
}

// Overlay outlines the shapes of the bodies it is given. A nil Overlay
// draws nothing.
type Overlay struct {
	log    *zap.Logger
	strict bool
	color  color.Color
	warned map[physics.ShapeKind]bool
}

type Option func(*Overlay)

func WithLogger(log *zap.Logger) Option {
	return func(o *Overlay) {
		if log != nil {
			o.log = log
		}
	}
}

// WithStrict makes a body without shapes panic instead of being skipped.
func WithStrict(strict bool) Option {
	return func(o *Overlay) { o.strict = strict }
}

func WithColor(clr color.Color) Option {
	return func(o *Overlay) { o.color = clr }
}

func New(opts ...Option) *Overlay {
	o := &Overlay{
		log:    zap.NewNop(),
		color:  colornames.Blue,
		warned: make(map[physics.ShapeKind]bool),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Draw outlines every shape of every body in bodies.
func (o *Overlay) Draw(c render.Canvas, eng Introspector, bodies ...physics.BodyID) {
	if o == nil || c == nil || eng == nil {
		return
	}
	for _, body := range bodies {
		o.drawBody(c, eng, body)
	}
}

func (o *Overlay) drawBody(c render.Canvas, eng Introspector, body physics.BodyID) {
	if eng.ShapeCount(body) == 0 {
		if o.strict {
			panic(fmt.Sprintf("debugdraw: body %+v has no shapes", body))
		}
		return
	}

	xf := physics.Transform{P: eng.Position(body), Q: eng.Rotation(body)}
	for _, shape := range eng.Shapes(body) {
		geom := eng.Geometry(shape)
		switch geom.Kind {
		case physics.ShapePolygon:
			o.polygon(c, xf, geom.Polygon)
		case physics.ShapeCapsule:
			o.capsule(c, xf, geom.Capsule)
		default:
			// Reported once per kind; this runs every frame.
			if !o.warned[geom.Kind] {
				o.warned[geom.Kind] = true
				o.log.Warn("unsupported shape kind",
					zap.Stringer("kind", geom.Kind),
					zap.Uint32("shape", shape.Index),
				)
			}
		}
	}
}

func (o *Overlay) polygon(c render.Canvas, xf physics.Transform, poly physics.Polygon) {
	n := len(poly.Vertices)
	if n < 2 {
		return
	}
	pts := make([]mgl64.Vec2, n)
	for i, v := range poly.Vertices {
		pts[i] = common.ToDisplayVec(xf.TransformPoint(v))
	}
	for i := range pts {
		o.line(c, pts[i], pts[(i+1)%n])
	}
}

func (o *Overlay) capsule(c render.Canvas, xf physics.Transform, capsule physics.Capsule) {
	p1 := xf.TransformPoint(capsule.Center1)
	p2 := xf.TransformPoint(capsule.Center2)
	r := capsule.Radius

	d := p2.Sub(p1)
	if d.Len() == 0 {
		center := common.ToDisplayVec(p1)
		c.StrokeCircle(center.X(), center.Y(), common.ToDisplay(r), lineWidth, o.color)
		return
	}
	axis := d.Normalize()
	normal := mgl64.Vec2{-axis.Y(), axis.X()}
	off := normal.Mul(r)

	o.line(c, common.ToDisplayVec(p1.Add(off)), common.ToDisplayVec(p2.Add(off)))
	o.line(c, common.ToDisplayVec(p1.Sub(off)), common.ToDisplayVec(p2.Sub(off)))
	o.arc(c, p2, axis, normal, r, -math.Pi/2)
	o.arc(c, p1, axis, normal, r, math.Pi/2)
}

// arc strokes the half circle around center starting at angle from, measured
// from axis toward normal.
func (o *Overlay) arc(c render.Canvas, center, axis, normal mgl64.Vec2, r, from float64) {
	at := func(th float64) mgl64.Vec2 {
		p := center.Add(axis.Mul(r * math.Cos(th))).Add(normal.Mul(r * math.Sin(th)))
		return common.ToDisplayVec(p)
	}
	prev := at(from)
	for i := 1; i <= arcSteps; i++ {
		cur := at(from + float64(i)*math.Pi/arcSteps)
		o.line(c, prev, cur)
		prev = cur
	}
}

func (o *Overlay) line(c render.Canvas, a, b mgl64.Vec2) {
	c.StrokeLine(a.X(), a.Y(), b.X(), b.Y(), lineWidth, o.color)
}
