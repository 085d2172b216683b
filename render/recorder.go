package render

import (
	"fmt"
	"image/color"
)

// Op is one recorded draw call.
type Op struct {
	Kind   string
	Coords []float64
	Color  color.Color
	Text   string
}

func (o Op) String() string {
	if o.Kind == "text" {
		return fmt.Sprintf("text %q %v", o.Text, o.Coords)
	}
	return fmt.Sprintf("%s %v", o.Kind, o.Coords)
}

// Recorder is a Canvas that keeps every call, for tests and headless runs.
type Recorder struct {
	Ops []Op
}

var _ Canvas = (*Recorder)(nil)

func (r *Recorder) FillRect(x, y, w, h float64, clr color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Coords: []float64{x, y, w, h}, Color: clr})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float64, clr color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "line", Coords: []float64{x1, y1, x2, y2, width}, Color: clr})
}

func (r *Recorder) StrokeCircle(cx, cy, r2, width float64, clr color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "circle", Coords: []float64{cx, cy, r2, width}, Color: clr})
}

func (r *Recorder) Text(s string, x, y int) {
	r.Ops = append(r.Ops, Op{Kind: "text", Coords: []float64{float64(x), float64(y)}, Text: s})
}

// Filter returns the recorded ops of one kind.
func (r *Recorder) Filter(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
