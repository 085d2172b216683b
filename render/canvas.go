// Package render is the draw-primitive sink. Coordinates are display pixels.
package render

import "image/color"

// Canvas receives fire-and-forget draw calls for one frame.
type Canvas interface {
	FillRect(x, y, w, h float64, clr color.Color)
	StrokeLine(x1, y1, x2, y2, width float64, clr color.Color)
	StrokeCircle(cx, cy, r, width float64, clr color.Color)
	Text(s string, x, y int)
}
