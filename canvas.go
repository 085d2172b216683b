package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/render"
)

// screenCanvas draws onto the frame's ebiten image.
type screenCanvas struct {
	img *ebiten.Image
}

var _ render.Canvas = screenCanvas{}

func (s screenCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	vector.FillRect(s.img, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func (s screenCanvas) StrokeLine(x1, y1, x2, y2, width float64, clr color.Color) {
	vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), clr, true)
}

func (s screenCanvas) StrokeCircle(cx, cy, r, width float64, clr color.Color) {
	vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), float32(width), clr, true)
}

func (s screenCanvas) Text(str string, x, y int) {
	ebitenutil.DebugPrintAt(s.img, str, x, y)
}
