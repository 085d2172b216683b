package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestUnitRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.3, 1e-9, 123456.789, -0.015, 1e300}
	for _, x := range values {
		got := ToWorld(ToDisplay(x))
		assert.InDelta(t, x, got, math.Abs(x)*1e-12, "x=%v", x)
	}
}

func TestVectorConversion(t *testing.T) {
	v := mgl64.Vec2{0.3, -1.25}
	d := ToDisplayVec(v)
	assert.InDelta(t, 30.0, d.X(), 1e-9)
	assert.InDelta(t, -125.0, d.Y(), 1e-9)
	assert.True(t, v.ApproxEqual(ToWorldVec(d)))
}
