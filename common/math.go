package common

import "github.com/go-gl/mathgl/mgl64"

// Scale is the number of display pixels per world unit.
const Scale = 100.0

// ToDisplay converts a world-unit length to pixels.
func ToDisplay(x float64) float64 {
	return x * Scale
}

// ToWorld converts a pixel length to world units.
func ToWorld(x float64) float64 {
	return x / Scale
}

func ToDisplayVec(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{ToDisplay(v[0]), ToDisplay(v[1])}
}

func ToWorldVec(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{ToWorld(v[0]), ToWorld(v[1])}
}
