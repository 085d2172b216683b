package common

import "github.com/go-gl/mathgl/mgl64"

const (
	WindowWidth  = 640
	WindowHeight = 480

	TicksPerSecond = 60
	// TimeStep is the fixed simulation step in seconds.
	TimeStep = 1.0 / TicksPerSecond
	SubSteps = 4

	// MoveImpulse and JumpImpulse are multiplied by the player's mass.
	MoveImpulse = 0.5
	JumpImpulse = 6.0
)

// Gravity points down the screen; y grows downward in both unit systems.
var Gravity = mgl64.Vec2{0, 10}
