// Package control turns per-frame key state into impulses on the player.
package control

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/input"
)

// Move is the horizontal direction asked for in one frame.
type Move int8

const (
	MoveNone Move = iota
	MoveLeft
	MoveRight
)

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return "none"
	}
}

// Intent is what the player asked for this frame.
type Intent struct {
	Move Move
	Jump bool
}

// Sample reads src once. Right wins when both directions are held; jump
// fires only on the frame the key goes down.
func Sample(src input.Source) Intent {
	if src == nil {
		return Intent{}
	}
	var in Intent
	switch {
	case src.Held(input.KeyRight):
		in.Move = MoveRight
	case src.Held(input.KeyLeft):
		in.Move = MoveLeft
	}
	in.Jump = src.Pressed(input.KeyJump)
	return in
}

// Body is the part of the player the mapper drives.
type Body interface {
	Mass() float64
	ApplyImpulse(impulse mgl64.Vec2)
	Grounded() bool
}

// Mapper scales impulses by the body's current mass.
type Mapper struct {
	MoveImpulse float64
	JumpImpulse float64
}

func DefaultMapper() Mapper {
	return Mapper{MoveImpulse: common.MoveImpulse, JumpImpulse: common.JumpImpulse}
}

// Result reports which impulses Apply issued.
type Result struct {
	Moved  bool
	Jumped bool
}

// Apply issues at most one horizontal and one vertical impulse. The jump is
// dropped unless b is grounded when Apply runs.
func (m Mapper) Apply(b Body, in Intent) Result {
	var res Result
	if b == nil {
		return res
	}
	if in.Move == MoveNone && !in.Jump {
		return res
	}

	mass := b.Mass()
	switch in.Move {
	case MoveRight:
		b.ApplyImpulse(mgl64.Vec2{mass * m.MoveImpulse, 0})
		res.Moved = true
	case MoveLeft:
		b.ApplyImpulse(mgl64.Vec2{-mass * m.MoveImpulse, 0})
		res.Moved = true
	}
	if in.Jump && b.Grounded() {
		b.ApplyImpulse(mgl64.Vec2{0, -mass * m.JumpImpulse})
		res.Jumped = true
	}
	return res
}
