package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/input"
)

const stickDeadzone = 0.3

// Keyboard polls ebiten once per frame. Gamepad 0's left stick and bottom
// face button mirror the keys when connected.
type Keyboard struct {
	state input.State
	pause bool
}

var _ input.Source = (*Keyboard)(nil)

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Update samples the devices. Call it once at the start of each frame.
func (k *Keyboard) Update() {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	jump := ebiten.IsKeyPressed(ebiten.KeySpace)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	pause := inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		id := ids[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if x < -stickDeadzone {
			left = true
		} else if x > stickDeadzone {
			right = true
		}
		jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		pause = pause || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	k.state = input.State{Left: left, Right: right, Jump: jump, JumpPressed: jumpPressed}
	k.pause = pause
}

// PausePressed reports whether Escape or Start went down this frame.
func (k *Keyboard) PausePressed() bool {
	return k.pause
}

func (k *Keyboard) Held(key input.Key) bool {
	return k.state.Held(key)
}

func (k *Keyboard) Pressed(key input.Key) bool {
	return k.state.Pressed(key)
}
