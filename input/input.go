// Package input provides key-state sources for the simulation.
package input

type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyJump
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Source answers key-state queries for the current frame.
type Source interface {
	// Held reports whether k is currently down.
	Held(k Key) bool
	// Pressed reports whether k went down this frame.
	Pressed(k Key) bool
}

// State is a fixed snapshot that satisfies Source.
type State struct {
	Left, Right, Jump bool
	JumpPressed       bool
}

func (s State) Held(k Key) bool {
	switch k {
	case KeyLeft:
		return s.Left
	case KeyRight:
		return s.Right
	case KeyJump:
		return s.Jump
	}
	return false
}

func (s State) Pressed(k Key) bool {
	return k == KeyJump && s.JumpPressed
}

// None is a source with nothing held.
var None Source = State{}
