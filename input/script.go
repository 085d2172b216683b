package input

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ErrScriptOutput is wrapped when a script leaves a key output that is not a bool.
var ErrScriptOutput = errors.New("input: script: output is not a bool")

// Script drives the keys from a tengo program for headless runs. The program
// reads the global `tick` and assigns the globals `left`, `right` and `jump`:
//
//	right = tick < 120
//	jump = tick == 60
type Script struct {
	compiled *tengo.Compiled
	tick     int
	state    State
}

// NewScript compiles src. Assign the outputs with `=`; they are predeclared.
func NewScript(src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	for name, v := range map[string]any{"tick": 0, "left": false, "right": false, "jump": false} {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("input: script: declare %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: script: compile: %w", err)
	}
	return &Script{compiled: compiled}, nil
}

// Advance runs the program for the next tick and latches its outputs.
func (s *Script) Advance() error {
	if err := s.compiled.Set("tick", s.tick); err != nil {
		return fmt.Errorf("input: script: set tick: %w", err)
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("input: script: tick %d: %w", s.tick, err)
	}
	var keys [3]bool
	for i, name := range []string{"left", "right", "jump"} {
		v := s.compiled.Get(name)
		b, ok := v.Value().(bool)
		if !ok {
			return fmt.Errorf("%w: tick %d: %s is %s", ErrScriptOutput, s.tick, name, v.ValueType())
		}
		keys[i] = b
	}
	s.state = State{
		Left:        keys[0],
		Right:       keys[1],
		Jump:        keys[2],
		JumpPressed: keys[2] && !s.state.Jump,
	}
	s.tick++
	return nil
}

// Tick is the number of ticks advanced so far.
func (s *Script) Tick() int {
	return s.tick
}

func (s *Script) Held(k Key) bool {
	return s.state.Held(k)
}

func (s *Script) Pressed(k Key) bool {
	return s.state.Pressed(k)
}
