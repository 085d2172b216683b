// Package world owns one simulation: the engine, the player and the static
// level geometry, stepped at a fixed timestep.
package world

import (
	"fmt"
	"image/color"

	"github.com/milk9111/platformer/control"
	"github.com/milk9111/platformer/debugdraw"
	"github.com/milk9111/platformer/entity"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/physics"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/render"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

type World struct {
	log     *zap.Logger
	spec    prefabs.WorldSpec
	factory physics.Factory
	eng     physics.Engine

	player    *entity.Entity
	platforms []*entity.Entity
	walls     []*entity.Entity

	mapper   control.Mapper
	overlay  *debugdraw.Overlay
	debug    bool
	ticks    int
	unloaded bool
	last     Frame
}

type Option func(*World)

// WithEngine replaces the Chipmunk engine factory.
func WithEngine(f physics.Factory) Option {
	return func(w *World) {
		if f != nil {
			w.factory = f
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithOverlay draws physics outlines on top of the frame. A nil overlay
// disables them.
func WithOverlay(o *debugdraw.Overlay) Option {
	return func(w *World) { w.overlay = o }
}

// WithDebugText prints the player pose and grounded state each frame.
func WithDebugText(on bool) Option {
	return func(w *World) { w.debug = on }
}

// New builds the world described by spec: engine first, then the player,
// platforms and walls. spec must already be validated.
func New(spec *prefabs.WorldSpec, opts ...Option) *World {
	if spec == nil {
		panic("world: new: nil spec")
	}
	w := &World{
		log:     zap.NewNop(),
		spec:    *spec,
		factory: physics.ChipmunkFactory,
		mapper:  control.Mapper{MoveImpulse: spec.Impulses.Move, JumpImpulse: spec.Impulses.Jump},
	}
	for _, opt := range opts {
		opt(w)
	}

	w.eng = w.factory(physics.WorldDef{Gravity: spec.Gravity.Vec2()})
	w.player = entity.NewPlayer(w.eng, spec.Player)
	for _, p := range spec.Platforms {
		w.platforms = append(w.platforms, entity.NewPlatform(w.eng, p))
	}
	for _, wl := range spec.Walls {
		w.walls = append(w.walls, entity.NewPlatform(w.eng, wl))
	}

	w.log.Info("world created",
		zap.String("name", spec.Name),
		zap.Uint16("engine", uint16(w.eng.ID())),
		zap.Int("platforms", len(w.platforms)),
		zap.Int("walls", len(w.walls)),
	)
	return w
}

func (w *World) Player() *entity.Entity { return w.player }

func (w *World) Platforms() []*entity.Entity {
	return append([]*entity.Entity(nil), w.platforms...)
}

func (w *World) Walls() []*entity.Entity {
	return append([]*entity.Entity(nil), w.walls...)
}

// Ticks is the number of completed Tick calls.
func (w *World) Ticks() int { return w.ticks }

func (w *World) Engine() physics.Engine { return w.eng }

func (w *World) Spec() prefabs.WorldSpec { return w.spec }

// LastFrame reports what the most recent Tick did.
func (w *World) LastFrame() Frame { return w.last }

func (w *World) Unloaded() bool { return w.unloaded }

// Tick advances the simulation by one fixed timestep.
func (w *World) Tick(src input.Source) {
	if w.unloaded {
		panic(fmt.Errorf("world: tick after unload: %w", physics.ErrStaleHandle))
	}
	f := Frame{Tick: w.ticks, src: src}
	for _, p := range phases {
		p.run(w, &f)
	}
	w.ticks++
	w.last = f
}

// Draw renders platforms, walls and the player from cached poses, then the
// debug layers that are enabled.
func (w *World) Draw(c render.Canvas) {
	if w.unloaded || c == nil {
		return
	}
	for _, p := range w.platforms {
		p.Draw(c, nil)
	}
	for _, wl := range w.walls {
		wl.Draw(c, wallColor(wl))
	}
	w.player.Draw(c, nil)

	if w.debug {
		pos := w.player.Position()
		c.Text(fmt.Sprintf("pos: %.2f, %.2f\ngrounded: %t\ntick: %d", pos.X(), pos.Y(), w.player.Grounded(), w.ticks), 4, 4)
	}
	if w.overlay != nil {
		w.overlay.Draw(c, w.eng, w.bodies()...)
	}
}

func (w *World) bodies() []physics.BodyID {
	ids := make([]physics.BodyID, 0, 1+len(w.platforms)+len(w.walls))
	ids = append(ids, w.player.Body())
	for _, p := range w.platforms {
		ids = append(ids, p.Body())
	}
	for _, wl := range w.walls {
		ids = append(ids, wl.Body())
	}
	return ids
}

// Unload tears down the player, platforms and walls, then the engine.
// Calling it again does nothing.
func (w *World) Unload() {
	if w.unloaded {
		return
	}
	w.unloaded = true
	w.player.Destroy()
	for _, p := range w.platforms {
		p.Destroy()
	}
	for _, wl := range w.walls {
		wl.Destroy()
	}
	w.eng.Destroy()
	w.log.Info("world unloaded", zap.String("name", w.spec.Name), zap.Int("ticks", w.ticks))
}

func wallColor(e *entity.Entity) color.Color {
	if e.Color() != nil {
		return e.Color()
	}
	return colornames.Dimgray
}
