package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/debugdraw"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/world"
	"go.uber.org/zap"
)

type Options struct {
	World  string
	Debug  bool
	Strict bool
	Watch  bool
	Logger *zap.Logger
}

type Game struct {
	opts    Options
	log     *zap.Logger
	input   *Keyboard
	world   *world.World
	watcher *prefabs.Watcher
	pause   *ebitenui.UI
	paused  bool
	quit    bool
}

func NewGame(opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.World == "" {
		opts.World = prefabs.DefaultWorld
	}
	g := &Game{
		opts:  opts,
		log:   opts.Logger,
		input: NewKeyboard(),
	}

	w, err := g.build()
	if err != nil {
		return nil, err
	}
	g.world = w
	g.pause = NewPauseUI(g)

	if opts.Watch {
		watcher, err := prefabs.NewWatcher()
		if err != nil {
			// The game still runs on the embedded prefabs.
			g.log.Warn("prefab watcher disabled", zap.Error(err))
		} else {
			g.watcher = watcher
		}
	}
	return g, nil
}

func (g *Game) build() (*world.World, error) {
	spec, err := prefabs.LoadWorldSpec(g.opts.World)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	opts := []world.Option{
		world.WithLogger(g.log.Named("world")),
		world.WithDebugText(g.opts.Debug),
	}
	if g.opts.Debug {
		overlay := debugdraw.New(
			debugdraw.WithLogger(g.log.Named("debugdraw")),
			debugdraw.WithStrict(g.opts.Strict),
		)
		opts = append(opts, world.WithOverlay(overlay))
	}
	return world.New(spec, opts...), nil
}

// reload swaps in a freshly built world between frames. A broken prefab
// keeps the current world running.
func (g *Game) reload(changed []string) {
	w, err := g.build()
	if err != nil {
		g.log.Error("reload world", zap.Strings("changed", changed), zap.Error(err))
		return
	}
	g.world.Unload()
	g.world = w
	g.log.Info("world reloaded", zap.Strings("changed", changed))
}

func (g *Game) Update() error {
	if g.watcher != nil {
		if changed := g.watcher.Poll(); len(changed) > 0 {
			g.reload(changed)
		}
	}
	g.input.Update()
	if g.input.PausePressed() {
		g.paused = !g.paused
	}
	if g.paused {
		g.pause.Update()
	} else {
		g.world.Tick(g.input)
	}
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.world.Draw(screenCanvas{img: screen})
	if g.paused {
		g.pause.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.WindowWidth, common.WindowHeight
}

// Close unloads the world and stops the watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.world.Unload()
}
