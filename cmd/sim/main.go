// Command sim runs a world headless, driven by a tengo input script.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/platformer/debugdraw"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/render"
	"github.com/milk9111/platformer/world"
	"go.uber.org/zap"
)

type config struct {
	World  string
	Script string
	Ticks  int
	Every  int
	Draw   bool
}

type summary struct {
	Ticks    int
	X, Y     float64
	Grounded bool
	Jumps    int
	Landings int
	DrawOps  int
}

func main() {
	var cfg config
	flag.StringVar(&cfg.World, "world", prefabs.DefaultWorld, "world prefab")
	flag.StringVar(&cfg.Script, "script", "walk_and_jump.tengo", "input script under prefabs/scripts")
	flag.IntVar(&cfg.Ticks, "ticks", 600, "number of ticks to simulate")
	flag.IntVar(&cfg.Every, "every", 60, "log the pose every n ticks (0 disables)")
	flag.BoolVar(&cfg.Draw, "draw", false, "record the final frame with the debug overlay")
	debug := flag.Bool("debug", false, "development logging")
	flag.Parse()

	var (
		logger *zap.Logger
		err    error
	)
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	sum, err := run(cfg, logger)
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("simulation finished",
		zap.Int("ticks", sum.Ticks),
		zap.Float64("x", sum.X),
		zap.Float64("y", sum.Y),
		zap.Bool("grounded", sum.Grounded),
		zap.Int("jumps", sum.Jumps),
		zap.Int("landings", sum.Landings),
	)
}

func run(cfg config, logger *zap.Logger) (summary, error) {
	if cfg.Ticks < 0 {
		return summary{}, fmt.Errorf("sim: ticks %d must not be negative", cfg.Ticks)
	}
	spec, err := prefabs.LoadWorldSpec(cfg.World)
	if err != nil {
		return summary{}, fmt.Errorf("sim: %w", err)
	}
	src, err := prefabs.LoadScript(cfg.Script)
	if err != nil {
		return summary{}, fmt.Errorf("sim: load script %s: %w", cfg.Script, err)
	}
	script, err := input.NewScript(src)
	if err != nil {
		return summary{}, fmt.Errorf("sim: %w", err)
	}

	opts := []world.Option{world.WithLogger(logger.Named("world"))}
	if cfg.Draw {
		opts = append(opts, world.WithDebugText(true), world.WithOverlay(debugdraw.New(debugdraw.WithLogger(logger.Named("debugdraw")))))
	}
	w := world.New(spec, opts...)
	defer w.Unload()

	var sum summary
	for i := 0; i < cfg.Ticks; i++ {
		if err := script.Advance(); err != nil {
			return summary{}, fmt.Errorf("sim: tick %d: %w", i, err)
		}
		w.Tick(script)

		f := w.LastFrame()
		if f.Applied.Jumped {
			sum.Jumps++
		}
		if f.GroundChanged && w.Player().Grounded() {
			sum.Landings++
		}
		if cfg.Every > 0 && (i+1)%cfg.Every == 0 {
			pos := w.Player().Position()
			logger.Debug("pose",
				zap.Int("tick", i+1),
				zap.Float64("x", pos.X()),
				zap.Float64("y", pos.Y()),
				zap.Bool("grounded", w.Player().Grounded()),
			)
		}
	}

	if cfg.Draw {
		var rec render.Recorder
		w.Draw(&rec)
		sum.DrawOps = len(rec.Ops)
	}

	pos := w.Player().Position()
	sum.Ticks = w.Ticks()
	sum.X, sum.Y = pos.X(), pos.Y()
	sum.Grounded = w.Player().Grounded()
	return sum, nil
}
