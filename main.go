package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/prefabs"
	"go.uber.org/zap"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug text and physics outlines")
	strict := flag.Bool("strict", false, "panic on debug-draw precondition violations")
	watch := flag.Bool("watch", false, "rebuild the world when prefab files change")
	worldName := flag.String("world", prefabs.DefaultWorld, "world prefab under prefabs/")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	game, err := NewGame(Options{
		World:  *worldName,
		Debug:  *debug,
		Strict: *strict,
		Watch:  *watch,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("start game", zap.Error(err))
	}
	defer game.Close()

	ebiten.SetWindowSize(common.WindowWidth, common.WindowHeight)
	ebiten.SetWindowTitle("platformer")
	ebiten.SetTPS(common.TicksPerSecond)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run game", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
