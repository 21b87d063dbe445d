//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"gol-canvas/internal/app"
	"gol-canvas/internal/core"
	_ "gol-canvas/pkg/sims/briansbrain"
	_ "gol-canvas/pkg/sims/elementary"
	_ "gol-canvas/pkg/sims/life"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	if err := cfg.Parse(flag.CommandLine, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	game, err := app.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := game.Close(); err != nil {
			log.Print(err)
		}
	}()

	w, h := game.WindowSize()
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Print(err)
		os.Exit(1)
	}
}
