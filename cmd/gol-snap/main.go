// Command gol-snap runs an automaton without a window and writes the final
// frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"gol-canvas/internal/app"
	"gol-canvas/internal/core"
	"gol-canvas/internal/loop"
	"gol-canvas/internal/render"
	_ "gol-canvas/pkg/sims/briansbrain"
	_ "gol-canvas/pkg/sims/elementary"
	_ "gol-canvas/pkg/sims/life"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	frames := flag.Int("frames", 100, "generations to run before writing the image")
	out := flag.String("out", "gol.png", "PNG output path")
	scale := flag.Int("scale", 1, "output pixels per canvas unit")
	if err := cfg.Parse(flag.CommandLine, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := run(cfg, *frames, *scale, *out); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *app.Config, frames, scale int, out string) (err error) {
	if scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", scale)
	}
	// Paused sessions would never advance here.
	cfg.StartPaused = false

	backend := render.NewRaster(1, 1)
	sched := &loop.QueueScheduler{}
	s, err := app.NewSession(cfg, backend, sched)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	c := s.Renderer.Canvas()
	backend.SetDisplaySize(int(c.W)*scale, int(c.H)*scale)

	if err := s.Start(); err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		if sched.Flush() == 0 {
			break
		}
		if err := s.Controller.Err(); err != nil {
			return err
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := backend.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	core.Logger().Info("snapshot written", "path", out, "generation", s.Automaton.Generation(), "status", s.Status().String())
	return nil
}
