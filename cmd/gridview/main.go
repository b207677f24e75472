// Command gridview runs the simulation in a terminal.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/bug-me-not/internal/game"
	"github.com/Garsondee/bug-me-not/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "tuning YAML (defaults when empty)")
	seed := flag.Int64("seed", 1, "map and path jitter seed")
	tick := flag.Duration("tick", 100*time.Millisecond, "wall time per simulation tick")
	workers := flag.Int("workers", 2, "workers spawned at the house")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := game.DefaultConfig()
	if *configPath != "" {
		loaded, err := game.LoadConfig(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	sim := game.NewSim(game.WithConfig(cfg), game.WithSeed(*seed), game.WithTerrain())
	for i := 0; i < *workers; i++ {
		sim.SpawnWorker(sim.HouseCell())
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Error("failed to create screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		logger.Error("failed to init screen", "error", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tui.New(screen, sim).Run(ctx, *tick)
}
