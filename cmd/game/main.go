package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/bug-me-not/internal/game"
	"github.com/Garsondee/bug-me-not/internal/view"
)

func main() {
	configPath := flag.String("config", "", "tuning YAML (defaults when empty)")
	seed := flag.Int64("seed", 1, "map and path jitter seed")
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

	g := view.New(cfg, *seed, logger)
	ebiten.SetWindowTitle("Bug Me Not")
	ebiten.SetWindowSize(g.Size())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
