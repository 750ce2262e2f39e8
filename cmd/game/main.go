package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tatianab/bronze/internal/chronicle"
	"github.com/tatianab/bronze/internal/config"
	"github.com/tatianab/bronze/internal/engine"
	"github.com/tatianab/bronze/internal/logger"
	"github.com/tatianab/bronze/internal/models"
	"github.com/tatianab/bronze/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closer, err := logger.New(cfg.Logging, true)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(log)

	difficulty, err := engine.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.NewSeeded(seed, engine.WithLogger(log))

	var chron chronicle.Chronicler = chronicle.Plain{}
	if cfg.ChronicleEnabled() {
		g, err := chronicle.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			return fmt.Errorf("creating chronicler: %w", err)
		}
		defer g.Close()
		chron = g
	}

	log.Info("starting", "seed", seed, "difficulty", difficulty, "save_dir", cfg.SaveDir, "chronicle", cfg.ChronicleEnabled())
	if err := tui.Run(eng, models.NewStore(cfg.SaveDir), chron, difficulty, log); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
