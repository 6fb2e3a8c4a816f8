package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/skillholdem/internal/game"
	"github.com/lox/skillholdem/internal/randutil"
	"github.com/lox/skillholdem/internal/tui"
)

type PlayCmd struct {
	Seed    int64  `help:"RNG seed (overrides config, 0 for random)"`
	LogFile string `help:"Log file (overrides config)"`
	NoColor bool   `help:"Disable colors"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return err
	}

	logPath := cfg.Log.File
	if c.LogFile != "" {
		logPath = c.LogFile
	}
	logger, closer, err := openLog(logPath, cfg.LogLevel())
	if err != nil {
		return err
	}
	defer closer.Close()

	if c.NoColor {
		tui.DisableColor()
	}

	seed := cfg.Game.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}
	seed = randutil.Seed(seed)

	bus := game.NewEventBus()
	bridge := tui.NewBridge(256)
	bus.Subscribe(bridge)
	defer bridge.Close()

	session, human, err := newTable(cfg, tableOptions{seed: seed, logger: logger, bus: bus})
	if err != nil {
		return err
	}
	logger.Info("Starting interactive game", "seed", seed, "seats", len(cfg.Seats))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := tui.NewModel(ctx, session, human, bridge, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}

	logger.Info("Game finished")
	return nil
}
