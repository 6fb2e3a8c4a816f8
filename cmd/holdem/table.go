package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/skillholdem/internal/config"
	"github.com/lox/skillholdem/internal/game"
	"github.com/lox/skillholdem/internal/randutil"
)

// loadConfig reads and validates the configuration file
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// tableOptions controls how a session is assembled from configuration
type tableOptions struct {
	seed   int64
	logger *log.Logger
	bus    game.EventBus
	// allAI replaces the human seat with an AI
	allAI bool
}

// newTable builds a session from cfg. The returned human decider is nil
// when no seat is played from the terminal.
func newTable(cfg *config.Config, opts tableOptions) (*game.Session, *game.HumanDecider, error) {
	timeout, err := cfg.PromptTimeout()
	if err != nil {
		return nil, nil, err
	}

	var human *game.HumanDecider
	seats := make([]game.Seat, len(cfg.Seats))
	for i, sc := range cfg.Seats {
		p := game.NewPlayer(i, sc.Name, true, cfg.Game.StartingChips)
		var decider game.Decider
		if sc.Kind == config.KindHuman && !opts.allAI {
			p.IsAI = false
			human = game.NewHumanDecider(i, opts.bus,
				game.WithPromptTimeout(timeout),
				game.WithHumanLogger(opts.logger))
			decider = human
		} else {
			decider = game.NewAIDecider(
				randutil.New(randutil.Derive(opts.seed, i+1)),
				game.WithPressureWeight(cfg.AI.PressureWeight))
		}
		seats[i] = game.Seat{Player: p, Decider: decider}
	}

	session, err := game.NewSession(cfg.Rules(), seats,
		game.WithRNG(randutil.New(opts.seed)),
		game.WithLogger(opts.logger),
		game.WithEventBus(opts.bus),
		game.WithDealer(cfg.Game.Dealer),
		game.WithRotateDealer(cfg.Game.RotateDealer))
	if err != nil {
		return nil, nil, err
	}
	return session, human, nil
}

// openLog opens the log file for the interactive game, which owns the
// terminal. An empty path discards logs.
func openLog(path string, level log.Level) (*log.Logger, io.Closer, error) {
	if path == "" {
		return log.New(io.Discard), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	return logger, f, nil
}
