package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/skillholdem/internal/config"
	"github.com/lox/skillholdem/internal/game"
	"github.com/lox/skillholdem/internal/randutil"
	"github.com/lox/skillholdem/internal/statistics"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type SimulateCmd struct {
	Sessions int   `default:"100" help:"Number of independent sessions"`
	Hands    int   `default:"200" help:"Maximum hands per session"`
	Parallel int   `default:"0" help:"Sessions run at once (0 for one per CPU)"`
	Seed     int64 `help:"Base RNG seed (overrides config, 0 for random)"`
	Verbose  bool  `help:"Debug logging to stderr"`
}

// simStats aggregates results across sessions
type simStats struct {
	mu        sync.Mutex
	sessions  int
	hands     int
	showdowns int
	foldWins  int
	aborted   int
	faults    int
	biggest   int
	seats     *statistics.Table
}

func newSimStats() *simStats {
	return &simStats{seats: statistics.NewTable()}
}

func (s *simStats) addSession(summaries []*game.HandSummary, seats *statistics.Table, aborted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions++
	if aborted {
		s.aborted++
	}
	s.seats.Merge(seats)
	for _, sum := range summaries {
		s.hands++
		s.faults += len(sum.Faults)
		if sum.Winner < 0 {
			continue
		}
		if sum.ShowdownType == "showdown" {
			s.showdowns++
		} else {
			s.foldWins++
		}
		s.biggest = max(s.biggest, sum.Amount)
	}
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return err
	}

	level := cfg.LogLevel()
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
		Prefix:          "simulate",
	})

	seed := cfg.Game.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}
	seed = randutil.Seed(seed)

	parallel := c.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(titleStyle.Render(" ♠ ♥ Hold'em simulation ♦ ♣ "))
	fmt.Printf("Sessions: %d, Hands: %d, Parallel: %d, Seed: %d\n\n", c.Sessions, c.Hands, parallel, seed)

	stats := newSimStats()
	start := time.Now()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for i := range c.Sessions {
		sessionSeed := randutil.Derive(seed, i)
		eg.Go(func() error {
			return c.runSession(ctx, cfg, sessionSeed, logger.With("session", i), stats)
		})
	}
	err = eg.Wait()

	c.report(stats, time.Since(start))
	return err
}

// runSession plays one session to completion. Aborted hands are counted;
// broken chip conservation fails the whole run.
func (c *SimulateCmd) runSession(ctx context.Context, cfg *config.Config, seed int64, logger *log.Logger, stats *simStats) error {
	session, _, err := newTable(cfg, tableOptions{
		seed:   seed,
		logger: logger,
		bus:    game.NewEventBus(),
		allAI:  true,
	})
	if err != nil {
		return err
	}

	bb := float64(cfg.Game.BigBlind)
	seats := statistics.NewTable()
	var summaries []*game.HandSummary
	var aborted bool
	for range c.Hands {
		before := make([]int, len(session.Players()))
		for i, p := range session.Players() {
			before[i] = p.Chips
		}

		summary, err := session.PlayHand(ctx)
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			break
		}
		if err != nil && !errors.Is(err, game.ErrHandAborted) {
			return err
		}
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			aborted = true
			logger.Warn("Session stopped by aborted hand", "seed", seed, "error", err)
			break
		}

		for i, p := range session.Players() {
			seats.Add(p.Name, statistics.HandResult{
				NetBB:    float64(p.Chips-before[i]) / bb,
				Showdown: summary.ShowdownType == "showdown",
				Won:      summary.Winner == i,
				Sat:      before[i] == 0,
			})
		}
	}
	stats.addSession(summaries, seats, aborted)

	if err := session.ValidateChipConservation(); err != nil {
		return fmt.Errorf("session seed %d: %w", seed, err)
	}
	return nil
}

func (c *SimulateCmd) report(s *simStats, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Printf("Sessions:   %d (%d aborted)\n", s.sessions, s.aborted)
	fmt.Printf("Hands:      %d (%.0f hands/s)\n", s.hands, float64(s.hands)/max(elapsed.Seconds(), 1e-9))
	if s.hands > 0 {
		fmt.Printf("Showdowns:  %d (%.1f%%)\n", s.showdowns, 100*float64(s.showdowns)/float64(s.hands))
		fmt.Printf("Fold wins:  %d (%.1f%%)\n", s.foldWins, 100*float64(s.foldWins)/float64(s.hands))
	}
	fmt.Printf("Biggest pot: %d\n", s.biggest)
	fmt.Printf("Faults:     %d\n\n", s.faults)

	for _, name := range s.seats.Names() {
		st := s.seats.Seat(name)
		lo, hi := st.ConfidenceInterval95()
		fmt.Printf("  %-10s %+7.2f bb/hand  [%+.2f, %+.2f]  won %d (%d at showdown)  sat out %d\n",
			name, st.Mean(), lo, hi, st.ShowdownWins+st.NonShowdownWins, st.ShowdownWins, st.SatOut)
	}
}
