// Package config loads table settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/skillholdem/internal/fileutil"
	"github.com/lox/skillholdem/internal/game"
)

// Seat kinds
const (
	KindHuman = "human"
	KindAI    = "ai"
)

// Raise schedules
const (
	ScheduleFixed    = "fixed"
	ScheduleDoubling = "doubling"
)

// Config represents the complete table configuration. Zero values are
// replaced by defaults when a file is loaded.
type Config struct {
	Game   *GameSettings   `hcl:"game,block"`
	Energy *EnergySettings `hcl:"energy,block"`
	AI     *AISettings     `hcl:"ai,block"`
	Log    *LogSettings    `hcl:"log,block"`
	Seats  []SeatConfig    `hcl:"seat,block"`
}

// GameSettings contains stakes and hand flow settings
type GameSettings struct {
	StartingChips      int    `hcl:"starting_chips,optional"`
	SmallBlind         int    `hcl:"small_blind,optional"`
	BigBlind           int    `hcl:"big_blind,optional"`
	RaiseIncrement     int    `hcl:"raise_increment,optional"`
	RaiseSchedule      string `hcl:"raise_schedule,optional"`
	RaiseCap           int    `hcl:"raise_cap,optional"`
	Dealer             int    `hcl:"dealer,optional"`
	RotateDealer       bool   `hcl:"rotate_dealer,optional"`
	Seed               int64  `hcl:"seed,optional"`
	MaxRoundIterations int    `hcl:"max_round_iterations,optional"`
	PromptTimeout      string `hcl:"prompt_timeout,optional"`
}

// EnergySettings controls the energy pool spent on peek and swap
type EnergySettings struct {
	Initial     int `hcl:"initial,optional"`
	Max         int `hcl:"max,optional"`
	HandRegen   int `hcl:"hand_regen,optional"`
	WinnerBonus int `hcl:"winner_bonus,optional"`
	LoserBonus  int `hcl:"loser_bonus,optional"`
	PeekCost    int `hcl:"peek_cost,optional"`
	SwapCost    int `hcl:"swap_cost,optional"`
}

// AISettings tunes the computer seats
type AISettings struct {
	PressureWeight float64 `hcl:"pressure_weight,optional"`
}

// LogSettings configures the log destination
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SeatConfig defines one seat, in table order
type SeatConfig struct {
	Name string `hcl:"name,label"`
	Kind string `hcl:"kind,optional"`
}

// Default returns the configuration of the original three-seat table
func Default() *Config {
	rules := game.DefaultRules()
	return &Config{
		Game: &GameSettings{
			StartingChips:      1000,
			SmallBlind:         rules.SmallBlind,
			BigBlind:           rules.BigBlind,
			RaiseIncrement:     20,
			RaiseSchedule:      ScheduleFixed,
			MaxRoundIterations: rules.MaxRoundIterations,
			PromptTimeout:      "0s",
		},
		Energy: &EnergySettings{
			Initial:     rules.Energy.Initial,
			Max:         rules.Energy.Max,
			HandRegen:   rules.Energy.HandRegen,
			WinnerBonus: rules.Energy.WinnerBonus,
			LoserBonus:  rules.Energy.LoserBonus,
			PeekCost:    rules.Energy.PeekCost,
			SwapCost:    rules.Energy.SwapCost,
		},
		AI:  &AISettings{PressureWeight: game.DefaultPressureWeight},
		Log: &LogSettings{Level: "info", File: "holdem.log"},
		Seats: []SeatConfig{
			{Name: "Player", Kind: KindHuman},
			{Name: "AI_1", Kind: KindAI},
			{Name: "AI_2", Kind: KindAI},
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Game == nil {
		c.Game = def.Game
	}
	if c.Energy == nil {
		c.Energy = def.Energy
	}
	if c.AI == nil {
		c.AI = def.AI
	}
	if c.Log == nil {
		c.Log = def.Log
	}
	if len(c.Seats) == 0 {
		c.Seats = def.Seats
	}

	g := c.Game
	setDefault(&g.StartingChips, def.Game.StartingChips)
	setDefault(&g.SmallBlind, def.Game.SmallBlind)
	setDefault(&g.BigBlind, def.Game.BigBlind)
	setDefault(&g.RaiseIncrement, def.Game.RaiseIncrement)
	setDefault(&g.MaxRoundIterations, def.Game.MaxRoundIterations)
	setDefault(&g.RaiseSchedule, def.Game.RaiseSchedule)
	setDefault(&g.PromptTimeout, def.Game.PromptTimeout)

	e := c.Energy
	setDefault(&e.Max, def.Energy.Max)
	setDefault(&e.Initial, def.Energy.Initial)
	setDefault(&e.HandRegen, def.Energy.HandRegen)
	setDefault(&e.WinnerBonus, def.Energy.WinnerBonus)
	setDefault(&e.LoserBonus, def.Energy.LoserBonus)
	setDefault(&e.PeekCost, def.Energy.PeekCost)
	setDefault(&e.SwapCost, def.Energy.SwapCost)

	setDefault(&c.AI.PressureWeight, def.AI.PressureWeight)
	setDefault(&c.Log.Level, def.Log.Level)
	setDefault(&c.Log.File, def.Log.File)

	for i := range c.Seats {
		setDefault(&c.Seats[i].Kind, KindAI)
	}
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	g := c.Game
	if g.SmallBlind <= 0 || g.BigBlind <= 0 {
		return fmt.Errorf("blinds must be positive")
	}
	if g.SmallBlind > g.BigBlind {
		return fmt.Errorf("small blind %d exceeds big blind %d", g.SmallBlind, g.BigBlind)
	}
	if g.RaiseIncrement <= 0 {
		return fmt.Errorf("raise increment must be positive")
	}
	switch g.RaiseSchedule {
	case ScheduleFixed, ScheduleDoubling:
	default:
		return fmt.Errorf("invalid raise schedule %q", g.RaiseSchedule)
	}
	if g.RaiseCap < 0 || (g.RaiseCap > 0 && g.RaiseCap < g.RaiseIncrement) {
		return fmt.Errorf("raise cap %d below increment %d", g.RaiseCap, g.RaiseIncrement)
	}
	if g.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive")
	}
	if _, err := c.PromptTimeout(); err != nil {
		return err
	}

	e := c.Energy
	if e.Max < 0 || e.Initial < 0 || e.Initial > e.Max {
		return fmt.Errorf("initial energy %d outside [0, %d]", e.Initial, e.Max)
	}
	if e.HandRegen < 0 || e.WinnerBonus < 0 || e.LoserBonus < 0 || e.PeekCost < 0 || e.SwapCost < 0 {
		return fmt.Errorf("energy amounts must not be negative")
	}

	if c.AI.PressureWeight < 0 || c.AI.PressureWeight > 1 {
		return fmt.Errorf("pressure weight %.2f outside [0, 1]", c.AI.PressureWeight)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	if len(c.Seats) < 2 {
		return fmt.Errorf("at least two seats must be configured")
	}
	humans := 0
	names := make(map[string]bool)
	for _, seat := range c.Seats {
		if names[seat.Name] {
			return fmt.Errorf("duplicate seat %q", seat.Name)
		}
		names[seat.Name] = true
		switch seat.Kind {
		case KindHuman:
			humans++
		case KindAI:
		default:
			return fmt.Errorf("seat %s: invalid kind %q", seat.Name, seat.Kind)
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one human seat is supported, got %d", humans)
	}
	if g.Dealer < 0 || g.Dealer >= len(c.Seats) {
		return fmt.Errorf("dealer seat %d out of range", g.Dealer)
	}
	return nil
}

// Rules converts the settings into game rules
func (c *Config) Rules() game.Rules {
	g, e := c.Game, c.Energy
	var schedule game.RaiseSchedule = game.FixedRaise(g.RaiseIncrement)
	if strings.EqualFold(g.RaiseSchedule, ScheduleDoubling) {
		schedule = game.DoublingRaise{Base: g.RaiseIncrement, Cap: g.RaiseCap}
	}
	return game.Rules{
		SmallBlind:         g.SmallBlind,
		BigBlind:           g.BigBlind,
		Raise:              schedule,
		MaxRoundIterations: g.MaxRoundIterations,
		Energy: game.EnergyRules{
			Initial:     e.Initial,
			Max:         e.Max,
			HandRegen:   e.HandRegen,
			WinnerBonus: e.WinnerBonus,
			LoserBonus:  e.LoserBonus,
			PeekCost:    e.PeekCost,
			SwapCost:    e.SwapCost,
		},
	}
}

// PromptTimeout returns how long a human prompt waits before folding
func (c *Config) PromptTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Game.PromptTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid prompt timeout %q", c.Game.PromptTimeout)
	}
	return d, nil
}

// LogLevel returns the configured log level, defaulting to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// HumanSeat returns the index of the human seat, or -1 for an all-AI table
func (c *Config) HumanSeat() int {
	for i, seat := range c.Seats {
		if seat.Kind == KindHuman {
			return i
		}
	}
	return -1
}

// Encode renders the configuration as HCL
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return f.Bytes()
}

// Save writes the configuration to filename as HCL
func (c *Config) Save(filename string) error {
	if err := fileutil.WriteFileAtomic(filename, c.Encode(), 0o644); err != nil {
		return fmt.Errorf("failed to save config %s: %w", filename, err)
	}
	return nil
}
