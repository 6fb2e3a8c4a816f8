package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/skillholdem/internal/game"
)

const sample = `
game {
  starting_chips = 500
  small_blind    = 10
  big_blind      = 20
  raise_schedule = "doubling"
  raise_cap      = 160
  rotate_dealer  = true
  seed           = 99
  prompt_timeout = "45s"
}

energy {
  max = 12
}

log {
  level = "debug"
}

seat "Alice" {
  kind = "human"
}

seat "Bot" {}
`

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0, cfg.HumanSeat())
	assert.Len(t, cfg.Seats, 3)
	assert.Equal(t, game.DefaultRules(), cfg.Rules())
}

func TestParseFillsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(sample), "sample.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500, cfg.Game.StartingChips)
	assert.Equal(t, 20, cfg.Game.RaiseIncrement, "default increment")
	assert.True(t, cfg.Game.RotateDealer)
	assert.Equal(t, int64(99), cfg.Game.Seed)
	assert.Equal(t, 12, cfg.Energy.Max)
	assert.Equal(t, 5, cfg.Energy.Initial)
	assert.Equal(t, "holdem.log", cfg.Log.File)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, game.DefaultPressureWeight, cfg.AI.PressureWeight)

	require.Len(t, cfg.Seats, 2)
	assert.Equal(t, SeatConfig{Name: "Alice", Kind: KindHuman}, cfg.Seats[0])
	assert.Equal(t, SeatConfig{Name: "Bot", Kind: KindAI}, cfg.Seats[1])

	timeout, err := cfg.PromptTimeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, timeout)

	rules := cfg.Rules()
	assert.Equal(t, game.DoublingRaise{Base: 20, Cap: 160}, rules.Raise)
	assert.Equal(t, 12, rules.Energy.Max)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Alice", cfg.Seats[0].Name)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte(`game {`), "broken.hcl")
	assert.ErrorContains(t, err, "parse")

	_, err = Parse([]byte(`game { unknown = 1 }`), "bad.hcl")
	assert.ErrorContains(t, err, "decode")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative blind", func(c *Config) { c.Game.SmallBlind = -1 }},
		{"small above big", func(c *Config) { c.Game.SmallBlind = 50 }},
		{"zero increment", func(c *Config) { c.Game.RaiseIncrement = 0 }},
		{"unknown schedule", func(c *Config) { c.Game.RaiseSchedule = "tripling" }},
		{"cap below increment", func(c *Config) { c.Game.RaiseCap = 5 }},
		{"bad timeout", func(c *Config) { c.Game.PromptTimeout = "soon" }},
		{"energy above max", func(c *Config) { c.Energy.Initial = 20 }},
		{"negative cost", func(c *Config) { c.Energy.SwapCost = -1 }},
		{"pressure weight", func(c *Config) { c.AI.PressureWeight = 2 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"one seat", func(c *Config) { c.Seats = c.Seats[:1] }},
		{"two humans", func(c *Config) { c.Seats[1].Kind = KindHuman }},
		{"unknown kind", func(c *Config) { c.Seats[1].Kind = "robot" }},
		{"duplicate seat", func(c *Config) { c.Seats[2].Name = "AI_1" }},
		{"dealer out of range", func(c *Config) { c.Game.Dealer = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEncodeCanBeParsedBack(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(sample), "sample.hcl")
	require.NoError(t, err)

	out := cfg.Encode()
	assert.Contains(t, string(out), `seat "Alice"`)

	again, err := Parse(out, "encoded.hcl")
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Game.Seed = 99
	cfg.Energy.SwapCost = 5

	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
