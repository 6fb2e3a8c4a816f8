package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/skillholdem/internal/deck"
	"github.com/lox/skillholdem/internal/evaluator"
	"github.com/lox/skillholdem/internal/game"
	"github.com/lox/skillholdem/internal/randutil"
)

func TestFormatterPerspective(t *testing.T) {
	t.Parallel()
	player := EventFormatter{Perspective: 0}
	spectator := EventFormatter{Perspective: -1}

	prompt := game.ActionPromptEvent{Seat: 0, ToCall: 10, Pot: 15, Hole: deck.MustParseCards("AsKd")}
	require.Len(t, player.Format(prompt), 1)
	assert.Contains(t, player.Format(prompt)[0], "$10 to call")
	assert.Nil(t, spectator.Format(prompt))

	peek := game.EffectEvent{Seat: 0, Kind: game.PeekEffect, Energy: 3,
		Peek: &game.PeekResult{Seat: 2, Name: "AI_2", Card: deck.MustParseCards("Qh")[0]}}
	assert.Contains(t, player.Format(peek)[0], "AI_2 holds")
	assert.Equal(t, []string{"Seat 0 uses peek"}, spectator.Format(peek))
}

func TestFormatterLines(t *testing.T) {
	t.Parallel()
	f := EventFormatter{Perspective: -1}

	assert.Equal(t, []string{"AI_1: posts small blind $5"},
		f.Format(game.BlindEvent{Name: "AI_1", Amount: 5}))
	assert.Equal(t, []string{"AI_2: raises to $30 (pot now: $45) and is all-in"},
		f.Format(game.ActionResultEvent{Name: "AI_2", Action: game.Raise, TableBet: 30, Pot: 45, AllIn: true}))
	assert.Equal(t, []string{"Player: checks"},
		f.Format(game.ActionResultEvent{Name: "Player", Action: game.Check}))

	summary := &game.HandSummary{
		Winner:       0,
		WinnerName:   "Player",
		Amount:       40,
		Result:       evaluator.HandResult{Rank: evaluator.Flush, HighCard: 13},
		ShowdownType: "showdown",
		Hands: []evaluator.Scored{
			{Seat: 0, Result: evaluator.HandResult{Rank: evaluator.Flush, HighCard: 13}},
			{Seat: 1, Result: evaluator.HandResult{Rank: evaluator.Straight, HighCard: 12}},
		},
	}
	lines := f.Format(game.HandCompleteEvent{Summary: summary})
	require.Len(t, lines, 4)
	assert.Equal(t, "Player wins $40 with Flush", lines[3])

	assert.Equal(t, []string{"Hand aborted"}, f.Format(game.HandCompleteEvent{Summary: &game.HandSummary{Winner: -1}}))
}

// table seats a human at seat 0 against two AIs that always check or call
func table(t *testing.T) (*Model, *Bridge) {
	t.Helper()
	logger := log.New(io.Discard)
	bus := game.NewEventBus()
	bridge := NewBridge(256)
	bus.Subscribe(bridge)

	human := game.NewHumanDecider(0, bus)
	caller := game.DeciderFunc(func(_ context.Context, turn game.Turn) (game.Action, error) {
		if turn.View.ToCall == 0 {
			return game.Check, nil
		}
		return game.Call, nil
	})
	seats := []game.Seat{
		{Player: game.NewPlayer(0, "Player", false, 1000), Decider: human},
		{Player: game.NewPlayer(1, "AI_1", true, 1000), Decider: caller},
		{Player: game.NewPlayer(2, "AI_2", true, 1000), Decider: caller},
	}
	session, err := game.NewSession(game.DefaultRules(), seats,
		game.WithEventBus(bus), game.WithRNG(randutil.New(5)), game.WithLogger(logger))
	require.NoError(t, err)

	m := NewModel(context.Background(), session, human, bridge, logger)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(func() { m.cancel(); bridge.Close() })
	return m, bridge
}

// pump feeds events into the model until stop returns true or the hand ends
func pump(t *testing.T, m *Model, bridge *Bridge, done <-chan tea.Msg, stop func(game.GameEvent) bool) tea.Msg {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e := <-bridge.events:
			m.Update(eventMsg{event: e})
			if stop != nil && stop(e) {
				return nil
			}
		case msg := <-done:
			// Drain what the hand published before returning.
			for {
				select {
				case e := <-bridge.events:
					m.Update(eventMsg{event: e})
				default:
					m.Update(msg)
					return msg
				}
			}
		case <-timeout:
			t.Fatal("timed out pumping events")
			return nil
		}
	}
}

func TestModelPlaysHand(t *testing.T) {
	t.Parallel()
	m, bridge := table(t)

	cmd := m.startHand()
	require.NotNil(t, cmd)
	assert.Nil(t, m.startHand(), "only one hand at a time")

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	pump(t, m, bridge, done, func(e game.GameEvent) bool {
		p, ok := e.(game.ActionPromptEvent)
		return ok && p.Seat == 0
	})
	assert.True(t, m.prompting)
	assert.Len(t, m.hole, 2)
	assert.Equal(t, 15, m.pot)
	assert.Contains(t, m.View(), "To call: $10")

	m.input.SetValue("fold")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.prompting)

	msg := pump(t, m, bridge, done, nil)
	require.IsType(t, handDoneMsg{}, msg)
	require.NoError(t, msg.(handDoneMsg).err)
	assert.False(t, m.handRunning)

	total := 0
	for _, s := range m.seats {
		total += s.Chips
	}
	assert.Equal(t, 3000, total)
	assert.True(t, m.seats[0].Folded)

	logText := strings.Join(m.Log(), "\n")
	assert.Contains(t, logText, "Your turn")
	assert.Contains(t, logText, "Player: folds")
	assert.Contains(t, logText, "Press Enter for the next hand")
}

func TestModelRejectsActionWithoutPrompt(t *testing.T) {
	t.Parallel()
	m, _ := table(t)

	m.processCommand("call")
	m.processCommand("dance")

	logLines := m.Log()
	require.Len(t, logLines, 2)
	assert.Contains(t, logLines[0], "illegal action")
	assert.Contains(t, logLines[1], "Unknown command")
}

func TestModelQuit(t *testing.T) {
	t.Parallel()
	m, bridge := table(t)

	cmd := m.processCommand("quit")
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Error(t, m.ctx.Err())
	assert.Empty(t, m.View())

	// A closed bridge never blocks the publisher.
	bridge.OnEvent(game.StageEvent{})
	for range cap(bridge.events) {
		bridge.OnEvent(game.StageEvent{})
	}
}
