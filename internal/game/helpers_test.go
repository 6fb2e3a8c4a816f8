package game

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/skillholdem/internal/deck"
	"github.com/lox/skillholdem/internal/randutil"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// scripted plays the given actions in order and then checks or calls
func scripted(actions ...Action) Decider {
	var mu sync.Mutex
	next := 0
	return DeciderFunc(func(_ context.Context, turn Turn) (Action, error) {
		mu.Lock()
		defer mu.Unlock()
		if next < len(actions) {
			a := actions[next]
			next++
			return a, nil
		}
		if turn.View.ToCall == 0 {
			return Check, nil
		}
		return Call, nil
	})
}

func passive() Decider {
	return scripted()
}

// stacked deals the given cards in order instead of a shuffled deck
func stacked(cards string) SessionOption {
	return WithDeckFactory(func(*rand.Rand) *deck.Deck {
		return deck.NewFromCards(deck.MustParseCards(cards))
	})
}

func newTestSession(t *testing.T, rules Rules, deciders []Decider, opts ...SessionOption) *Session {
	t.Helper()
	seats := make([]Seat, len(deciders))
	for i, d := range deciders {
		seats[i] = Seat{Player: NewPlayer(i, fmt.Sprintf("P%d", i), true, 1000), Decider: d}
	}
	base := []SessionOption{
		WithRNG(randutil.New(42)),
		WithLogger(testLogger()),
		WithClock(quartz.NewMock(t)),
	}
	s, err := NewSession(rules, seats, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

// recorder collects every published event
type recorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *recorder) OnEvent(e GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ofType(et EventType) []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) actions() []ActionResultEvent {
	var out []ActionResultEvent
	for _, e := range r.ofType(EventTypeActionResult) {
		out = append(out, e.(ActionResultEvent))
	}
	return out
}

// newTestRound builds a betting round over players already seated in h
func newTestRound(h *HandState, deciders []Decider, bus EventBus) *BettingRound {
	return &BettingRound{
		hand:          h,
		deciders:      deciders,
		schedule:      FixedRaise(20),
		bus:           bus,
		logger:        testLogger(),
		now:           func() stamp { return stamp{} },
		maxIterations: DefaultMaxRoundIterations,
	}
}

func newTestHand(chips ...int) *HandState {
	h := &HandState{Stage: Flop}
	for i, c := range chips {
		h.Players = append(h.Players, NewPlayer(i, fmt.Sprintf("P%d", i), true, c))
	}
	return h
}
