package game

import (
	"context"

	"github.com/lox/skillholdem/internal/deck"
)

// SeatView is the read-only state a decider sees when it is asked to act.
// Only the acting seat's hole cards are included.
type SeatView struct {
	Seat           int
	Name           string
	Stage          Stage
	Hole           []deck.Card
	Community      []deck.Card
	Chips          int
	CurrentBet     int
	TableBet       int
	ToCall         int
	Pot            int
	RaiseIncrement int
	Energy         int
}

// Turn is one request for a decision. Effects lets an interactive decider
// spend energy while the prompt is open; the calls run on the engine's
// goroutine like every other state change.
type Turn struct {
	View    SeatView
	Effects Effects
}

// Decider obtains a seat's action. Implementations must not mutate game
// state; the betting round applies the returned action.
type Decider interface {
	Decide(ctx context.Context, turn Turn) (Action, error)
}

// DeciderFunc adapts a function to Decider
type DeciderFunc func(ctx context.Context, turn Turn) (Action, error)

func (f DeciderFunc) Decide(ctx context.Context, turn Turn) (Action, error) {
	return f(ctx, turn)
}
