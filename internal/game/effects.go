package game

import (
	"fmt"

	"github.com/lox/skillholdem/internal/deck"
)

// EffectKind names an energy-gated table effect
type EffectKind int

const (
	PeekEffect EffectKind = iota
	SwapEffect
)

func (k EffectKind) String() string {
	switch k {
	case PeekEffect:
		return "peek"
	case SwapEffect:
		return "swap"
	default:
		return "unknown"
	}
}

// Effects are the energy-gated commands available to the human seat
type Effects interface {
	Peek() (PeekResult, error)
	Swap() (SwapResult, error)
}

// PeekResult is a card revealed from another seat, for display only
type PeekResult struct {
	Seat  int
	Name  string
	Index int
	Card  deck.Card
}

// SwapResult describes a replaced hole card
type SwapResult struct {
	Index int
	Old   deck.Card
	New   deck.Card
}

// seatEffects runs effects for one seat against the live hand
type seatEffects struct {
	s    *Session
	hand *HandState
	seat int
}

// Peek reveals one random card from a random other seat still holding cards
func (e *seatEffects) Peek() (PeekResult, error) {
	p := e.hand.Players[e.seat]
	cost := e.s.rules.Energy.PeekCost
	if p.Energy < cost {
		return PeekResult{}, fmt.Errorf("%w: peek costs %d, have %d", ErrInsufficientEnergy, cost, p.Energy)
	}

	var targets []*Player
	for _, other := range e.hand.Players {
		if other.Seat != e.seat && len(other.Hand) > 0 {
			targets = append(targets, other)
		}
	}
	if len(targets) == 0 {
		return PeekResult{}, illegal("no other seat holds cards")
	}

	target := targets[e.s.rng.IntN(len(targets))]
	idx := e.s.rng.IntN(len(target.Hand))
	p.UseEnergy(cost)

	res := PeekResult{Seat: target.Seat, Name: target.Name, Index: idx, Card: target.Hand[idx]}
	e.s.logger.Debug("Peek", "seat", e.seat, "target", target.Name, "energy", p.Energy)
	e.s.bus.Publish(EffectEvent{
		stamp:  e.s.now(),
		Seat:   e.seat,
		Kind:   PeekEffect,
		Cost:   cost,
		Energy: p.Energy,
		Peek:   &res,
	})
	return res, nil
}

// Swap replaces one random hole card with a fresh card from the deck. The
// swap is refused if it would leave the deck unable to complete the board.
func (e *seatEffects) Swap() (SwapResult, error) {
	p := e.hand.Players[e.seat]
	cost := e.s.rules.Energy.SwapCost
	if p.Energy < cost {
		return SwapResult{}, fmt.Errorf("%w: swap costs %d, have %d", ErrInsufficientEnergy, cost, p.Energy)
	}
	if len(p.Hand) == 0 {
		return SwapResult{}, illegal("no hole cards to swap")
	}
	if reserve := e.hand.cardsStillNeeded(); e.hand.Deck.Count() <= reserve {
		return SwapResult{}, fmt.Errorf("%w: %d left, %d reserved for the board", ErrDeckReserve, e.hand.Deck.Count(), reserve)
	}

	card, err := e.hand.Deck.Draw()
	if err != nil {
		return SwapResult{}, err
	}
	idx := e.s.rng.IntN(len(p.Hand))
	res := SwapResult{Index: idx, Old: p.Hand[idx], New: card}
	p.Hand[idx] = card
	p.UseEnergy(cost)

	e.s.logger.Debug("Swap", "seat", e.seat, "old", res.Old, "new", res.New, "energy", p.Energy)
	e.s.bus.Publish(EffectEvent{
		stamp:  e.s.now(),
		Seat:   e.seat,
		Kind:   SwapEffect,
		Cost:   cost,
		Energy: p.Energy,
		Swap:   &res,
	})
	return res, nil
}
