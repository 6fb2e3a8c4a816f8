package game

import (
	"github.com/lox/skillholdem/internal/deck"
)

// BoardSize is the number of community cards in a complete board
const BoardSize = 5

// HandState is everything that belongs to one hand in progress. It is owned
// by a single goroutine; the session passes it to the betting round and the
// effects rather than sharing it through package state.
type HandState struct {
	ID        string
	Number    int
	Stage     Stage
	Players   []*Player
	Deck      *deck.Deck
	Community []deck.Card
	Pot       int
	// CurrentBet is the highest commitment any seat has made this stage
	CurrentBet int

	Dealer         int
	SmallBlindSeat int
	BigBlindSeat   int
}

// ToCall returns what p owes to match the table bet
func (h *HandState) ToCall(p *Player) int {
	return max(0, h.CurrentBet-p.CurrentBet)
}

// commit moves up to amount chips from p into the pot
func (h *HandState) commit(p *Player, amount int) int {
	paid := p.Pay(amount)
	p.CurrentBet += paid
	h.Pot += paid
	return paid
}

// PostBlind commits a forced bet, clamped to the seat's chips
func (h *HandState) PostBlind(seat, amount int) int {
	return h.commit(h.Players[seat], amount)
}

// resetBets clears every seat's stage commitment and the table bet
func (h *HandState) resetBets() {
	for _, p := range h.Players {
		p.CurrentBet = 0
	}
	h.CurrentBet = 0
}

// Contenders returns the players who have not folded, in seat order
func (h *HandState) Contenders() []*Player {
	var out []*Player
	for _, p := range h.Players {
		if p.InHand() {
			out = append(out, p)
		}
	}
	return out
}

// ContenderCount returns the number of players who have not folded
func (h *HandState) ContenderCount() int {
	n := 0
	for _, p := range h.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// ActiveCount returns the number of players who can still act
func (h *HandState) ActiveCount() int {
	n := 0
	for _, p := range h.Players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

// TotalChips returns chips in stacks plus the pot
func (h *HandState) TotalChips() int {
	total := h.Pot
	for _, p := range h.Players {
		total += p.Chips
	}
	return total
}

// cardsStillNeeded is the number of community cards not yet dealt
func (h *HandState) cardsStillNeeded() int {
	return BoardSize - len(h.Community)
}

// nextSeat returns the first seat after from (circularly) that satisfies ok,
// or -1 if none does.
func (h *HandState) nextSeat(from int, ok func(*Player) bool) int {
	n := len(h.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if ok(h.Players[seat]) {
			return seat
		}
	}
	return -1
}

// seatSnapshot is a flat copy of a player used in fault dumps and events
type seatSnapshot struct {
	Seat       int
	Name       string
	Chips      int
	CurrentBet int
	Folded     bool
	AllIn      bool
	Acted      bool
}

func (h *HandState) snapshot(acted []bool) []seatSnapshot {
	out := make([]seatSnapshot, len(h.Players))
	for i, p := range h.Players {
		out[i] = seatSnapshot{
			Seat:       p.Seat,
			Name:       p.Name,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			Folded:     p.IsFolded,
			AllIn:      p.IsAllIn,
		}
		if i < len(acted) {
			out[i].Acted = acted[i]
		}
	}
	return out
}
