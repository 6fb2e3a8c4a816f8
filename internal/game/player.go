package game

import "github.com/lox/skillholdem/internal/deck"

// Player is one seat's state. Chips and energy persist across hands; every
// other field is reset by ClearForNewHand.
type Player struct {
	Seat       int
	Name       string
	IsAI       bool
	Hand       []deck.Card
	Chips      int
	CurrentBet int // committed during the current betting stage
	IsFolded   bool
	IsAllIn    bool
	Energy     int
	MaxEnergy  int
}

// NewPlayer creates a player with an empty energy pool
func NewPlayer(seat int, name string, isAI bool, chips int) *Player {
	return &Player{
		Seat:  seat,
		Name:  name,
		IsAI:  isAI,
		Chips: chips,
	}
}

// AddCard appends a hole card
func (p *Player) AddCard(c deck.Card) {
	p.Hand = append(p.Hand, c)
}

// ClearForNewHand resets the per-hand fields
func (p *Player) ClearForNewHand() {
	p.Hand = nil
	p.CurrentBet = 0
	p.IsFolded = false
	p.IsAllIn = false
}

// InHand returns true if the player has not folded
func (p *Player) InHand() bool {
	return !p.IsFolded
}

// CanAct returns true if the player can still make decisions this hand
func (p *Player) CanAct() bool {
	return !p.IsFolded && !p.IsAllIn
}

// Pay removes up to amount chips from the stack and returns what was paid.
// Running out of chips puts the player all-in.
func (p *Player) Pay(amount int) int {
	if amount <= 0 {
		return 0
	}
	paid := min(amount, p.Chips)
	p.Chips -= paid
	if p.Chips == 0 {
		p.IsAllIn = true
	}
	return paid
}

// AddEnergy adds n energy, capped at MaxEnergy
func (p *Player) AddEnergy(n int) {
	p.Energy = min(p.MaxEnergy, p.Energy+n)
}

// UseEnergy spends cost energy if the player has enough
func (p *Player) UseEnergy(cost int) bool {
	if p.Energy < cost {
		return false
	}
	p.Energy -= cost
	return true
}
