package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/skillholdem/internal/deck"
)

func TestPlayerPayClampsAndGoesAllIn(t *testing.T) {
	t.Parallel()
	p := NewPlayer(0, "Alice", false, 30)

	assert.Equal(t, 0, p.Pay(-5))
	assert.Equal(t, 10, p.Pay(10))
	assert.False(t, p.IsAllIn)

	assert.Equal(t, 20, p.Pay(50))
	assert.Equal(t, 0, p.Chips)
	assert.True(t, p.IsAllIn)
	assert.False(t, p.CanAct())
	assert.True(t, p.InHand())
}

func TestPlayerClearForNewHand(t *testing.T) {
	t.Parallel()
	p := NewPlayer(0, "Alice", false, 100)
	p.AddCard(deck.MustParseCards("As")[0])
	p.AddCard(deck.MustParseCards("Kd")[0])
	p.CurrentBet = 40
	p.IsFolded = true
	p.Energy = 4

	hand := p.Hand
	p.ClearForNewHand()

	assert.Empty(t, p.Hand)
	assert.Zero(t, p.CurrentBet)
	assert.False(t, p.IsFolded)
	assert.Equal(t, 100, p.Chips)
	assert.Equal(t, 4, p.Energy)

	p.AddCard(deck.MustParseCards("2c")[0])
	assert.Equal(t, deck.MustParseCards("As")[0], hand[0], "old hand is not overwritten")
}

func TestPlayerEnergy(t *testing.T) {
	t.Parallel()
	p := NewPlayer(0, "Alice", false, 100)
	p.MaxEnergy = 10
	p.Energy = 8

	p.AddEnergy(5)
	assert.Equal(t, 10, p.Energy)

	assert.True(t, p.UseEnergy(4))
	assert.Equal(t, 6, p.Energy)
	assert.False(t, p.UseEnergy(7))
	assert.Equal(t, 6, p.Energy)
}

func TestPostBlindClampsToChips(t *testing.T) {
	t.Parallel()
	h := newTestHand(1000, 3)

	assert.Equal(t, 5, h.PostBlind(0, 5))
	assert.Equal(t, 3, h.PostBlind(1, 10))
	assert.True(t, h.Players[1].IsAllIn)
	assert.Equal(t, 8, h.Pot)
	assert.Equal(t, 1003, h.TotalChips())
}
