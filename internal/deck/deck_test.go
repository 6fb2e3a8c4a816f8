package deck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/skillholdem/internal/randutil"
)

func TestNewDeckIsComplete(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(1))
	require.Equal(t, 48, Size)
	assert.Equal(t, Size, d.Count())
	assertUnique(t, d.Cards())
}

func TestShuffleKeepsEveryCard(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 50; seed++ {
		d := NewDeck(randutil.New(seed))
		d.Shuffle()
		require.Equal(t, Size, d.Count(), "seed %d", seed)
		assertUnique(t, d.Cards())
	}
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	t.Parallel()
	a := NewDeck(randutil.New(42))
	b := NewDeck(randutil.New(42))
	a.Shuffle()
	b.Shuffle()
	assert.Equal(t, a.Cards(), b.Cards())

	c := NewDeck(randutil.New(43))
	c.Shuffle()
	assert.NotEqual(t, a.Cards(), c.Cards())
}

func TestDrawUntilEmpty(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(7))
	d.Shuffle()

	for i := Size; i > 0; i-- {
		require.Equal(t, i, d.Count())
		_, err := d.Draw()
		require.NoError(t, err)
	}

	assert.True(t, d.IsEmpty())
	_, err := d.Draw()
	assert.True(t, errors.Is(err, ErrEmptyDeck))
	assert.Equal(t, 0, d.Count())
}

func TestDrawNLeavesDeckIntactWhenShort(t *testing.T) {
	t.Parallel()
	d := NewFromCards(MustParseCards("AsKsQs"))

	_, err := d.DrawN(4)
	require.ErrorIs(t, err, ErrEmptyDeck)
	assert.Equal(t, 3, d.Count())

	cards, err := d.DrawN(2)
	require.NoError(t, err)
	assert.Equal(t, MustParseCards("AsKs"), cards)
	assert.Equal(t, 1, d.Count())
}

func TestResetAfterDraws(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(3))
	_, err := d.DrawN(20)
	require.NoError(t, err)

	d.Reset()
	assert.Equal(t, Size, d.Count())
	assertUnique(t, d.Cards())
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	t.Parallel()
	stacked := MustParseCards("2c3d4h")
	d := NewFromCards(stacked)
	d.Shuffle()

	for _, want := range stacked {
		got, err := d.Draw()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func assertUnique(t *testing.T, cards []Card) {
	t.Helper()
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		require.False(t, seen[c], "duplicate card %s", c)
		require.True(t, c.Rank.Valid(), "invalid rank in %v", c)
		seen[c] = true
	}
}
