package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.9))
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 2.5, Showdown: true, Won: true})

	assert.Equal(t, 1, stats.Hands)
	assert.Equal(t, 2.5, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 2.5, stats.Median())
	assert.Equal(t, 1, stats.ShowdownWins)
	assert.Equal(t, 2.5, stats.BestBB)
	assert.Equal(t, 2.5, stats.WorstBB)
}

func TestStatistics_KnownValues(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{-1, -1, 2, 4} {
		stats.Add(HandResult{NetBB: v, Won: v > 0})
	}

	assert.Equal(t, 1.0, stats.Mean())
	assert.InDelta(t, 6.0, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(6), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(6)/2, stats.StdError(), 1e-9)
	assert.Equal(t, 0.5, stats.Median())
	assert.Equal(t, 4.0, stats.Percentile(1))
	assert.Equal(t, -1.0, stats.Percentile(0))
	assert.Equal(t, 2, stats.NonShowdownWins)

	lo, hi := stats.ConfidenceInterval95()
	assert.InDelta(t, 1-1.96*math.Sqrt(6)/2, lo, 1e-9)
	assert.InDelta(t, 1+1.96*math.Sqrt(6)/2, hi, 1e-9)
	require.NoError(t, stats.Validate())
}

func TestStatistics_SatOutHandsSkipWinRate(t *testing.T) {
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 3, Won: true})
	stats.Add(HandResult{Sat: true})

	assert.Equal(t, 1, stats.Hands)
	assert.Equal(t, 1, stats.SatOut)
	assert.Equal(t, 3.0, stats.Mean())
}

func TestStatistics_Merge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	for i, v := range []float64{1, -2, 5, 0.5, -3} {
		r := HandResult{NetBB: v, Showdown: i%2 == 0, Won: v > 0}
		all.Add(r)
		if i < 2 {
			a.Add(r)
		} else {
			b.Add(r)
		}
	}

	a.Merge(b)
	assert.Equal(t, all.Hands, a.Hands)
	assert.InDelta(t, all.Mean(), a.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.Equal(t, 5.0, a.BestBB)
	assert.Equal(t, -3.0, a.WorstBB)
	assert.Equal(t, all.ShowdownWins, a.ShowdownWins)
	require.NoError(t, a.Validate())
}

func TestStatistics_ValidateCatchesMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 1})
	stats.ShowdownBB = 10

	assert.Error(t, stats.Validate())
}

func TestTable_NamesOrderedByWinRate(t *testing.T) {
	table := NewTable()
	table.Add("AI_1", HandResult{NetBB: -2})
	table.Add("Player", HandResult{NetBB: 3, Won: true})
	table.Add("AI_2", HandResult{NetBB: -1})

	assert.Equal(t, []string{"Player", "AI_2", "AI_1"}, table.Names())
	assert.Zero(t, table.NetBB())

	other := NewTable()
	other.Add("AI_1", HandResult{NetBB: 4, Won: true})
	table.Merge(other)
	assert.Equal(t, 2, table.Seat("AI_1").Hands)
	assert.Equal(t, 1.0, table.Seat("AI_1").Mean())
}
