package game

import (
	"context"
	rand "math/rand/v2"

	"github.com/lox/skillholdem/internal/evaluator"
)

// DefaultPressureWeight is how strongly a large call relative to the stack
// suppresses calling and raising.
const DefaultPressureWeight = 0.6

// actionOdds are the base probabilities of calling and raising for a hand
// category. Their sum never decreases as the category improves.
type actionOdds struct {
	call  float64
	raise float64
}

var baseOdds = map[evaluator.HandRank]actionOdds{
	evaluator.HighCard:      {call: 0.60, raise: 0.03},
	evaluator.OnePair:       {call: 0.75, raise: 0.10},
	evaluator.TwoPair:       {call: 0.70, raise: 0.25},
	evaluator.ThreeOfAKind:  {call: 0.55, raise: 0.45},
	evaluator.Straight:      {call: 0.45, raise: 0.55},
	evaluator.Flush:         {call: 0.40, raise: 0.60},
	evaluator.FullHouse:     {call: 0.30, raise: 0.70},
	evaluator.FourOfAKind:   {call: 0.20, raise: 0.80},
	evaluator.StraightFlush: {call: 0.10, raise: 0.90},
	evaluator.RoyalFlush:    {call: 0.00, raise: 1.00},
}

// AIDecider is a computer seat. Its choice depends only on its own best hand,
// the bet it faces relative to its stack, and a single uniform roll.
type AIDecider struct {
	rng            *rand.Rand
	pressureWeight float64
}

// AIOption configures an AIDecider
type AIOption func(*AIDecider)

// WithPressureWeight sets how much bet pressure suppresses calls and raises.
// Values are clamped to [0, 1].
func WithPressureWeight(w float64) AIOption {
	return func(ai *AIDecider) {
		ai.pressureWeight = min(1, max(0, w))
	}
}

// NewAIDecider creates an AI decider drawing from rng
func NewAIDecider(rng *rand.Rand, opts ...AIOption) *AIDecider {
	if rng == nil {
		panic("rng is required for AI decisions")
	}
	ai := &AIDecider{rng: rng, pressureWeight: DefaultPressureWeight}
	for _, opt := range opts {
		opt(ai)
	}
	return ai
}

// Decide implements Decider
func (ai *AIDecider) Decide(_ context.Context, turn Turn) (Action, error) {
	v := turn.View
	strength := evaluator.Strength(v.Hole, v.Community)
	return ai.choose(strength.Rank, v.ToCall, v.Chips, ai.rng.Float64()), nil
}

// Odds returns the call and raise probabilities after bet pressure
func (ai *AIDecider) Odds(rank evaluator.HandRank, toCall, chips int) (call, raise float64) {
	base := baseOdds[rank]
	factor := 1 - ai.pressureWeight*pressure(toCall, chips)
	return base.call * factor, base.raise * factor
}

func (ai *AIDecider) choose(rank evaluator.HandRank, toCall, chips int, roll float64) Action {
	call, raise := ai.Odds(rank, toCall, chips)
	switch {
	case roll < raise:
		return Raise
	case toCall == 0:
		// Nothing to lose by staying in.
		return Check
	case roll < call+raise:
		return Call
	default:
		return Fold
	}
}

// pressure is the share of the stack needed to call, in [0, 1]
func pressure(toCall, chips int) float64 {
	if toCall <= 0 {
		return 0
	}
	if chips <= 0 || toCall >= chips {
		return 1
	}
	return float64(toCall) / float64(chips)
}
