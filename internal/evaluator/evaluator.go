package evaluator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/skillholdem/internal/deck"
)

// HandSize is the number of cards in an evaluated hand
const HandSize = 5

// ErrInsufficientCards is returned when fewer than five cards are available
var ErrInsufficientCards = errors.New("insufficient cards to evaluate a hand")

// Evaluate classifies exactly five cards. The result does not depend on the
// order of the input.
func Evaluate(cards []deck.Card) (HandResult, error) {
	if len(cards) != HandSize {
		if len(cards) < HandSize {
			return HandResult{}, fmt.Errorf("%w: have %d", ErrInsufficientCards, len(cards))
		}
		return HandResult{}, fmt.Errorf("evaluate needs exactly %d cards, got %d", HandSize, len(cards))
	}
	return evaluate5([HandSize]deck.Card(cards)), nil
}

func evaluate5(cards [HandSize]deck.Card) HandResult {
	var ranks [HandSize]int
	flush := true
	for i, c := range cards {
		ranks[i] = c.Value()
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	slices.Sort(ranks[:])
	slices.Reverse(ranks[:])
	top := ranks[0]

	groups := groupRanks(ranks[:])
	// Five distinct values spanning four steps; there is no ace-low wheel.
	straight := len(groups) == HandSize && ranks[0]-ranks[HandSize-1] == 4

	first := groups[0]
	second := 0
	if len(groups) > 1 {
		second = groups[1].count
	}

	switch {
	case straight && flush:
		if top == int(deck.Ace) {
			return HandResult{Rank: RoyalFlush, HighCard: top}
		}
		return HandResult{Rank: StraightFlush, HighCard: top}
	case first.count == 4:
		return HandResult{Rank: FourOfAKind, HighCard: first.rank}
	case first.count == 3 && second == 2:
		return HandResult{Rank: FullHouse, HighCard: first.rank}
	case flush:
		return HandResult{Rank: Flush, HighCard: top}
	case straight:
		return HandResult{Rank: Straight, HighCard: top}
	case first.count == 3:
		return HandResult{Rank: ThreeOfAKind, HighCard: first.rank}
	case first.count == 2 && second == 2:
		return HandResult{Rank: TwoPair, HighCard: first.rank}
	case first.count == 2:
		return HandResult{Rank: OnePair, HighCard: first.rank}
	}
	return HandResult{Rank: HighCard, HighCard: top}
}

type rankGroup struct {
	rank  int
	count int
}

// groupRanks groups descending rank values, ordered by count then rank.
func groupRanks(ranks []int) []rankGroup {
	groups := make([]rankGroup, 0, len(ranks))
	for _, r := range ranks {
		if n := len(groups); n > 0 && groups[n-1].rank == r {
			groups[n-1].count++
			continue
		}
		groups = append(groups, rankGroup{rank: r, count: 1})
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return b.rank - a.rank
	})
	return groups
}

// BestHand returns the strongest five-card hand that can be made from the
// hole and community cards combined. Every five-card combination is
// evaluated; among equal results the first one found is kept.
func BestHand(hole, community []deck.Card) (HandResult, error) {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	if len(all) < HandSize {
		return HandResult{}, fmt.Errorf("%w: have %d", ErrInsufficientCards, len(all))
	}

	var best HandResult
	found := false
	forEachCombination(all, func(combo [HandSize]deck.Card) {
		res := evaluate5(combo)
		if !found || res.Beats(best) {
			best = res
			found = true
		}
	})
	return best, nil
}

// forEachCombination calls fn with every five-card subset of cards in
// lexicographic index order.
func forEachCombination(cards []deck.Card, fn func([HandSize]deck.Card)) {
	n := len(cards)
	var idx [HandSize]int
	for i := range idx {
		idx[i] = i
	}
	for {
		var combo [HandSize]deck.Card
		for i, j := range idx {
			combo[i] = cards[j]
		}
		fn(combo)

		i := HandSize - 1
		for i >= 0 && idx[i] == n-HandSize+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < HandSize; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// PartialRank classifies fewer than five cards by rank groups only, which is
// all that is knowable before the flop. It never reports straights or flushes.
func PartialRank(cards []deck.Card) HandResult {
	if len(cards) == 0 {
		return HandResult{Rank: HighCard}
	}
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = c.Value()
	}
	slices.Sort(ranks)
	slices.Reverse(ranks)
	groups := groupRanks(ranks)

	first := groups[0]
	second := 0
	if len(groups) > 1 {
		second = groups[1].count
	}
	switch {
	case first.count == 4:
		return HandResult{Rank: FourOfAKind, HighCard: first.rank}
	case first.count == 3 && second >= 2:
		return HandResult{Rank: FullHouse, HighCard: first.rank}
	case first.count == 3:
		return HandResult{Rank: ThreeOfAKind, HighCard: first.rank}
	case first.count == 2 && second == 2:
		return HandResult{Rank: TwoPair, HighCard: first.rank}
	case first.count == 2:
		return HandResult{Rank: OnePair, HighCard: first.rank}
	}
	return HandResult{Rank: HighCard, HighCard: ranks[0]}
}

// Strength returns BestHand when at least five cards are visible and
// PartialRank otherwise.
func Strength(hole, community []deck.Card) HandResult {
	if len(hole)+len(community) >= HandSize {
		res, err := BestHand(hole, community)
		if err == nil {
			return res
		}
	}
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	return PartialRank(all)
}
