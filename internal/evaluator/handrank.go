package evaluator

// HandRank is the category of a five-card hand. Higher values beat lower ones.
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the readable name of the hand
func (h HandRank) String() string {
	switch h {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult is the outcome of evaluating a hand: its category plus a single
// tie-break value whose meaning depends on the category (quad rank for four
// of a kind, top card for straights and flushes, and so on).
type HandResult struct {
	Rank     HandRank
	HighCard int
}

// Compare returns 1 if r beats other, -1 if other beats r and 0 if they are
// equal, ordering by rank then by high card.
func (r HandResult) Compare(other HandResult) int {
	switch {
	case r.Rank > other.Rank:
		return 1
	case r.Rank < other.Rank:
		return -1
	case r.HighCard > other.HighCard:
		return 1
	case r.HighCard < other.HighCard:
		return -1
	}
	return 0
}

// Beats reports whether r is strictly stronger than other
func (r HandResult) Beats(other HandResult) bool {
	return r.Compare(other) > 0
}

func (r HandResult) String() string {
	return r.Rank.String()
}
