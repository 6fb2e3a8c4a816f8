package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/skillholdem/internal/deck"
	"github.com/lox/skillholdem/internal/randutil"
)

// EnergyRules controls the energy pool that pays for effects
type EnergyRules struct {
	Initial     int
	Max         int
	HandRegen   int // added to every seat at hand start
	WinnerBonus int
	LoserBonus  int
	PeekCost    int
	SwapCost    int
}

// Rules are the table stakes and limits shared by every hand of a session
type Rules struct {
	SmallBlind         int
	BigBlind           int
	Raise              RaiseSchedule
	MaxRoundIterations int
	Energy             EnergyRules
}

// DefaultRules returns the stakes of the original table game
func DefaultRules() Rules {
	return Rules{
		SmallBlind:         5,
		BigBlind:           10,
		Raise:              FixedRaise(20),
		MaxRoundIterations: DefaultMaxRoundIterations,
		Energy: EnergyRules{
			Initial:     5,
			Max:         10,
			HandRegen:   1,
			WinnerBonus: 3,
			LoserBonus:  1,
			PeekCost:    3,
			SwapCost:    4,
		},
	}
}

func (r Rules) validate() error {
	switch {
	case r.SmallBlind <= 0 || r.BigBlind <= 0:
		return errors.New("blinds must be positive")
	case r.SmallBlind > r.BigBlind:
		return fmt.Errorf("small blind %d exceeds big blind %d", r.SmallBlind, r.BigBlind)
	case r.Raise == nil || r.Raise.Increment(0) <= 0:
		return errors.New("raise increment must be positive")
	case r.Energy.Max < 0 || r.Energy.Initial < 0 || r.Energy.Initial > r.Energy.Max:
		return fmt.Errorf("initial energy %d outside [0, %d]", r.Energy.Initial, r.Energy.Max)
	}
	return nil
}

// Seat binds a player to the decider that acts for it
type Seat struct {
	Player  *Player
	Decider Decider
}

// Session plays consecutive hands at one table. Chips and energy carry over
// between hands; everything else is rebuilt per hand. A session is driven
// from a single goroutine.
type Session struct {
	rules   Rules
	seats   []Seat
	players []*Player

	rng     *rand.Rand
	logger  *log.Logger
	bus     EventBus
	clock   quartz.Clock
	newDeck func(rng *rand.Rand) *deck.Deck

	dealer        int
	rotateDealer  bool
	hands         int
	startingTotal int
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithRNG sets the source for shuffles and effect targeting
func WithRNG(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithEventBus publishes hand events on bus instead of a private bus
func WithEventBus(bus EventBus) SessionOption {
	return func(s *Session) { s.bus = bus }
}

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithDealer sets the initial dealer seat
func WithDealer(seat int) SessionOption {
	return func(s *Session) { s.dealer = seat }
}

// WithRotateDealer moves the button to the next funded seat after each hand
func WithRotateDealer(rotate bool) SessionOption {
	return func(s *Session) { s.rotateDealer = rotate }
}

// WithDeckFactory replaces the deck built for each hand. The deck is
// shuffled once after it is built.
func WithDeckFactory(fn func(rng *rand.Rand) *deck.Deck) SessionOption {
	return func(s *Session) { s.newDeck = fn }
}

// NewSession seats the players in order. Seat numbers and energy pools are
// assigned from the seat index and rules.
func NewSession(rules Rules, seats []Seat, opts ...SessionOption) (*Session, error) {
	if err := rules.validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if len(seats) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	if rules.MaxRoundIterations <= 0 {
		rules.MaxRoundIterations = DefaultMaxRoundIterations
	}

	s := &Session{
		rules:   rules,
		seats:   seats,
		rng:     randutil.New(randutil.Seed(0)),
		logger:  log.New(io.Discard),
		clock:   quartz.NewReal(),
		newDeck: deck.NewDeck,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = NewEventBus()
	}
	if s.dealer < 0 || s.dealer >= len(seats) {
		return nil, fmt.Errorf("dealer seat %d out of range", s.dealer)
	}
	s.logger = s.logger.WithPrefix("session")

	for i, seat := range seats {
		if seat.Player == nil || seat.Decider == nil {
			return nil, fmt.Errorf("seat %d needs a player and a decider", i)
		}
		p := seat.Player
		p.Seat = i
		p.MaxEnergy = rules.Energy.Max
		p.Energy = rules.Energy.Initial
		s.players = append(s.players, p)
		s.startingTotal += p.Chips
	}
	return s, nil
}

// Players returns the seated players in seat order
func (s *Session) Players() []*Player {
	return s.players
}

// Dealer returns the current dealer seat
func (s *Session) Dealer() int {
	return s.dealer
}

// HandsPlayed returns the number of hands started, including aborted ones
func (s *Session) HandsPlayed() int {
	return s.hands
}

// Bus returns the event bus hands are published on
func (s *Session) Bus() EventBus {
	return s.bus
}

// Rules returns the session's rules
func (s *Session) Rules() Rules {
	return s.rules
}

// TotalChips returns the chips held by every seat
func (s *Session) TotalChips() int {
	total := 0
	for _, p := range s.players {
		total += p.Chips
	}
	return total
}

// FundedSeats returns the number of seats with chips
func (s *Session) FundedSeats() int {
	n := 0
	for _, p := range s.players {
		if p.Chips > 0 {
			n++
		}
	}
	return n
}

func (s *Session) now() stamp {
	return stamp{at: s.clock.Now()}
}

// PlayHand plays one complete hand. Card and evaluation failures abort the
// hand with ErrHandAborted after restoring every seat to its hand-start
// state; the returned summary lists the fault.
func (s *Session) PlayHand(ctx context.Context) (*HandSummary, error) {
	if s.FundedSeats() < 2 {
		return nil, ErrNotEnoughPlayers
	}
	s.hands++

	o := newOrchestrator(s)
	summary, err := o.run(ctx)

	if s.rotateDealer {
		if next := o.hand.nextSeat(s.dealer, func(p *Player) bool { return p.Chips > 0 }); next >= 0 {
			s.dealer = next
		}
	}
	return summary, err
}

// PlayHands plays up to n hands, stopping early once fewer than two seats
// have chips. Aborted hands stop the run and return their error.
func (s *Session) PlayHands(ctx context.Context, n int) ([]*HandSummary, error) {
	var summaries []*HandSummary
	for range n {
		summary, err := s.PlayHand(ctx)
		if errors.Is(err, ErrNotEnoughPlayers) {
			break
		}
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

// ValidateChipConservation checks that no chips were created or destroyed
// since the session started
func (s *Session) ValidateChipConservation() error {
	if total := s.TotalChips(); total != s.startingTotal {
		return fmt.Errorf("chip conservation violated: expected %d, have %d", s.startingTotal, total)
	}
	return nil
}
