package game

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sanity-io/litter"

	"github.com/lox/skillholdem/internal/deck"
	"github.com/lox/skillholdem/internal/evaluator"
)

// street is one community deal followed by a betting round
type street struct {
	deal  Stage
	bet   Stage
	cards int
}

var streets = []street{
	{deal: FlopDeal, bet: Flop, cards: 3},
	{deal: TurnDeal, bet: Turn, cards: 1},
	{deal: RiverDeal, bet: River, cards: 1},
}

// orchestrator drives a single hand through its stages
type orchestrator struct {
	s      *Session
	hand   *HandState
	logger *log.Logger

	startChips  []int
	startEnergy []int
	sittingOut  []bool
	faults      []error
}

func newOrchestrator(s *Session) *orchestrator {
	h := &HandState{
		ID:      uuid.NewString(),
		Number:  s.hands,
		Stage:   Setup,
		Players: s.players,
		Dealer:  s.dealer,
	}
	return &orchestrator{
		s:      s,
		hand:   h,
		logger: s.logger.With("hand", s.hands),
	}
}

func (o *orchestrator) run(ctx context.Context) (*HandSummary, error) {
	o.setup()

	if err := o.postBlinds(); err != nil {
		return o.abort(err)
	}
	if err := o.dealHole(); err != nil {
		return o.abort(err)
	}

	h := o.hand
	h.Stage = Preflop
	o.publishStage(nil)
	if o.bettingNeeded() {
		if err := o.bet(ctx, (h.BigBlindSeat+1)%len(h.Players)); err != nil {
			return o.abort(err)
		}
	}

	for _, st := range streets {
		// Once one seat is left the pot is decided; with several contenders
		// but nobody able to bet, the board is still run out for showdown.
		if h.ContenderCount() <= 1 {
			break
		}

		h.Stage = st.deal
		h.resetBets()
		cards, err := h.Deck.DrawN(st.cards)
		if err != nil {
			return o.abort(fmt.Errorf("dealing %s: %w", st.bet, err))
		}
		h.Community = append(h.Community, cards...)

		h.Stage = st.bet
		o.publishStage(cards)
		if o.bettingNeeded() {
			if err := o.bet(ctx, (h.Dealer+1)%len(h.Players)); err != nil {
				return o.abort(err)
			}
		}
	}

	summary, err := o.showdown(ctx)
	if err != nil {
		return o.abort(err)
	}
	o.complete(summary)
	return summary, nil
}

// setup resets every seat, builds the deck and regenerates energy
func (o *orchestrator) setup() {
	h, s := o.hand, o.s
	n := len(h.Players)
	o.startChips = make([]int, n)
	o.startEnergy = make([]int, n)
	o.sittingOut = make([]bool, n)

	h.Deck = s.newDeck(s.rng)
	h.Deck.Shuffle()

	seats := make([]SeatInfo, n)
	for i, p := range h.Players {
		p.ClearForNewHand()
		p.AddEnergy(s.rules.Energy.HandRegen)
		o.startChips[i] = p.Chips
		o.startEnergy[i] = p.Energy
		if p.Chips == 0 {
			o.sittingOut[i] = true
			p.IsFolded = true
		}
		seats[i] = SeatInfo{
			Seat:       i,
			Name:       p.Name,
			Chips:      p.Chips,
			Energy:     p.Energy,
			IsAI:       p.IsAI,
			SittingOut: o.sittingOut[i],
		}
	}

	o.logger.Info("Starting hand", "id", h.ID, "dealer", h.Dealer)
	s.bus.Publish(HandStartEvent{
		stamp:  s.now(),
		HandID: h.ID,
		Number: h.Number,
		Dealer: h.Dealer,
		Seats:  seats,
	})
}

// postBlinds charges the two funded seats after the dealer
func (o *orchestrator) postBlinds() error {
	h, s := o.hand, o.s
	h.Stage = Blinds

	funded := func(p *Player) bool { return p.InHand() }
	h.SmallBlindSeat = h.nextSeat(h.Dealer, funded)
	h.BigBlindSeat = h.nextSeat(h.SmallBlindSeat, funded)
	if h.SmallBlindSeat < 0 || h.BigBlindSeat < 0 || h.SmallBlindSeat == h.BigBlindSeat {
		return ErrNotEnoughPlayers
	}

	o.postBlind(h.SmallBlindSeat, s.rules.SmallBlind, false)
	o.postBlind(h.BigBlindSeat, s.rules.BigBlind, true)
	h.CurrentBet = s.rules.BigBlind
	return nil
}

func (o *orchestrator) postBlind(seat, amount int, big bool) {
	h := o.hand
	p := h.Players[seat]
	paid := h.PostBlind(seat, amount)
	o.logger.Debug("Posted blind", "player", p.Name, "amount", paid, "big", big)
	o.s.bus.Publish(BlindEvent{
		stamp:  o.s.now(),
		Seat:   seat,
		Name:   p.Name,
		Amount: paid,
		Big:    big,
		AllIn:  p.IsAllIn,
		Pot:    h.Pot,
	})
}

// dealHole deals two rounds of one card to every seat in the hand
func (o *orchestrator) dealHole() error {
	h := o.hand
	h.Stage = DealHole
	for range 2 {
		for i, p := range h.Players {
			if o.sittingOut[i] {
				continue
			}
			card, err := h.Deck.Draw()
			if err != nil {
				return fmt.Errorf("dealing hole cards: %w", err)
			}
			p.AddCard(card)
		}
	}
	return nil
}

// bettingNeeded reports whether anybody can still change the pot: two seats
// able to act, or a lone seat that still owes chips.
func (o *orchestrator) bettingNeeded() bool {
	h := o.hand
	if h.ContenderCount() <= 1 {
		return false
	}
	var active []*Player
	for _, p := range h.Players {
		if p.CanAct() {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return false
	case 1:
		return h.ToCall(active[0]) > 0
	default:
		return true
	}
}

func (o *orchestrator) bet(ctx context.Context, start int) error {
	s := o.s
	deciders := make([]Decider, len(s.seats))
	for i, seat := range s.seats {
		deciders[i] = seat.Decider
	}

	br := &BettingRound{
		hand:          o.hand,
		deciders:      deciders,
		schedule:      s.rules.Raise,
		effects:       func(seat int) Effects { return &seatEffects{s: s, hand: o.hand, seat: seat} },
		bus:           s.bus,
		logger:        s.logger.WithPrefix("betting"),
		now:           s.now,
		maxIterations: s.rules.MaxRoundIterations,
	}
	res, err := br.Run(ctx, start)
	if err != nil {
		return err
	}
	if res.Fault != nil {
		o.faults = append(o.faults, res.Fault)
	}
	o.logger.Debug("Betting round complete",
		"stage", o.hand.Stage,
		"actions", res.Actions,
		"raises", res.Raises,
		"pot", o.hand.Pot)
	return nil
}

func (o *orchestrator) publishStage(revealed []deck.Card) {
	h := o.hand
	o.s.bus.Publish(StageEvent{
		stamp:    o.s.now(),
		Stage:    h.Stage,
		Revealed: cloneCards(revealed),
		Board:    cloneCards(h.Community),
		Pot:      h.Pot,
	})
}

// showdown awards the pot, comparing hands only when more than one seat is
// left. Ties go to the first seat evaluated.
func (o *orchestrator) showdown(ctx context.Context) (*HandSummary, error) {
	h := o.hand
	h.Stage = Showdown

	summary := &HandSummary{
		HandID: h.ID,
		Number: h.Number,
		Winner: -1,
		Amount: h.Pot,
		Board:  cloneCards(h.Community),
	}

	contenders := h.Contenders()
	switch len(contenders) {
	case 0:
		return nil, &InternalConsistencyFault{Stage: h.Stage, Reason: "no contenders at showdown"}
	case 1:
		summary.Winner = contenders[0].Seat
		summary.ShowdownType = "fold"
	default:
		entries := make([]evaluator.Contender, len(contenders))
		for i, p := range contenders {
			entries[i] = evaluator.Contender{Seat: p.Seat, Hole: p.Hand}
		}
		scored, err := evaluator.EvaluateAll(ctx, entries, h.Community)
		if err != nil {
			return nil, fmt.Errorf("showdown: %w", err)
		}
		best := scored[evaluator.Winner(scored)]
		summary.Winner = best.Seat
		summary.Result = best.Result
		summary.Hands = scored
		summary.ShowdownType = "showdown"
	}

	winner := h.Players[summary.Winner]
	summary.WinnerName = winner.Name
	winner.Chips += h.Pot
	winner.IsAllIn = winner.Chips == 0
	h.Pot = 0

	energy := o.s.rules.Energy
	for i, p := range h.Players {
		switch {
		case i == summary.Winner:
			p.AddEnergy(energy.WinnerBonus)
		case !o.sittingOut[i]:
			p.AddEnergy(energy.LoserBonus)
		}
	}
	return summary, nil
}

// complete validates the hand's bookkeeping and announces the result
func (o *orchestrator) complete(summary *HandSummary) {
	h, s := o.hand, o.s
	h.Stage = Complete

	if total := h.TotalChips(); total != s.startingTotal {
		fault := &InternalConsistencyFault{
			Stage:    h.Stage,
			Reason:   fmt.Sprintf("chip conservation violated: expected %d, have %d", s.startingTotal, total),
			Snapshot: litter.Sdump(h.snapshot(nil)),
		}
		o.logger.Error("Chip conservation violated", "expected", s.startingTotal, "actual", total)
		s.bus.Publish(FaultEvent{stamp: s.now(), Stage: h.Stage, Err: fault})
		o.faults = append(o.faults, fault)
	}
	summary.Faults = o.faults

	o.logger.Info("Hand complete",
		"winner", summary.WinnerName,
		"amount", summary.Amount,
		"type", summary.ShowdownType,
		"result", summary.Result)
	if o.logger.GetLevel() <= log.DebugLevel {
		o.logger.Debug("Hand summary", "summary", litter.Sdump(summary))
	}
	s.bus.Publish(HandCompleteEvent{stamp: s.now(), Summary: summary})
}

// abort rolls every seat back to its hand-start chips and energy so that no
// partial hand survives, then reports the fault.
func (o *orchestrator) abort(cause error) (*HandSummary, error) {
	h, s := o.hand, o.s
	stage := h.Stage

	for i, p := range h.Players {
		p.Chips = o.startChips[i]
		p.Energy = o.startEnergy[i]
		p.CurrentBet = 0
		p.IsAllIn = false
	}
	h.Pot = 0
	h.CurrentBet = 0
	h.Stage = Complete

	err := fmt.Errorf("%w: %w", ErrHandAborted, cause)
	o.logger.Error("Hand aborted", "stage", stage, "error", cause)
	s.bus.Publish(FaultEvent{stamp: s.now(), Stage: stage, Err: err})

	return &HandSummary{
		HandID: h.ID,
		Number: h.Number,
		Winner: -1,
		Board:  cloneCards(h.Community),
		Faults: append(o.faults, err),
	}, err
}
