package game

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sanity-io/litter"
)

// DefaultMaxRoundIterations bounds the seats a betting round may visit
// before it is declared stalled.
const DefaultMaxRoundIterations = 2000

// BettingRound runs one stage of betting. Every seat that can act must have
// acted since the last raise and matched the table bet before the round ends.
type BettingRound struct {
	hand     *HandState
	deciders []Decider
	schedule RaiseSchedule
	effects  func(seat int) Effects
	bus      EventBus
	logger   *log.Logger
	now      func() stamp

	maxIterations int

	acted  []bool
	raises int
}

// RoundResult reports how a betting round ended
type RoundResult struct {
	Iterations int
	Actions    int
	Raises     int
	// Fault is set when the iteration ceiling was hit and the round was
	// forcibly closed with every unacted seat treated as checked.
	Fault *InternalConsistencyFault
}

// Run plays the round starting at seat start. The only error it returns is
// a cancelled context or a decider failure; stalls are reported in Fault.
func (br *BettingRound) Run(ctx context.Context, start int) (RoundResult, error) {
	h := br.hand
	n := len(h.Players)
	br.acted = make([]bool, n)
	br.raises = 0

	var res RoundResult
	if h.ContenderCount() <= 1 {
		return res, nil
	}

	seat := start % n
	for {
		res.Iterations++
		if res.Iterations > br.maxIterations {
			res.Fault = br.stall(res.Iterations - 1)
			res.Raises = br.raises
			return res, nil
		}
		if h.ContenderCount() <= 1 {
			break
		}

		p := h.Players[seat]
		if !p.CanAct() {
			br.acted[seat] = true
		} else if br.needsToAct(seat) {
			action, err := br.decide(ctx, seat)
			if err != nil {
				return res, err
			}
			br.apply(seat, action)
			res.Actions++
		}

		if br.complete() {
			break
		}
		seat = (seat + 1) % n
	}

	res.Raises = br.raises
	return res, nil
}

// needsToAct is true while the seat owes chips or has not acted since the
// last raise
func (br *BettingRound) needsToAct(seat int) bool {
	p := br.hand.Players[seat]
	return p.CurrentBet != br.hand.CurrentBet || !br.acted[seat]
}

// complete is true when every seat that can act has acted and matched
func (br *BettingRound) complete() bool {
	if br.hand.ContenderCount() <= 1 {
		return true
	}
	for i, p := range br.hand.Players {
		if !p.CanAct() {
			continue
		}
		if !br.acted[i] || p.CurrentBet != br.hand.CurrentBet {
			return false
		}
	}
	return true
}

func (br *BettingRound) decide(ctx context.Context, seat int) (Action, error) {
	h := br.hand
	p := h.Players[seat]
	turn := Turn{
		View: SeatView{
			Seat:           seat,
			Name:           p.Name,
			Stage:          h.Stage,
			Hole:           cloneCards(p.Hand),
			Community:      cloneCards(h.Community),
			Chips:          p.Chips,
			CurrentBet:     p.CurrentBet,
			TableBet:       h.CurrentBet,
			ToCall:         h.ToCall(p),
			Pot:            h.Pot,
			RaiseIncrement: br.schedule.Increment(br.raises),
			Energy:         p.Energy,
		},
	}
	if br.effects != nil {
		turn.Effects = br.effects(seat)
	}

	action, err := br.deciders[seat].Decide(ctx, turn)
	if err != nil {
		return Fold, fmt.Errorf("seat %d decision: %w", seat, err)
	}
	return action, nil
}

// apply mutates the hand for one action. Payments are clamped to the seat's
// chips, so an action can never overdraw.
func (br *BettingRound) apply(seat int, action Action) {
	h := br.hand
	p := h.Players[seat]
	paid := 0

	switch action {
	case Fold:
		p.IsFolded = true
		br.acted[seat] = true

	case Check, Call:
		owed := h.ToCall(p)
		paid = h.commit(p, owed)
		if owed == 0 {
			action = Check
		} else {
			action = Call
		}
		br.acted[seat] = true

	case Raise:
		newBet := h.CurrentBet + br.schedule.Increment(br.raises)
		paid = h.commit(p, newBet-p.CurrentBet)
		h.CurrentBet = max(h.CurrentBet, newBet)
		br.raises++
		for i := range br.acted {
			br.acted[i] = false
		}
		br.acted[seat] = true

	default:
		br.logger.Warn("Unknown action treated as fold", "seat", seat, "action", int(action))
		p.IsFolded = true
		br.acted[seat] = true
		action = Fold
	}

	br.logger.Debug("Player action",
		"player", p.Name,
		"stage", h.Stage,
		"action", action,
		"paid", paid,
		"tableBet", h.CurrentBet,
		"pot", h.Pot)

	br.bus.Publish(ActionResultEvent{
		stamp:     br.now(),
		Seat:      seat,
		Name:      p.Name,
		Stage:     h.Stage,
		Action:    action,
		Paid:      paid,
		PlayerBet: p.CurrentBet,
		TableBet:  h.CurrentBet,
		Pot:       h.Pot,
		AllIn:     p.IsAllIn,
	})
}

// stall closes a round that failed to terminate, treating every seat that
// still owed an action as having checked.
func (br *BettingRound) stall(iterations int) *InternalConsistencyFault {
	h := br.hand
	fault := &InternalConsistencyFault{
		Stage:      h.Stage,
		Iterations: iterations,
		Reason:     "betting round exceeded iteration ceiling",
		Snapshot:   litter.Sdump(h.snapshot(br.acted)),
	}
	for i := range br.acted {
		br.acted[i] = true
	}
	br.logger.Error("Betting round stalled", "stage", h.Stage, "iterations", iterations, "state", fault.Snapshot)
	br.bus.Publish(FaultEvent{stamp: br.now(), Stage: h.Stage, Err: fault})
	return fault
}
