package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is returned for input that arrives when no prompt is
	// outstanding, for the wrong seat, or that names an unknown action.
	ErrIllegalAction = errors.New("illegal action")

	// ErrNotEnoughPlayers is returned when fewer than two seats have chips.
	ErrNotEnoughPlayers = errors.New("need at least 2 players with chips")

	// ErrInsufficientEnergy is returned when an effect costs more energy than
	// the seat holds. Nothing changes.
	ErrInsufficientEnergy = errors.New("insufficient energy")

	// ErrDeckReserve is returned when a swap would leave too few cards to
	// finish dealing the board.
	ErrDeckReserve = errors.New("deck cannot spare a card")

	// ErrHandAborted wraps card and evaluation failures that stop a hand.
	ErrHandAborted = errors.New("hand aborted")
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

// InternalConsistencyFault reports an engine bug, such as a betting round
// that never reached its termination condition. It is never caused by a
// player's choices.
type InternalConsistencyFault struct {
	Stage      Stage
	Iterations int
	Reason     string
	Snapshot   string // dump of seat state when the fault was raised
}

func (f *InternalConsistencyFault) Error() string {
	return fmt.Sprintf("internal consistency fault in %s after %d iterations: %s", f.Stage, f.Iterations, f.Reason)
}
