package game

import (
	"fmt"
	"strings"
)

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// ParseAction converts a user-facing action name into an Action
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "fold":
		return Fold, nil
	case "k", "check":
		return Check, nil
	case "c", "call":
		return Call, nil
	case "r", "raise":
		return Raise, nil
	default:
		return Fold, illegal("unknown action %q", s)
	}
}

// Stage is a step of the hand state machine
type Stage int

const (
	Setup Stage = iota
	Blinds
	DealHole
	Preflop
	FlopDeal
	Flop
	TurnDeal
	Turn
	RiverDeal
	River
	Showdown
	Complete
)

func (s Stage) String() string {
	names := [...]string{
		"setup", "blinds", "deal", "preflop",
		"flop-deal", "flop", "turn-deal", "turn",
		"river-deal", "river", "showdown", "complete",
	}
	if s < 0 || int(s) >= len(names) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return names[s]
}

// IsBetting reports whether players act during this stage
func (s Stage) IsBetting() bool {
	return s == Preflop || s == Flop || s == Turn || s == River
}
