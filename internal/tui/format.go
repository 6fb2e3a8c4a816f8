package tui

import (
	"fmt"
	"strings"

	"github.com/lox/skillholdem/internal/deck"
	"github.com/lox/skillholdem/internal/game"
)

// EventFormatter turns game events into log lines. Lines are plain text;
// the model decides how to style them.
type EventFormatter struct {
	// Perspective is the seat whose private information may be shown, -1
	// for a spectator.
	Perspective int
}

// Format returns the log lines for an event, or nil if it has none
func (ef EventFormatter) Format(event game.GameEvent) []string {
	switch e := event.(type) {
	case game.HandStartEvent:
		return []string{fmt.Sprintf("=== Hand #%d (%s), dealer %s ===", e.Number, shortID(e.HandID), seatName(e.Seats, e.Dealer))}

	case game.BlindEvent:
		kind := "small"
		if e.Big {
			kind = "big"
		}
		line := fmt.Sprintf("%s: posts %s blind $%d", e.Name, kind, e.Amount)
		if e.AllIn {
			line += " and is all-in"
		}
		return []string{line}

	case game.StageEvent:
		if len(e.Revealed) == 0 {
			return []string{fmt.Sprintf("*** %s ***", strings.ToUpper(e.Stage.String()))}
		}
		return []string{fmt.Sprintf("*** %s *** %s  (pot $%d)", strings.ToUpper(e.Stage.String()), FormatCards(e.Board), e.Pot)}

	case game.ActionResultEvent:
		return []string{formatAction(e)}

	case game.ActionPromptEvent:
		if e.Seat != ef.Perspective {
			return nil
		}
		return []string{fmt.Sprintf("Your turn: %s on %s, $%d to call, pot $%d", FormatCards(e.Hole), boardOrDash(e.Board), e.ToCall, e.Pot)}

	case game.EffectEvent:
		return ef.formatEffect(e)

	case game.HandCompleteEvent:
		return formatSummary(e.Summary)

	case game.FaultEvent:
		return []string{fmt.Sprintf("!! %s: %v", e.Stage, e.Err)}
	}
	return nil
}

func formatAction(e game.ActionResultEvent) string {
	var line string
	switch e.Action {
	case game.Fold:
		line = fmt.Sprintf("%s: folds", e.Name)
	case game.Check:
		line = fmt.Sprintf("%s: checks", e.Name)
	case game.Call:
		line = fmt.Sprintf("%s: calls $%d (pot now: $%d)", e.Name, e.Paid, e.Pot)
	case game.Raise:
		line = fmt.Sprintf("%s: raises to $%d (pot now: $%d)", e.Name, e.TableBet, e.Pot)
	default:
		line = fmt.Sprintf("%s: %s $%d", e.Name, e.Action, e.Paid)
	}
	if e.AllIn && e.Action != game.Fold {
		line += " and is all-in"
	}
	return line
}

func (ef EventFormatter) formatEffect(e game.EffectEvent) []string {
	if e.Seat != ef.Perspective {
		return []string{fmt.Sprintf("Seat %d uses %s", e.Seat, e.Kind)}
	}
	switch {
	case e.Peek != nil:
		return []string{fmt.Sprintf("Peek: %s holds %s (energy %d)", e.Peek.Name, e.Peek.Card, e.Energy)}
	case e.Swap != nil:
		return []string{fmt.Sprintf("Swap: %s -> %s (energy %d)", e.Swap.Old, e.Swap.New, e.Energy)}
	}
	return nil
}

func formatSummary(s *game.HandSummary) []string {
	if s == nil || s.Winner < 0 {
		return []string{"Hand aborted"}
	}
	if s.ShowdownType == "fold" {
		return []string{fmt.Sprintf("%s wins $%d (everyone else folded)", s.WinnerName, s.Amount)}
	}
	lines := []string{fmt.Sprintf("*** SHOWDOWN *** %s", FormatCards(s.Board))}
	for _, h := range s.Hands {
		lines = append(lines, fmt.Sprintf("  seat %d: %s", h.Seat, h.Result))
	}
	lines = append(lines, fmt.Sprintf("%s wins $%d with %s", s.WinnerName, s.Amount, s.Result))
	return lines
}

// FormatCards renders cards as "[As Td]"
func FormatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func boardOrDash(board []deck.Card) string {
	if len(board) == 0 {
		return "-"
	}
	return FormatCards(board)
}

func seatName(seats []game.SeatInfo, seat int) string {
	for _, s := range seats {
		if s.Seat == seat {
			return s.Name
		}
	}
	return fmt.Sprintf("seat %d", seat)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
