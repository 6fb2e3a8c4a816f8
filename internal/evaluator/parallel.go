package evaluator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lox/skillholdem/internal/deck"
)

// Contender is one seat's cards submitted for showdown evaluation
type Contender struct {
	Seat int
	Hole []deck.Card
}

// Scored pairs a contender's seat with its best hand
type Scored struct {
	Seat   int
	Result HandResult
}

// EvaluateAll finds the best hand of every contender against a shared board.
// Evaluations run concurrently but results are returned in input order, so
// callers that scan for a winner see seats in the same order as they would
// evaluating sequentially.
func EvaluateAll(ctx context.Context, contenders []Contender, community []deck.Card) ([]Scored, error) {
	results := make([]Scored, len(contenders))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range contenders {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := BestHand(c.Hole, community)
			if err != nil {
				return fmt.Errorf("seat %d: %w", c.Seat, err)
			}
			results[i] = Scored{Seat: c.Seat, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Winner returns the index of the first strictly strongest result. Ties keep
// the earlier entry. It returns -1 for an empty slice.
func Winner(scored []Scored) int {
	best := -1
	for i, s := range scored {
		if best == -1 || s.Result.Beats(scored[best].Result) {
			best = i
		}
	}
	return best
}
