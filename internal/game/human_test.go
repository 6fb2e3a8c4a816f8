package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/skillholdem/internal/deck"
)

// promptWatcher forwards action prompts to a channel
func promptWatcher(bus EventBus) <-chan ActionPromptEvent {
	prompts := make(chan ActionPromptEvent, 8)
	bus.Subscribe(SubscriberFunc(func(e GameEvent) {
		if p, ok := e.(ActionPromptEvent); ok {
			prompts <- p
		}
	}))
	return prompts
}

func waitPrompt(t *testing.T, prompts <-chan ActionPromptEvent) ActionPromptEvent {
	t.Helper()
	select {
	case p := <-prompts:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for action prompt")
		return ActionPromptEvent{}
	}
}

func TestSubmitActionWithoutPrompt(t *testing.T) {
	t.Parallel()
	h := NewHumanDecider(0, NewEventBus())

	err := h.SubmitAction(0, Call)
	assert.ErrorIs(t, err, ErrIllegalAction)

	_, err = h.Peek(context.Background())
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, ok := h.Pending()
	assert.False(t, ok)
}

func TestHumanDecideWaitsForSubmit(t *testing.T) {
	t.Parallel()
	bus := NewEventBus()
	prompts := promptWatcher(bus)
	h := NewHumanDecider(1, bus, WithHumanLogger(testLogger()))

	type result struct {
		action Action
		err    error
	}
	done := make(chan result, 1)
	go func() {
		a, err := h.Decide(context.Background(), Turn{View: SeatView{Seat: 1, Name: "Player", ToCall: 10, Pot: 15}})
		done <- result{a, err}
	}()

	prompt := waitPrompt(t, prompts)
	assert.Equal(t, 1, prompt.Seat)
	assert.Equal(t, 10, prompt.ToCall)
	assert.Equal(t, 15, prompt.Pot)

	view, ok := h.Pending()
	require.True(t, ok)
	assert.Equal(t, 10, view.ToCall)

	assert.ErrorIs(t, h.SubmitAction(0, Call), ErrIllegalAction, "wrong seat")
	assert.ErrorIs(t, h.SubmitAction(1, Check), ErrIllegalAction, "check while owing")
	assert.ErrorIs(t, h.SubmitAction(1, Action(99)), ErrIllegalAction)
	require.NoError(t, h.SubmitAction(1, Raise))
	assert.ErrorIs(t, h.SubmitAction(1, Call), ErrIllegalAction, "only one action per prompt")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, Raise, res.action)
	_, ok = h.Pending()
	assert.False(t, ok)
}

func TestHumanPromptTimesOut(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	bus := NewEventBus()
	prompts := promptWatcher(bus)
	h := NewHumanDecider(0, bus, WithHumanClock(mClock), WithPromptTimeout(30*time.Second))

	done := make(chan Action, 1)
	go func() {
		a, _ := h.Decide(ctx, Turn{View: SeatView{Seat: 0, ToCall: 10}})
		done <- a
	}()

	waitPrompt(t, prompts)
	mClock.Advance(30 * time.Second).MustWait(ctx)

	select {
	case a := <-done:
		assert.Equal(t, Fold, a)
	case <-ctx.Done():
		t.Fatal("decider did not fold on timeout")
	}
}

func TestHumanDecideCancelled(t *testing.T) {
	t.Parallel()
	h := NewHumanDecider(0, NewEventBus())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, err := h.Decide(ctx, Turn{View: SeatView{Seat: 0}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Fold, a)
}

// humanTable seats a human at seat 0, who acts first preflop
func humanTable(t *testing.T, rules Rules, opts ...SessionOption) (*Session, *HumanDecider, <-chan ActionPromptEvent) {
	t.Helper()
	bus := NewEventBus()
	prompts := promptWatcher(bus)
	h := NewHumanDecider(0, bus)
	s := newTestSession(t, rules, []Decider{h, passive(), passive()}, append(opts, WithEventBus(bus))...)
	return s, h, prompts
}

func playAsync(s *Session) <-chan error {
	done := make(chan error, 1)
	go func() {
		_, err := s.PlayHand(context.Background())
		done <- err
	}()
	return done
}

func TestPeekDuringPrompt(t *testing.T) {
	t.Parallel()
	s, h, prompts := humanTable(t, DefaultRules())
	done := playAsync(s)

	prompt := waitPrompt(t, prompts)
	assert.Equal(t, 6, prompt.Energy)

	res, err := h.Peek(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, 0, res.Seat)
	target := s.Players()[res.Seat]
	assert.Equal(t, target.Hand[res.Index], res.Card)
	assert.Equal(t, 3, s.Players()[0].Energy)

	// 3 energy left, a swap costs 4.
	_, err = h.Swap(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientEnergy)
	assert.Equal(t, 3, s.Players()[0].Energy)

	_, err = h.Peek(context.Background())
	require.NoError(t, err)
	_, err = h.Peek(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientEnergy)

	require.NoError(t, h.SubmitAction(0, Fold))
	require.NoError(t, <-done)

	_, err = h.Peek(context.Background())
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestSwapReplacesHoleCard(t *testing.T) {
	t.Parallel()
	rules := DefaultRules()
	rules.Energy.Initial = 10
	// Six hole cards, one spare, then the board.
	cards := "As Ks Qs Ts 9s 8s 2d 7h 6h 5h 4h 3h"
	s, h, prompts := humanTable(t, rules, stacked(cards))
	done := playAsync(s)

	waitPrompt(t, prompts)
	before := append([]deck.Card(nil), s.Players()[0].Hand...)

	res, err := h.Swap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, deck.MustParseCards("2d")[0], res.New)
	assert.Equal(t, before[res.Index], res.Old)
	assert.Equal(t, res.New, s.Players()[0].Hand[res.Index])
	assert.Equal(t, 6, s.Players()[0].Energy)

	require.NoError(t, h.SubmitAction(0, Fold))
	require.NoError(t, <-done)
}

func TestSwapKeepsBoardReserve(t *testing.T) {
	t.Parallel()
	rules := DefaultRules()
	rules.Energy.Initial = 10
	s, h, prompts := humanTable(t, rules, stacked("As Ks Qs Ts 9s 8s 7h 6h 5h 4h 3h"))
	done := playAsync(s)

	waitPrompt(t, prompts)
	_, err := h.Swap(context.Background())
	assert.ErrorIs(t, err, ErrDeckReserve)
	assert.Equal(t, 10, s.Players()[0].Energy)

	require.NoError(t, h.SubmitAction(0, Fold))
	require.NoError(t, <-done)
}

func TestHumanTimeoutChecksWhenNothingOwed(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	bus := NewEventBus()
	prompts := promptWatcher(bus)
	h := NewHumanDecider(0, bus, WithHumanClock(mClock), WithPromptTimeout(10*time.Second))

	done := make(chan Action, 1)
	go func() {
		a, _ := h.Decide(ctx, Turn{View: SeatView{Seat: 0}})
		done <- a
	}()

	waitPrompt(t, prompts)
	mClock.Advance(10 * time.Second).MustWait(ctx)

	select {
	case a := <-done:
		assert.Equal(t, Check, a)
	case <-ctx.Done():
		t.Fatal("decider did not check on timeout")
	}
}
