package game

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// HumanDecider suspends the hand until the presentation layer submits an
// action for its seat. At most one prompt is outstanding at a time. Effects
// requested during the prompt are queued to the engine goroutine, so the
// hand state is never touched from the caller's goroutine.
type HumanDecider struct {
	seat    int
	bus     EventBus
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger

	inbox chan command

	mu      sync.Mutex
	pending *SeatView
}

type command struct {
	action Action
	effect *effectRequest
}

type effectRequest struct {
	kind  EffectKind
	reply chan effectReply
}

type effectReply struct {
	peek PeekResult
	swap SwapResult
	err  error
}

// HumanOption configures a HumanDecider
type HumanOption func(*HumanDecider)

// WithPromptTimeout checks or folds the seat if no action arrives within d.
// Zero waits forever.
func WithPromptTimeout(d time.Duration) HumanOption {
	return func(h *HumanDecider) { h.timeout = d }
}

// WithHumanClock sets the clock used for prompt timestamps and timeouts
func WithHumanClock(clock quartz.Clock) HumanOption {
	return func(h *HumanDecider) { h.clock = clock }
}

// WithHumanLogger sets the logger
func WithHumanLogger(logger *log.Logger) HumanOption {
	return func(h *HumanDecider) { h.logger = logger }
}

// NewHumanDecider creates a decider for seat that announces prompts on bus
func NewHumanDecider(seat int, bus EventBus, opts ...HumanOption) *HumanDecider {
	h := &HumanDecider{
		seat:   seat,
		bus:    bus,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
		inbox:  make(chan command, 8),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithPrefix("human").With("seat", seat)
	return h
}

// Seat returns the seat this decider acts for
func (h *HumanDecider) Seat() int {
	return h.seat
}

// Pending returns the outstanding prompt, if any
func (h *HumanDecider) Pending() (SeatView, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return SeatView{}, false
	}
	return *h.pending, true
}

// Decide implements Decider. It blocks until SubmitAction is called, the
// prompt times out or ctx is cancelled.
func (h *HumanDecider) Decide(ctx context.Context, turn Turn) (Action, error) {
	view := turn.View
	h.mu.Lock()
	h.pending = &view
	h.mu.Unlock()
	defer h.closePrompt()

	// Armed before the prompt is published.
	var expired chan struct{}
	if h.timeout > 0 {
		expired = make(chan struct{})
		timer := h.clock.AfterFunc(h.timeout, func() { close(expired) })
		defer timer.Stop()
	}

	h.bus.Publish(ActionPromptEvent{
		stamp:  stamp{at: h.clock.Now()},
		Seat:   view.Seat,
		Name:   view.Name,
		ToCall: view.ToCall,
		Pot:    view.Pot,
		Hole:   cloneCards(view.Hole),
		Board:  cloneCards(view.Community),
		Energy: view.Energy,
	})
	h.logger.Debug("Awaiting action", "toCall", view.ToCall, "pot", view.Pot)

	for {
		select {
		case <-ctx.Done():
			return Fold, ctx.Err()

		case <-expired:
			if view.ToCall == 0 {
				h.logger.Warn("Prompt timed out, checking", "timeout", h.timeout)
				return Check, nil
			}
			h.logger.Warn("Prompt timed out, folding", "timeout", h.timeout)
			return Fold, nil

		case cmd := <-h.inbox:
			if cmd.effect == nil {
				h.logger.Debug("Received action", "action", cmd.action)
				return cmd.action, nil
			}
			cmd.effect.reply <- runEffect(turn.Effects, cmd.effect.kind)
		}
	}
}

func runEffect(effects Effects, kind EffectKind) effectReply {
	if effects == nil {
		return effectReply{err: illegal("effects unavailable")}
	}
	var r effectReply
	switch kind {
	case PeekEffect:
		r.peek, r.err = effects.Peek()
	case SwapEffect:
		r.swap, r.err = effects.Swap()
	default:
		r.err = illegal("unknown effect %d", kind)
	}
	return r
}

// closePrompt clears the prompt and rejects effects that were queued too late
func (h *HumanDecider) closePrompt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = nil
	for {
		select {
		case cmd := <-h.inbox:
			if cmd.effect != nil {
				cmd.effect.reply <- effectReply{err: illegal("prompt closed")}
			}
		default:
			return
		}
	}
}

// SubmitAction resumes the hand with action. It fails with ErrIllegalAction
// unless a prompt for seat is outstanding; state is unchanged on failure.
func (h *HumanDecider) SubmitAction(seat int, action Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return illegal("no action prompt outstanding")
	}
	if seat != h.seat {
		return illegal("seat %d is not being prompted (seat %d is)", seat, h.seat)
	}
	switch action {
	case Fold, Call, Raise:
	case Check:
		if h.pending.ToCall > 0 {
			return illegal("cannot check, %d to call", h.pending.ToCall)
		}
	default:
		return illegal("unknown action %d", int(action))
	}

	select {
	case h.inbox <- command{action: action}:
		h.pending = nil
		return nil
	default:
		return illegal("input queue full")
	}
}

// Peek spends energy to look at another seat's card. It is only available
// while this seat is being prompted.
func (h *HumanDecider) Peek(ctx context.Context) (PeekResult, error) {
	r, err := h.request(ctx, PeekEffect)
	if err != nil {
		return PeekResult{}, err
	}
	return r.peek, r.err
}

// Swap spends energy to replace one of this seat's hole cards. It is only
// available while this seat is being prompted.
func (h *HumanDecider) Swap(ctx context.Context) (SwapResult, error) {
	r, err := h.request(ctx, SwapEffect)
	if err != nil {
		return SwapResult{}, err
	}
	return r.swap, r.err
}

func (h *HumanDecider) request(ctx context.Context, kind EffectKind) (effectReply, error) {
	req := &effectRequest{kind: kind, reply: make(chan effectReply, 1)}

	h.mu.Lock()
	if h.pending == nil {
		h.mu.Unlock()
		return effectReply{}, illegal("%s requires an outstanding prompt", kind)
	}
	select {
	case h.inbox <- command{effect: req}:
	default:
		h.mu.Unlock()
		return effectReply{}, illegal("input queue full")
	}
	h.mu.Unlock()

	select {
	case r := <-req.reply:
		return r, nil
	case <-ctx.Done():
		return effectReply{}, ctx.Err()
	}
}
