package game

import (
	"sync"
	"time"

	"github.com/lox/skillholdem/internal/deck"
	"github.com/lox/skillholdem/internal/evaluator"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for hand lifecycle events consumed by the presentation layer
const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeStage        EventType = "stage"
	EventTypeBlind        EventType = "blind"
	EventTypeActionPrompt EventType = "action_prompt"
	EventTypeActionResult EventType = "action_result"
	EventTypeEffect       EventType = "effect"
	EventTypeHandComplete EventType = "hand_complete"
	EventTypeFault        EventType = "fault"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

type stamp struct {
	at time.Time
}

func (s stamp) Timestamp() time.Time { return s.at }

// HandStartEvent is published once the deck is shuffled and seats are reset
type HandStartEvent struct {
	stamp
	HandID string
	Number int
	Dealer int
	Seats  []SeatInfo
}

// SeatInfo is a public view of a seat at hand start
type SeatInfo struct {
	Seat       int
	Name       string
	Chips      int
	Energy     int
	IsAI       bool
	SittingOut bool
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }

// StageEvent is published on entering each stage. Revealed holds the
// community cards dealt on entry, Board the full board so far.
type StageEvent struct {
	stamp
	Stage    Stage
	Revealed []deck.Card
	Board    []deck.Card
	Pot      int
}

func (e StageEvent) EventType() EventType { return EventTypeStage }

// BlindEvent is published for each forced bet
type BlindEvent struct {
	stamp
	Seat   int
	Name   string
	Amount int
	Big    bool
	AllIn  bool
	Pot    int
}

func (e BlindEvent) EventType() EventType { return EventTypeBlind }

// ActionPromptEvent is published when the hand is waiting on a human seat
type ActionPromptEvent struct {
	stamp
	Seat   int
	Name   string
	ToCall int
	Pot    int
	Hole   []deck.Card
	Board  []deck.Card
	Energy int
}

func (e ActionPromptEvent) EventType() EventType { return EventTypeActionPrompt }

// ActionResultEvent is published after a seat's action has been applied
type ActionResultEvent struct {
	stamp
	Seat      int
	Name      string
	Stage     Stage
	Action    Action
	Paid      int
	PlayerBet int
	TableBet  int
	Pot       int
	AllIn     bool
}

func (e ActionResultEvent) EventType() EventType { return EventTypeActionResult }

// EffectEvent is published after a peek or swap has been paid for
type EffectEvent struct {
	stamp
	Seat   int
	Kind   EffectKind
	Cost   int
	Energy int // remaining
	Peek   *PeekResult
	Swap   *SwapResult
}

func (e EffectEvent) EventType() EventType { return EventTypeEffect }

// HandCompleteEvent is published when the pot has been awarded
type HandCompleteEvent struct {
	stamp
	Summary *HandSummary
}

func (e HandCompleteEvent) EventType() EventType { return EventTypeHandComplete }

// FaultEvent reports an aborted hand or an internal consistency fault
type FaultEvent struct {
	stamp
	Stage Stage
	Err   error
}

func (e FaultEvent) EventType() EventType { return EventTypeFault }

// HandSummary describes how a hand ended
type HandSummary struct {
	HandID       string
	Number       int
	Winner       int // seat, -1 if the hand was aborted
	WinnerName   string
	Amount       int
	Result       evaluator.HandResult
	ShowdownType string // "fold" or "showdown"
	Board        []deck.Card
	Hands        []evaluator.Scored
	Faults       []error
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
func SubscriberFunc(fn func(GameEvent)) EventSubscriber {
	return &funcSubscriber{fn: fn}
}

type funcSubscriber struct {
	fn func(GameEvent)
}

func (f *funcSubscriber) OnEvent(event GameEvent) { f.fn(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is an in-memory bus that delivers synchronously on the
// publishing goroutine, in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
