package game

import (
	"time"

	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/ledger"
)

// EventType represents an engine event type
type EventType string

const (
	EventTypeShoeReset   EventType = "shoe_reset"
	EventTypeRoundStart  EventType = "round_start"
	EventTypeRoundCancel EventType = "round_cancel"
	EventTypeRoundEnd    EventType = "round_end"
	EventTypeCard        EventType = "card"
	EventTypeHandAction  EventType = "hand_action"
	EventTypeSetting     EventType = "setting"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything the engine publishes after a successful command.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// ShoeResetEvent is published when the shoe is rebuilt
type ShoeResetEvent struct {
	Decks     int
	timestamp time.Time
}

func (e ShoeResetEvent) EventType() EventType { return EventTypeShoeReset }
func (e ShoeResetEvent) Timestamp() time.Time { return e.timestamp }

// RoundStartEvent is published when a round starts
type RoundStartEvent struct {
	Wager     int
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// RoundCancelEvent is published when a round is discarded
type RoundCancelEvent struct {
	Returned  int
	timestamp time.Time
}

func (e RoundCancelEvent) EventType() EventType { return EventTypeRoundCancel }
func (e RoundCancelEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published with the settled record
type RoundEndEvent struct {
	Record    ledger.Record
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// CardEvent is published when a card enters or leaves a pile. Returned is
// true when the card went back to the shoe.
type CardEvent struct {
	Pile      Pile
	Hand      int
	Rank      deck.Rank
	Returned  bool
	timestamp time.Time
}

func (e CardEvent) EventType() EventType { return EventTypeCard }
func (e CardEvent) Timestamp() time.Time { return e.timestamp }

// HandActionEvent is published for stand, double, split and hand selection
type HandActionEvent struct {
	Hand      int
	Action    string
	Detail    string
	timestamp time.Time
}

func (e HandActionEvent) EventType() EventType { return EventTypeHandAction }
func (e HandActionEvent) Timestamp() time.Time { return e.timestamp }

// SettingEvent is published when a session setting changes
type SettingEvent struct {
	Name      string
	Value     string
	timestamp time.Time
}

func (e SettingEvent) EventType() EventType { return EventTypeSetting }
func (e SettingEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to engine events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event Event)
}

// SimpleEventBus delivers events synchronously, in subscription order
type SimpleEventBus struct {
	nextID      int
	subscribers map[int]EventSubscriber
	order       []int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{subscribers: make(map[int]EventSubscriber)}
}

// Subscribe adds a subscriber and returns a function that removes it
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)
	return func() {
		delete(bus.subscribers, id)
		for i, o := range bus.order {
			if o == id {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event Event) {
	for _, id := range bus.order {
		bus.subscribers[id].OnEvent(event)
	}
}
