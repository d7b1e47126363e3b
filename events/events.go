package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeListingObserved   EventType = "listing_observed"
	EventTypeAlertTriggered    EventType = "alert_triggered"
	EventTypeReminderDelivered EventType = "reminder_delivered"
	EventTypeCacheReloaded     EventType = "cache_reloaded"
	EventTypeFactionBallsReset EventType = "faction_balls_reset"
	EventTypeUserDataPurged    EventType = "user_data_purged"
)

// EventTypes lists every event type the bus carries
var EventTypes = []EventType{
	EventTypeListingObserved,
	EventTypeAlertTriggered,
	EventTypeReminderDelivered,
	EventTypeCacheReloaded,
	EventTypeFactionBallsReset,
	EventTypeUserDataPurged,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ListingObservedEvent is emitted for every market listing read from PokéMeow
type ListingObservedEvent struct {
	ListingID  string `json:"listing_id"`
	PokemonKey string `json:"pokemon_key"`
	DexNumber  int    `json:"dex_number"`
	Price      int64  `json:"price"`
	TrueLowest int64  `json:"true_lowest"`
}

func (e ListingObservedEvent) Type() EventType {
	return EventTypeListingObserved
}

// AlertTriggeredEvent is emitted when a listing matched a user's alert
type AlertTriggeredEvent struct {
	UserID     int64  `json:"user_id"`
	PokemonKey string `json:"pokemon_key"`
	ChannelID  int64  `json:"channel_id"`
	Price      int64  `json:"price"`
	MaxPrice   int64  `json:"max_price"`
}

func (e AlertTriggeredEvent) Type() EventType {
	return EventTypeAlertTriggered
}

// ReminderDeliveredEvent is emitted after a reminder or schedule fired
type ReminderDeliveredEvent struct {
	UserID int64  `json:"user_id"`
	Kind   string `json:"kind"` // reminder, catchbot, quest, auction...
	// ReminderID is the per-user reminder ID, zero for other kinds
	ReminderID int       `json:"reminder_id,omitempty"`
	NextOn     *time.Time `json:"next_on,omitempty"`
}

func (e ReminderDeliveredEvent) Type() EventType {
	return EventTypeReminderDelivered
}

// CacheReloadedEvent is emitted after every full reload cycle
type CacheReloadedEvent struct {
	CycleID  string         `json:"cycle_id"`
	Rows     map[string]int `json:"rows"`
	Drift    map[string]int `json:"drift"`
	Failed   []string       `json:"failed,omitempty"`
	Duration time.Duration  `json:"duration"`
}

func (e CacheReloadedEvent) Type() EventType {
	return EventTypeCacheReloaded
}

// FactionBallsResetEvent is emitted after the daily faction ball reset
type FactionBallsResetEvent struct {
	ResetAt time.Time `json:"reset_at"`
}

func (e FactionBallsResetEvent) Type() EventType {
	return EventTypeFactionBallsReset
}

// UserDataPurgedEvent is emitted once a user's rows are gone from the store
type UserDataPurgedEvent struct {
	UserID  int64            `json:"user_id"`
	Removed map[string]int64 `json:"removed"`
}

func (e UserDataPurgedEvent) Type() EventType {
	return EventTypeUserDataPurged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": handlerIndex,
			}).Debug("Calling event handler")
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	// Use background context for event emission to avoid issues with transaction context expiration
	// Events should be processed independently of the transaction lifecycle
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event to main event bus")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	log.Debug("All pending events flushed, transactional bus cleared")
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
