package events

import (
	"context"
	"sync"

	"rosethorn/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeMemberCreated  EventType = "member_created"
	EventTypeCheckIn        EventType = "check_in"
	EventTypeLevelUp        EventType = "level_up"
	EventTypeWarningIssued  EventType = "warning_issued"
	EventTypePurchaseMade   EventType = "purchase_made"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	GuildID         int64
	UserID          int64
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// MemberCreatedEvent represents a new member record creation
type MemberCreatedEvent struct {
	GuildID  int64
	UserID   int64
	Username string
}

func (e MemberCreatedEvent) Type() EventType {
	return EventTypeMemberCreated
}

// CheckInEvent represents a completed daily check-in
type CheckInEvent struct {
	GuildID int64
	UserID  int64
	Streak  int
	Reward  int64
}

func (e CheckInEvent) Type() EventType {
	return EventTypeCheckIn
}

// LevelUpEvent represents a member reaching a new level
type LevelUpEvent struct {
	GuildID  int64
	UserID   int64
	OldLevel int
	NewLevel int
	Bonus    int64
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// WarningIssuedEvent represents a warning and its escalation tier
type WarningIssuedEvent struct {
	GuildID      int64
	UserID       int64
	ModeratorID  int64
	WarningCount int
	Tier         models.EscalationTier
}

func (e WarningIssuedEvent) Type() EventType {
	return EventTypeWarningIssued
}

// PurchaseMadeEvent represents a completed shop purchase
type PurchaseMadeEvent struct {
	GuildID  int64
	UserID   int64
	ItemID   int64
	Quantity int
	Cost     int64
}

func (e PurchaseMadeEvent) Type() EventType {
	return EventTypePurchaseMade
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

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
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

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted on a
// background context so they outlive the transaction's context.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
