// file: internal/events/events.go
package events

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ===============================
// EVENT INTERFACE
// ===============================

// Event represents a domain event
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() *int64
	GetMetadata() map[string]interface{}
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    *int64                 `json:"user_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// GetEventID returns the event ID
func (e *BaseEvent) GetEventID() string { return e.EventID }

// GetEventType returns the event type
func (e *BaseEvent) GetEventType() string { return e.EventType }

// GetTimestamp returns the event timestamp
func (e *BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// GetUserID returns the user ID associated with the event
func (e *BaseEvent) GetUserID() *int64 { return e.UserID }

// GetMetadata returns the event metadata
func (e *BaseEvent) GetMetadata() map[string]interface{} { return e.Metadata }

// NewBaseEvent builds the shared event envelope
func NewBaseEvent(eventType string, userID *int64, metadata map[string]interface{}) BaseEvent {
	id, _ := uuid.NewV4()
	return BaseEvent{
		EventID:   id.String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Metadata:  metadata,
	}
}

// ===============================
// EVENT BUS
// ===============================

// Handler processes a published event
type Handler func(ctx context.Context, event Event) error

// EventBus dispatches domain events to subscribers
type EventBus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType string, handler Handler)
	Close() error
}

// WildcardType subscribes a handler to every event type
const WildcardType = "*"

type inMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	closed   bool
}

// NewInMemoryBus creates a synchronous in-process event bus. Handlers run
// inline on the publisher's goroutine; a failing or panicking handler never
// propagates to the publisher.
func NewInMemoryBus(logger *zap.Logger) EventBus {
	return &inMemoryBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (b *inMemoryBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

func (b *inMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	handlers := make([]Handler, 0, len(b.handlers[event.GetEventType()])+len(b.handlers[WildcardType]))
	handlers = append(handlers, b.handlers[event.GetEventType()]...)
	handlers = append(handlers, b.handlers[WildcardType]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(ctx, event, h)
	}
}

func (b *inMemoryBus) dispatch(ctx context.Context, event Event, h Handler) {
	defer func() {
		if p := recover(); p != nil {
			b.logger.Error("Event handler panicked",
				zap.String("event_type", event.GetEventType()),
				zap.String("event_id", event.GetEventID()),
				zap.Any("panic", p),
			)
		}
	}()
	if err := h(ctx, event); err != nil {
		b.logger.Warn("Event handler failed",
			zap.String("event_type", event.GetEventType()),
			zap.String("event_id", event.GetEventID()),
			zap.Error(err),
		)
	}
}

func (b *inMemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[string][]Handler)
	return nil
}
