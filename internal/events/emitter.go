package events

import (
	"context"
	"sync"

	"github.com/aquamate/hydration-helper/internal/logger"
)

// InMemoryEmitter dispatches events synchronously to registered handlers.
// A handler error does not stop delivery to the remaining handlers; the first
// error is returned.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
}

func NewInMemoryEmitter() *InMemoryEmitter {
	return &InMemoryEmitter{}
}

// RegisterHandler adds a handler to receive future events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// EmitEvent publishes the event to all registered handlers.
func (e *InMemoryEmitter) EmitEvent(ctx context.Context, event *IntakeEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	var firstErr error
	for _, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			logger.Error("Event handler failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"user_id", event.UserID,
				"error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
