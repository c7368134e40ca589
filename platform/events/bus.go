// Package events provides event bus infrastructure.
package events

import (
	"context"
	"fmt"
	"sync"

	"admissions_crm_backend/platform/logger"
)

// InMemoryBus is a process-local Bus implementation. Async handlers run in
// their own goroutines; a panicking or failing handler never affects the
// publisher or sibling handlers.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish sends the event to all registered handlers asynchronously.
// Publish detaches from the caller's context cancellation so in-flight
// handlers are not cut off when the HTTP request completes.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	detached := context.WithoutCancel(ctx)
	for _, handler := range b.snapshot(event.EventName()) {
		h := handler
		go func() {
			defer b.recoverPanic(event.EventName())
			if err := h.Handle(detached, event); err != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(),
					"error", err.Error(),
				)
			}
		}()
	}
}

// PublishSync sends the event and waits for all handlers, returning the
// first handler error encountered.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var firstErr error
	for _, handler := range b.snapshot(event.EventName()) {
		if err := b.handleSafe(ctx, handler, event); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			b.log.Error("event handler failed",
				"event", event.EventName(),
				"error", err.Error(),
			)
		}
	}
	return firstErr
}

func (b *InMemoryBus) handleSafe(ctx context.Context, handler Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

func (b *InMemoryBus) snapshot(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	out := make([]Handler, len(registered))
	copy(out, registered)
	return out
}

func (b *InMemoryBus) recoverPanic(eventName string) {
	if r := recover(); r != nil {
		b.log.Error("event handler panic", "event", eventName, "panic", fmt.Sprint(r))
	}
}
