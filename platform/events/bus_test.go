package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"admissions_crm_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncDeliversToAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.NewDiscard())
	var calls int
	for i := 0; i < 3; i++ {
		bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
			calls++
			return nil
		}))
	}

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 handler calls, got %d", calls)
	}
}

func TestPublishSyncReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(logger.NewDiscard())
	first := errors.New("first")
	bus.Subscribe("e", HandlerFunc(func(context.Context, Event) error { return first }))
	bus.Subscribe("e", HandlerFunc(func(context.Context, Event) error { return errors.New("second") }))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "e"})
	if !errors.Is(err, first) {
		t.Errorf("expected first error, got %v", err)
	}
}

func TestPublishSyncRecoversPanic(t *testing.T) {
	bus := NewInMemoryBus(logger.NewDiscard())
	bus.Subscribe("e", HandlerFunc(func(context.Context, Event) error { panic("boom") }))
	var reached bool
	bus.Subscribe("e", HandlerFunc(func(context.Context, Event) error {
		reached = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "e"})
	if err == nil {
		t.Error("expected panic surfaced as error")
	}
	if !reached {
		t.Error("sibling handler must still run after a panic")
	}
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(logger.NewDiscard())
	done := make(chan struct{})
	bus.Subscribe("e", HandlerFunc(func(ctx context.Context, _ Event) error {
		defer close(done)
		if ctx.Err() != nil {
			t.Error("handler context must be detached from the publisher's")
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{NewBaseEvent(), "e"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestUnsubscribedEventIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.NewDiscard())
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody.cares"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConcurrentSubscribePublish(t *testing.T) {
	bus := NewInMemoryBus(logger.NewDiscard())
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Subscribe("e", HandlerFunc(func(context.Context, Event) error { return nil }))
		}()
		go func() {
			defer wg.Done()
			_ = bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "e"})
		}()
	}
	wg.Wait()
}
