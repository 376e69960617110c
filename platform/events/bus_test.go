package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"roadsaver_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishSyncJoinsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls int32

	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("first failed")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		panic("boom")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected all 3 handlers to run, got %d", got)
	}
}

func TestPublishRunsHandlersAfterCallerContextIsCancelled(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	done := make(chan error, 1)

	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, _ Event) error {
		done <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected handler context to be live, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler did not run")
	}
}
