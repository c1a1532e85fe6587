package event

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	var received Event
	var wg sync.WaitGroup
	wg.Add(1)

	unsub := bus.Subscribe(SessionOpened, func(e Event) {
		received = e
		wg.Done()
	})
	defer unsub()

	event := Event{Type: SessionOpened, Data: "test-session"}
	bus.Publish(event)

	// Wait for async delivery
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if received.Type != SessionOpened {
			t.Errorf("Expected SessionOpened, got %v", received.Type)
		}
		if received.Data != "test-session" {
			t.Errorf("Expected 'test-session', got %v", received.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var count int32
	var wg sync.WaitGroup
	wg.Add(3)

	unsub := bus.SubscribeAll(func(e Event) {
		atomic.AddInt32(&count, 1)
		wg.Done()
	})
	defer unsub()

	// Publish different event types
	bus.Publish(Event{Type: SessionOpened, Data: nil})
	bus.Publish(Event{Type: ParamUpdated, Data: nil})
	bus.Publish(Event{Type: ParamDeleted, Data: nil})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if got := atomic.LoadInt32(&count); got != 3 {
			t.Errorf("Expected 3 events, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for events")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	var count int32
	unsub := bus.Subscribe(ParamUpdated, func(e Event) {
		atomic.AddInt32(&count, 1)
	})

	bus.PublishSync(Event{Type: ParamUpdated})
	unsub()
	bus.PublishSync(Event{Type: ParamUpdated})

	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("Expected 1 delivery after unsubscribe, got %d", got)
	}
}

func TestBus_PublishSync(t *testing.T) {
	bus := NewBus()

	var order []EventType
	bus.Subscribe(ParamAdded, func(e Event) {
		order = append(order, e.Type)
	})
	bus.Subscribe(ParamDeleted, func(e Event) {
		order = append(order, e.Type)
	})

	// Synchronous delivery happens before Publish returns, in call order.
	bus.PublishSync(Event{Type: ParamAdded})
	bus.PublishSync(Event{Type: ParamDeleted})

	if len(order) != 2 || order[0] != ParamAdded || order[1] != ParamDeleted {
		t.Errorf("Unexpected delivery order: %v", order)
	}
}

func TestBus_CloseStopsDelivery(t *testing.T) {
	bus := NewBus()

	var count int32
	bus.Subscribe(SessionCommitted, func(e Event) {
		atomic.AddInt32(&count, 1)
	})

	if err := bus.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	bus.PublishSync(Event{Type: SessionCommitted})
	if got := atomic.LoadInt32(&count); got != 0 {
		t.Errorf("Expected no delivery after close, got %d", got)
	}

	// Subscribing after close returns a no-op unsubscribe.
	unsub := bus.Subscribe(SessionCommitted, func(e Event) {})
	unsub()
}
