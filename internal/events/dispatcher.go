package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// asyncDispatcher invokes each handler on its own goroutine so best-effort
// side effects never delay the publisher's return.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewAsyncDispatcher creates a dispatcher instance.
func NewAsyncDispatcher() Dispatcher {
	return &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish fans the event out to subscribed handlers. The handler context is
// detached from the request so an early HTTP response cannot cancel fanout
// mid-flight. Handler errors are swallowed: each handler is responsible for
// its own logging.
func (d *asyncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		go func(h EventHandler) {
			_ = h(detached, event)
		}(handler)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
