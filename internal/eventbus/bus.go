// Package eventbus provides the in-process pub/sub bus for catalog events.
// Mutations publish after the in-memory state is updated; subscribers run in
// a single consumer goroutine, which keeps ordering deterministic without
// any locking in the subscribers themselves.
package eventbus

import (
	"context"
	"log"
	"sync"

	"github.com/acervohq/acervo/internal/event"
)

// Handler processes a domain event. Implementations must tolerate being
// called from the bus goroutine while the publisher has already moved on.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.DomainEvent) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.DomainEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.DomainEvent) error {
	return f(ctx, evt)
}

// Bus is a buffered in-process event bus. Publish never blocks: when the
// buffer is full the event is dropped and logged, which is acceptable
// because every consumer treats events as invalidation hints, not as the
// source of truth.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan event.DomainEvent
	done        chan struct{}
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan event.DomainEvent, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler. Call before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Publish sends an event to the bus without blocking.
func (b *Bus) Publish(_ context.Context, evt event.DomainEvent) {
	select {
	case b.events <- evt:
	default:
		log.Printf("eventbus: buffer full, dropping %s (%s)", evt.EventType, evt.ID)
	}
}

// Start launches the consumer goroutine. It runs until the context is
// cancelled, draining whatever is still buffered before exiting.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt := <-b.events:
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				for {
					select {
					case evt := <-b.events:
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the consumer goroutine has drained and exited.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt event.DomainEvent) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			log.Printf("eventbus: %s handler error for %s: %v", s.name, evt.EventType, err)
		}
	}
}
