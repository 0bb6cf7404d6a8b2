package event

import "context"

// Publisher sends domain events to downstream consumers. The catalog holds
// this interface rather than the bus itself so tests can capture events
// without spinning up a consumer goroutine.
type Publisher interface {
	Publish(ctx context.Context, evt DomainEvent)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, DomainEvent) {}
