package pedidos

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated EventType = "pedido.created"
	EventUpdated EventType = "pedido.updated"
	EventDeleted EventType = "pedido.deleted"
)

// Event announces a persisted change to an order.
type Event struct {
	Type       EventType `json:"type"`
	PedidoID   string    `json:"pedido_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers order events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
