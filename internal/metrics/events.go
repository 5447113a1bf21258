package metrics

import (
	"context"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

type countingPublisher struct {
	next pedidos.EventPublisher
	m    *ServerMetrics
}

// InstrumentPublisher counts failed publishes on the way through.
func (m *ServerMetrics) InstrumentPublisher(next pedidos.EventPublisher) pedidos.EventPublisher {
	return countingPublisher{next: next, m: m}
}

func (p countingPublisher) Publish(ctx context.Context, ev pedidos.Event) error {
	err := p.next.Publish(ctx, ev)
	if err != nil {
		p.m.IncPublishFailure()
	}
	return err
}
