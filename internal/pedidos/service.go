package pedidos

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/paging"
)

// Service composes the builder and the repository into the order use cases.
type Service struct {
	builder *Builder
	repo    Repository
	events  EventPublisher
	log     *zap.Logger
	nowFunc func() time.Time
}

// NewService wires a Service. A nil publisher disables events.
func NewService(builder *Builder, repo Repository, events EventPublisher, log *zap.Logger) *Service {
	if events == nil {
		events = noopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		builder: builder,
		repo:    repo,
		events:  events,
		log:     log,
		nowFunc: time.Now,
	}
}

func (s *Service) List(ctx context.Context, page, size int) (*paging.Result[Order], error) {
	if err := CheckPage(page, size); err != nil {
		return nil, err
	}
	return s.repo.GetByPage(ctx, page, size)
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	id, err := ParseID(id)
	if err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create builds a new order and persists it. Nothing is stored when any
// upstream lookup fails.
func (s *Service) Create(ctx context.Context, req BuildRequest) (Order, error) {
	o, err := s.builder.Build(ctx, req, "")
	if err != nil {
		return Order{}, err
	}
	saved, err := s.repo.Save(ctx, o)
	if err != nil {
		return Order{}, err
	}
	s.publish(ctx, EventCreated, saved.ID)
	return saved, nil
}

// Update rebuilds the order under id and replaces the stored one. The stored
// creation time is kept, and so is the status unless req sets one. An absent
// id is created.
func (s *Service) Update(ctx context.Context, id string, req BuildRequest) (Order, error) {
	id, err := ParseID(id)
	if err != nil {
		return Order{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	found := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Order{}, err
	}
	if found && req.Status == "" {
		req.Status = existing.Status
	}

	o, err := s.builder.Build(ctx, req, id)
	if err != nil {
		return Order{}, err
	}
	if found {
		o.CreatedAt = existing.CreatedAt
	}

	saved, err := s.repo.Save(ctx, o)
	if err != nil {
		return Order{}, err
	}
	if found {
		s.publish(ctx, EventUpdated, saved.ID)
	} else {
		s.publish(ctx, EventCreated, saved.ID)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, EventDeleted, id)
	return nil
}

// publish never fails the caller; the change is already persisted.
func (s *Service) publish(ctx context.Context, t EventType, id string) {
	ev := Event{Type: t, PedidoID: id, OccurredAt: s.nowFunc().UTC()}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish pedido event failed",
			zap.String("event_type", string(t)),
			zap.String("pedido_id", id),
			zap.Error(err))
	}
}
