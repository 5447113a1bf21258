package store

import (
	"context"
	"slices"
	"sync"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/paging"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

// MemoryStore keeps orders in insertion order. Values are deep-copied on the
// way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	ids    []string
	orders map[string]pedidos.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: map[string]pedidos.Order{}}
}

func (s *MemoryStore) GetByPage(ctx context.Context, page, size int) (*paging.Result[pedidos.Order], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lo, hi, ok := paging.Bounds(page, size, len(s.ids))
	if !ok {
		return nil, pedidos.InvalidPage(page, size)
	}
	out := make([]pedidos.Order, 0, hi-lo)
	for _, id := range s.ids[lo:hi] {
		out = append(out, s.orders[id].Clone())
	}
	return paging.FromSlice(page, size, out), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (pedidos.Order, error) {
	id, err := pedidos.ParseID(id)
	if err != nil {
		return pedidos.Order{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return pedidos.Order{}, pedidos.NotFound(id)
	}
	return o.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, o pedidos.Order) (pedidos.Order, error) {
	id, err := pedidos.ParseID(o.ID)
	if err != nil {
		return pedidos.Order{}, err
	}
	o.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.orders[id] = o.Clone()
	return o, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	id, err := pedidos.ParseID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[id]; !exists {
		return nil
	}
	delete(s.orders, id)
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
	return nil
}

// Len returns the number of stored orders.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
