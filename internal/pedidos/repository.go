package pedidos

import (
	"context"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/paging"
)

// Repository persists order aggregates. Implementations return *Error values:
// InvalidPedidoPage, InvalidPedidoId, MissingPedidoId, PedidoNotFound and
// PedidoSaveError for any storage failure.
type Repository interface {
	// GetByPage returns page (>= 0) of at most size (> 0) orders in
	// storage order.
	GetByPage(ctx context.Context, page, size int) (*paging.Result[Order], error)
	GetByID(ctx context.Context, id string) (Order, error)
	// Save creates or replaces the order with o.ID.
	Save(ctx context.Context, o Order) (Order, error)
	// Delete removes the order. Deleting an absent id succeeds.
	Delete(ctx context.Context, id string) error
}

// CheckPage validates pagination parameters.
func CheckPage(page, size int) error {
	if _, ok := paging.Offset(page, size); !ok {
		return InvalidPage(page, size)
	}
	return nil
}
