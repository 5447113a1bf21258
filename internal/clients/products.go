package clients

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

// ProductsClient talks to the products service.
type ProductsClient struct {
	c *jsonClient
}

func NewProductsClient(cfg Config, rec Recorder, log *zap.Logger) *ProductsClient {
	return &ProductsClient{c: newJSONClient("products", cfg, rec, log)}
}

type productResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Categoria   string    `json:"categoria"`
	Stock       int       `json:"stock"`
	Descripcion string    `json:"descripcion"`
	Precio      float64   `json:"precio"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r productResponse) snapshot() pedidos.Product {
	return pedidos.Product{
		ID:          r.ID,
		Name:        r.Nombre,
		Category:    pedidos.Category(r.Categoria),
		Stock:       r.Stock,
		Description: r.Descripcion,
		Price:       r.Precio,
		Active:      r.Activo,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (p *ProductsClient) GetProduct(ctx context.Context, ref string) (pedidos.Product, error) {
	var resp productResponse
	if err := p.c.get(ctx, &resp, "productos", ref); err != nil {
		return pedidos.Product{}, err
	}
	return resp.snapshot(), nil
}

func (p *ProductsClient) GetProducts(ctx context.Context) ([]pedidos.Product, error) {
	var resp []productResponse
	if err := p.c.get(ctx, &resp, "productos"); err != nil {
		return nil, err
	}
	out := make([]pedidos.Product, len(resp))
	for i, r := range resp {
		out[i] = r.snapshot()
	}
	return out, nil
}
