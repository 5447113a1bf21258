package handlers

import (
	"time"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

type UsuarioResponse struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Rol         string    `json:"rol"`
	Direcciones []string  `json:"direcciones"`
	Avatar      string    `json:"avatar"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProductoResponse struct {
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

type TareaResponse struct {
	ID        string           `json:"id"`
	Producto  ProductoResponse `json:"producto"`
	Empleado  UsuarioResponse  `json:"empleado"`
	Precio    float64          `json:"precio"`
	CreatedAt time.Time        `json:"createdAt"`
}

type PedidoResponse struct {
	ID        string          `json:"id"`
	Usuario   UsuarioResponse `json:"usuario"`
	Tareas    []TareaResponse `json:"tareas"`
	Iva       float64         `json:"iva"`
	Estado    string          `json:"estado"`
	CreatedAt time.Time       `json:"createdAt"`
	Total     float64         `json:"total"`
}

// PageResponse is the listing envelope. Size is the number of items in
// Result, not the requested size.
type PageResponse struct {
	Page   int              `json:"page"`
	Size   int              `json:"size"`
	Result []PedidoResponse `json:"result"`
}

func toUsuario(u pedidos.User) UsuarioResponse {
	dirs := u.Addresses
	if dirs == nil {
		dirs = []string{}
	}
	return UsuarioResponse{
		Username:    u.Username,
		Email:       u.Email,
		Rol:         u.Role,
		Direcciones: dirs,
		Avatar:      u.Avatar,
		Activo:      u.Active,
		CreatedAt:   u.CreatedAt,
	}
}

func toProducto(p pedidos.Product) ProductoResponse {
	return ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Name,
		Categoria:   string(p.Category),
		Stock:       p.Stock,
		Descripcion: p.Description,
		Precio:      p.Price,
		Activo:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPedidoResponse(o pedidos.Order) PedidoResponse {
	tareas := make([]TareaResponse, 0, len(o.Tasks))
	for _, t := range o.Tasks {
		tareas = append(tareas, TareaResponse{
			ID:        t.ID,
			Producto:  toProducto(t.Product),
			Empleado:  toUsuario(t.Employee),
			Precio:    t.Price(),
			CreatedAt: t.CreatedAt,
		})
	}
	return PedidoResponse{
		ID:        o.ID,
		Usuario:   toUsuario(o.User),
		Tareas:    tareas,
		Iva:       o.TaxRate,
		Estado:    string(o.Status),
		CreatedAt: o.CreatedAt,
		Total:     o.Total(),
	}
}
