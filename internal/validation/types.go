package validation

import "github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"

// TareaRequest references the product and employee of one task.
type TareaRequest struct {
	Producto string `json:"producto" validate:"required,notblank"`
	Empleado string `json:"empleado" validate:"required,notblank"`
}

// CreatePedidoRequest is the payload for POST /pedidos and PUT /pedidos/{id}.
// Iva is a pointer so that an explicit 0 is distinguishable from a missing field.
type CreatePedidoRequest struct {
	Usuario string         `json:"usuario" validate:"required,notblank"`
	Tareas  []TareaRequest `json:"tareas" validate:"dive"` // empty allowed: total is zero
	Iva     *float64       `json:"iva" validate:"required,taxrate"`
	Estado  string         `json:"estado,omitempty" validate:"omitempty,oneof=IN_PROCESS DELIVERED CANCELLED"`
}

// BuildRequest converts the payload for the aggregate builder.
func (r CreatePedidoRequest) BuildRequest() pedidos.BuildRequest {
	out := pedidos.BuildRequest{
		UserRef: r.Usuario,
		Status:  pedidos.Status(r.Estado),
	}
	if r.Iva != nil {
		out.TaxRate = *r.Iva
	}
	for _, t := range r.Tareas {
		out.Tasks = append(out.Tasks, pedidos.TaskSpec{ProductRef: t.Producto, EmployeeRef: t.Empleado})
	}
	return out
}
