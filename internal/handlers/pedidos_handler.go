package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/config"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/paging"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/validation"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
)

// PedidoService is the set of use cases the routes need.
type PedidoService interface {
	List(ctx context.Context, page, size int) (*paging.Result[pedidos.Order], error)
	Get(ctx context.Context, id string) (pedidos.Order, error)
	Create(ctx context.Context, req pedidos.BuildRequest) (pedidos.Order, error)
	Update(ctx context.Context, id string, req pedidos.BuildRequest) (pedidos.Order, error)
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore records Idempotency-Key outcomes. Implemented by
// idempotency.Store.
type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (bool, *idempotency.Record, error)
	MarkDone(ctx context.Context, key, pedidoID, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
}

// ReplayCounter is told about every replayed response.
type ReplayCounter interface {
	IncReplay()
}

// PedidosHandler serves the /pedidos resource.
type PedidosHandler struct {
	svc      PedidoService
	validate *validatorv10.Validate
	idem     IdempotencyStore
	replays  ReplayCounter
	page     config.PageConfig
	log      *zap.Logger
}

func (h *PedidosHandler) Register(r gin.IRouter) {
	g := r.Group("/pedidos")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *PedidosHandler) list(c *gin.Context) {
	page, size, err := h.pageParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}

	out := PageResponse{Page: res.Page(), Result: []PedidoResponse{}}
	for o := range res.All() {
		out.Result = append(out.Result, toPedidoResponse(o))
	}
	out.Size = len(out.Result)
	c.JSON(http.StatusOK, out)
}

// pageParams applies defaults: page 0 and the configured default size.
func (h *PedidosHandler) pageParams(c *gin.Context) (int, int, error) {
	page, size := 0, h.page.DefaultSize
	if raw, ok := c.GetQuery("page"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, &pedidos.Error{Kind: pedidos.KindInvalidPage, Message: fmt.Sprintf("page %q is not an integer", raw), Err: err}
		}
		page = n
	}
	if raw, ok := c.GetQuery("size"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, &pedidos.Error{Kind: pedidos.KindInvalidPage, Message: fmt.Sprintf("size %q is not an integer", raw), Err: err}
		}
		size = n
	}
	if h.page.MaxSize > 0 && size > h.page.MaxSize {
		return 0, 0, &pedidos.Error{Kind: pedidos.KindInvalidPage, Message: fmt.Sprintf("size %d exceeds the maximum of %d", size, h.page.MaxSize)}
	}
	if err := pedidos.CheckPage(page, size); err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func (h *PedidosHandler) get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPedidoResponse(o))
}

func (h *PedidosHandler) create(c *gin.Context) {
	var req validation.CreatePedidoRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		writeError(c, err)
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" || h.idem == nil {
		o, err := h.svc.Create(c.Request.Context(), req.BuildRequest())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toPedidoResponse(o))
		return
	}
	h.createOnce(c, key, req)
}

// createOnce runs a POST at most once per Idempotency-Key. A finished key
// replays its stored response, an in-flight key is a conflict, a failed key
// runs again.
func (h *PedidosHandler) createOnce(c *gin.Context, key string, req validation.CreatePedidoRequest) {
	ctx := c.Request.Context()
	log := h.log.With(zap.String("idempotency_key", key), zap.String("request_id", requestID(c)))

	owned, rec, err := h.idem.Begin(ctx, key)
	if err != nil {
		log.Error("idempotency begin failed", zap.Error(err))
		writeError(c, pedidos.SaveError(err))
		return
	}
	if !owned {
		switch rec.Status {
		case idempotency.StatusDone:
			if h.replays != nil {
				h.replays.IncReplay()
			}
			c.Header(ReplayedHeader, "true")
			c.Data(rec.ResponseStatus, "application/json; charset=utf-8", []byte(rec.ResponseBody))
		default:
			writeStatus(c, http.StatusConflict, "a request with this Idempotency-Key is in progress")
		}
		return
	}

	o, err := h.svc.Create(ctx, req.BuildRequest())
	if err != nil {
		if mErr := h.idem.MarkFailed(ctx, key, err.Error()); mErr != nil {
			log.Warn("idempotency mark failed", zap.Error(mErr))
		}
		writeError(c, err)
		return
	}

	body, err := json.Marshal(toPedidoResponse(o))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.idem.MarkDone(ctx, key, o.ID, string(body), http.StatusOK); err != nil {
		// the order exists; a retry with this key will see IN_PROGRESS until the TTL passes
		log.Warn("idempotency mark done failed", zap.String("pedido_id", o.ID), zap.Error(err))
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *PedidosHandler) update(c *gin.Context) {
	id, err := pedidos.ParseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req validation.CreatePedidoRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		writeError(c, err)
		return
	}

	o, err := h.svc.Update(c.Request.Context(), id, req.BuildRequest())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPedidoResponse(o))
}

func (h *PedidosHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
