package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/config"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/metrics"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/validation"
)

// RouterConfig groups dependencies for the HTTP surface.
type RouterConfig struct {
	Service     PedidoService
	Validator   *validatorv10.Validate // nil uses the default tax rate rule
	Idempotency IdempotencyStore       // nil ignores Idempotency-Key
	Metrics     *metrics.ServerMetrics // nil disables /metrics
	Logger      *zap.Logger
	RateLimit   config.RateLimitConfig
	Page        config.PageConfig
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	v := cfg.Validator
	if v == nil {
		v = validation.New(validation.DefaultTaxRateRule)
	}
	page := cfg.Page
	if page.DefaultSize <= 0 {
		page.DefaultSize = 20
	}

	r := gin.New()
	r.Use(RequestID(), AccessLog(log), Recovery(log))
	if cfg.Metrics != nil {
		r.Use(Metrics(cfg.Metrics))
	}
	r.Use(RateLimit(cfg.RateLimit, log))

	r.NoRoute(func(c *gin.Context) {
		writeStatus(c, http.StatusNotFound, "route not found")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	h := &PedidosHandler{
		svc:      cfg.Service,
		validate: v,
		idem:     cfg.Idempotency,
		page:     page,
		log:      log,
	}
	if cfg.Metrics != nil {
		h.replays = cfg.Metrics
	}
	h.Register(r)

	return r
}
