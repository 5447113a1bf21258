package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/aws"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/clients"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/config"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/handlers"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/metrics"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/store"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/validation"
)

// app holds the wired router and whatever must be released on shutdown.
type app struct {
	router  *gin.Engine
	closers []func(context.Context) error
}

func (a *app) Close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// buildApp wires every component from cfg. AWS clients are only created
// when a configured component needs them.
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{}

	var awsClients *aws.AWSClients
	if cfg.NeedsAWS() {
		c, err := aws.NewAWSClients(ctx, aws.Settings{
			Region:           cfg.AWS.Region,
			EndpointOverride: cfg.AWS.EndpointOverride,
		})
		if err != nil {
			return nil, fmt.Errorf("init aws clients: %w", err)
		}
		awsClients = c
	}

	repo, err := buildRepository(ctx, cfg, awsClients, a)
	if err != nil {
		return nil, err
	}

	m := metrics.NewServerMetrics(sanitize(cfg.App.Name))

	users := clients.NewUsersClient(clients.Config{
		BaseURL: cfg.Clients.Users.BaseURL,
		Token:   cfg.Clients.Users.Token,
		Timeout: cfg.Clients.Users.Timeout,
	}, m, log)
	products := clients.NewProductsClient(clients.Config{
		BaseURL: cfg.Clients.Products.BaseURL,
		Token:   cfg.Clients.Products.Token,
		Timeout: cfg.Clients.Products.Timeout,
	}, m, log)

	builder := pedidos.NewBuilder(users, products, pedidos.BuilderOptions{
		EmployeeFromOrderUser: cfg.Pedidos.EmployeeFromOrderUser,
		MaxParallel:           cfg.Pedidos.MaxParallelLookups,
	}, log.Named("builder"))

	var events pedidos.EventPublisher
	if cfg.Events.QueueURL != "" {
		events = m.InstrumentPublisher(aws.NewPublisher(awsClients.SQS, cfg.Events.QueueURL))
	}
	svc := pedidos.NewService(builder, repo, events, log.Named("service"))

	rc := handlers.RouterConfig{
		Service: svc,
		Validator: validation.New(validation.TaxRateRule{
			Min: cfg.Pedidos.TaxRate.Min,
			Max: cfg.Pedidos.TaxRate.Max,
		}),
		Metrics:   m,
		Logger:    log.Named("http"),
		RateLimit: cfg.Server.RateLimit,
		Page:      cfg.Pedidos.Page,
	}
	if cfg.Idempotency.Enabled {
		rc.Idempotency = idempotency.NewStore(awsClients.DynamoDB, cfg.Idempotency.Table, cfg.Idempotency.TTL)
	}
	a.router = handlers.NewRouter(rc)

	log.Info("pedidos service wired",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("idempotency", cfg.Idempotency.Enabled),
		zap.Bool("events", events != nil),
		zap.Bool("employee_from_order_user", cfg.Pedidos.EmployeeFromOrderUser))
	return a, nil
}

func buildRepository(ctx context.Context, cfg *config.Config, awsClients *aws.AWSClients, a *app) (pedidos.Repository, error) {
	switch cfg.Storage.Driver {
	case config.DriverDynamoDB:
		return store.NewDynamoStore(awsClients.DynamoDB, cfg.Storage.Table, cfg.Storage.ScanLimit), nil
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s, disconnect, err := store.ConnectMongo(connectCtx, cfg.Storage.Mongo.URI, cfg.Storage.Mongo.Database, cfg.Storage.Mongo.Collection)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, disconnect)
		return s, nil
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// sanitize turns an app name into a valid prometheus subsystem.
func sanitize(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
			out = append(out, ch)
		case ch >= '0' && ch <= '9':
			if len(out) == 0 {
				out = append(out, '_')
			}
			out = append(out, ch)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "api"
	}
	return string(out)
}
