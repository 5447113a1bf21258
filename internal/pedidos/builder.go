package pedidos

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UserResolver fetches a user snapshot by reference.
type UserResolver interface {
	GetUser(ctx context.Context, ref string) (User, error)
}

// ProductResolver fetches a product snapshot by reference.
type ProductResolver interface {
	GetProduct(ctx context.Context, ref string) (Product, error)
}

// TaskSpec references the product and employee of one task.
type TaskSpec struct {
	ProductRef  string
	EmployeeRef string
}

// BuildRequest is a partially specified order.
type BuildRequest struct {
	UserRef string
	Tasks   []TaskSpec
	TaxRate float64
	// Status is optional; empty means IN_PROCESS.
	Status Status
}

// BuilderOptions tunes how references are resolved.
type BuilderOptions struct {
	// EmployeeFromOrderUser assigns the order's user as every task's
	// employee instead of resolving each EmployeeRef.
	EmployeeFromOrderUser bool
	// MaxParallel bounds concurrent upstream lookups per build. Zero or
	// negative means no bound.
	MaxParallel int
}

// Builder assembles order aggregates from upstream user and product data.
// It never persists.
type Builder struct {
	users    UserResolver
	products ProductResolver
	opts     BuilderOptions
	log      *zap.Logger
	nowFunc  func() time.Time
	newID    func() string
}

func NewBuilder(users UserResolver, products ProductResolver, opts BuilderOptions, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		users:    users,
		products: products,
		opts:     opts,
		log:      log,
		nowFunc:  time.Now,
		newID:    NewID,
	}
}

// Build resolves every reference in req and returns the assembled order.
// existingID, when non-empty, is reused as the order id. Any failed lookup
// fails the whole build.
func (b *Builder) Build(ctx context.Context, req BuildRequest, existingID string) (Order, error) {
	if err := checkRequest(req); err != nil {
		return Order{}, err
	}

	employeeRefs := b.distinctEmployees(req)

	var (
		user      User
		products  = make([]Product, len(req.Tasks))
		employees = make([]User, len(employeeRefs))
	)

	g, gctx := errgroup.WithContext(ctx)
	if b.opts.MaxParallel > 0 {
		g.SetLimit(b.opts.MaxParallel)
	}

	g.Go(func() error {
		u, err := b.users.GetUser(gctx, req.UserRef)
		if err != nil {
			b.log.Warn("user lookup failed", zap.String("ref", req.UserRef), zap.Error(err))
			return upstreamError(fmt.Sprintf("resolving usuario %q", req.UserRef), err)
		}
		user = u.Clone()
		return nil
	})
	// Each goroutine writes its own index, so output order follows input
	// order whatever the completion order.
	for i, spec := range req.Tasks {
		g.Go(func() error {
			p, err := b.products.GetProduct(gctx, spec.ProductRef)
			if err != nil {
				b.log.Warn("product lookup failed", zap.String("ref", spec.ProductRef), zap.Error(err))
				return upstreamError(fmt.Sprintf("resolving producto %q", spec.ProductRef), err)
			}
			products[i] = p
			return nil
		})
	}
	for i, ref := range employeeRefs {
		g.Go(func() error {
			u, err := b.users.GetUser(gctx, ref)
			if err != nil {
				b.log.Warn("employee lookup failed", zap.String("ref", ref), zap.Error(err))
				return upstreamError(fmt.Sprintf("resolving empleado %q", ref), err)
			}
			employees[i] = u.Clone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Order{}, err
	}

	byRef := make(map[string]User, len(employeeRefs))
	for i, ref := range employeeRefs {
		byRef[ref] = employees[i]
	}

	now := b.nowFunc().UTC()
	tasks := make([]Task, 0, len(req.Tasks))
	for i, spec := range req.Tasks {
		employee := user
		if e, ok := byRef[spec.EmployeeRef]; ok {
			employee = e
		}
		tasks = append(tasks, Task{
			ID:        b.newID(),
			Product:   products[i],
			Employee:  employee.Clone(),
			CreatedAt: now,
		})
	}

	id := existingID
	if id == "" {
		id = b.newID()
	}
	status := req.Status
	if status == "" {
		status = StatusInProcess
	}

	return Order{
		ID:        id,
		User:      user,
		Tasks:     tasks,
		TaxRate:   req.TaxRate,
		Status:    status,
		CreatedAt: now,
	}, nil
}

// distinctEmployees lists the employee refs that need their own lookup.
func (b *Builder) distinctEmployees(req BuildRequest) []string {
	if b.opts.EmployeeFromOrderUser {
		return nil
	}
	seen := map[string]bool{req.UserRef: true}
	var refs []string
	for _, t := range req.Tasks {
		if seen[t.EmployeeRef] {
			continue
		}
		seen[t.EmployeeRef] = true
		refs = append(refs, t.EmployeeRef)
	}
	return refs
}

func checkRequest(req BuildRequest) error {
	if strings.TrimSpace(req.UserRef) == "" {
		return InvalidFormat("usuario is required")
	}
	for i, t := range req.Tasks {
		if strings.TrimSpace(t.ProductRef) == "" {
			return InvalidFormat(fmt.Sprintf("tareas[%d].producto is required", i))
		}
		if strings.TrimSpace(t.EmployeeRef) == "" {
			return InvalidFormat(fmt.Sprintf("tareas[%d].empleado is required", i))
		}
	}
	if math.IsNaN(req.TaxRate) || math.IsInf(req.TaxRate, 0) {
		return InvalidFormat("iva must be a finite number")
	}
	if req.Status != "" && !req.Status.Valid() {
		return InvalidFormat(fmt.Sprintf("unknown estado %q", req.Status))
	}
	return nil
}
