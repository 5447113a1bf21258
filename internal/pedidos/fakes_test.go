package pedidos

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return fmt.Sprintf("upstream status %d", e.code) }
func (e statusErr) StatusCode() int { return e.code }

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]User
	calls []string
}

func (f *fakeUsers) GetUser(ctx context.Context, ref string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ref)
	u, ok := f.users[ref]
	if !ok {
		return User{}, statusErr{404}
	}
	return u, nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[string]Product
	// delays make earlier refs finish later
	delays map[string]time.Duration
	calls  int
}

func (f *fakeProducts) GetProduct(ctx context.Context, ref string) (Product, error) {
	f.mu.Lock()
	f.calls++
	p, ok := f.products[ref]
	d := f.delays[ref]
	f.mu.Unlock()
	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return Product{}, ctx.Err()
		}
	}
	if !ok {
		return Product{}, statusErr{404}
	}
	return p, nil
}

func (f *fakeProducts) setPrice(ref string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[ref]
	p.Price = price
	f.products[ref] = p
}

func newFakes() (*fakeUsers, *fakeProducts) {
	users := &fakeUsers{users: map[string]User{
		"alice": {Username: "alice", Email: "alice@example.com", Role: "USER", Addresses: []string{"Calle Mayor 1"}, Active: true},
		"bob":   {Username: "bob", Email: "bob@example.com", Role: "EMPLOYEE", Active: true},
	}}
	products := &fakeProducts{
		products: map[string]Product{
			"P1": {ID: "P1", Name: "Pantalla", Category: CategoryPiece, Price: 10.0, Active: true},
			"P2": {ID: "P2", Name: "Reparación placa", Category: CategoryRepair, Price: 25.5, Active: true},
			"P3": {ID: "P3", Name: "Portátil", Category: CategoryLaptop, Price: 899.99, Active: true},
		},
		delays: map[string]time.Duration{},
	}
	return users, products
}
