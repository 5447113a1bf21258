package pedidos

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusInProcess Status = "IN_PROCESS"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProcess, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Category classifies a product.
type Category string

const (
	CategoryPiece    Category = "PIECE"
	CategoryRepair   Category = "REPAIR"
	CategoryAssembly Category = "ASSEMBLY"
	CategoryCustom   Category = "CUSTOM"
	CategoryMobile   Category = "MOBILE"
	CategoryLaptop   Category = "LAPTOP"
	CategoryDesktop  Category = "DESKTOP"
	CategoryTablet   Category = "TABLET"
)

// User is a snapshot of a user as returned by the users service when the
// order was built.
type User struct {
	Username  string    `dynamodbav:"username" bson:"username"`
	Email     string    `dynamodbav:"email" bson:"email"`
	Role      string    `dynamodbav:"role" bson:"role"`
	Addresses []string  `dynamodbav:"addresses,omitempty" bson:"addresses,omitempty"`
	Avatar    string    `dynamodbav:"avatar,omitempty" bson:"avatar,omitempty"`
	Active    bool      `dynamodbav:"active" bson:"active"`
	CreatedAt time.Time `dynamodbav:"created_at" bson:"created_at"`
}

// Clone returns a copy that shares no memory with u.
func (u User) Clone() User {
	u.Addresses = slices.Clone(u.Addresses)
	return u
}

// Product is a snapshot of a product as returned by the products service when
// the order was built.
type Product struct {
	ID          string    `dynamodbav:"id" bson:"id"`
	Name        string    `dynamodbav:"name" bson:"name"`
	Category    Category  `dynamodbav:"category" bson:"category"`
	Stock       int       `dynamodbav:"stock" bson:"stock"`
	Description string    `dynamodbav:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `dynamodbav:"price" bson:"price"`
	Active      bool      `dynamodbav:"active" bson:"active"`
	CreatedAt   time.Time `dynamodbav:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" bson:"updated_at"`
}

// Task is a line item of an order. It only exists inside its order.
type Task struct {
	ID        string    `dynamodbav:"id" bson:"id"`
	Product   Product   `dynamodbav:"product" bson:"product"`
	Employee  User      `dynamodbav:"employee" bson:"employee"`
	CreatedAt time.Time `dynamodbav:"created_at" bson:"created_at"`
}

// Price is the product price captured when the task was built.
func (t Task) Price() float64 { return t.Product.Price }

func (t Task) Clone() Task {
	t.Employee = t.Employee.Clone()
	return t
}

// Order is the aggregate root stored as one document, tasks embedded.
type Order struct {
	ID        string    `dynamodbav:"id" bson:"_id"`
	User      User      `dynamodbav:"user" bson:"user"`
	Tasks     []Task    `dynamodbav:"tasks" bson:"tasks"`
	TaxRate   float64   `dynamodbav:"tax_rate" bson:"tax_rate"`
	Status    Status    `dynamodbav:"status" bson:"status"`
	CreatedAt time.Time `dynamodbav:"created_at" bson:"created_at"`
}

// Total is the sum of the task prices. It is derived, never stored.
func (o Order) Total() float64 {
	sum := decimal.Zero
	for _, t := range o.Tasks {
		sum = sum.Add(decimal.NewFromFloat(t.Price()))
	}
	f, _ := sum.Float64()
	return f
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	o.User = o.User.Clone()
	if o.Tasks != nil {
		tasks := make([]Task, len(o.Tasks))
		for i, t := range o.Tasks {
			tasks[i] = t.Clone()
		}
		o.Tasks = tasks
	}
	return o
}
