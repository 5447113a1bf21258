package pedidos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTotal(t *testing.T) {
	assert.Zero(t, Order{}.Total())

	o := Order{Tasks: []Task{
		{Product: Product{Price: 0.1}},
		{Product: Product{Price: 0.2}},
		{Product: Product{Price: 10}},
	}}
	var sum float64
	for _, task := range o.Tasks {
		sum += task.Price()
	}
	assert.InDelta(t, sum, o.Total(), 1e-9)
	assert.Equal(t, 10.3, o.Total())
}

func TestOrderClone(t *testing.T) {
	o := Order{
		User:  User{Addresses: []string{"a"}},
		Tasks: []Task{{Employee: User{Addresses: []string{"b"}}}},
	}
	c := o.Clone()
	c.User.Addresses[0] = "x"
	c.Tasks[0].Employee.Addresses[0] = "y"
	c.Tasks[0].Product.Price = 5

	assert.Equal(t, "a", o.User.Addresses[0])
	assert.Equal(t, "b", o.Tasks[0].Employee.Addresses[0])
	assert.Zero(t, o.Tasks[0].Price())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusInProcess, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("PENDING").Valid())
	assert.False(t, Status("").Valid())
}

func TestCheckPage(t *testing.T) {
	assert.NoError(t, CheckPage(0, 1))
	assert.ErrorIs(t, CheckPage(-1, 1), ErrInvalidPage)
	assert.ErrorIs(t, CheckPage(0, 0), ErrInvalidPage)
	assert.ErrorIs(t, CheckPage(0, -5), ErrInvalidPage)
}
