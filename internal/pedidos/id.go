package pedidos

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh order or task identifier.
func NewID() string { return uuid.NewString() }

// ParseID validates an order identifier and returns its canonical form.
func ParseID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", MissingID()
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", InvalidID(id)
	}
	return u.String(), nil
}
