package clients

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

// UsersClient talks to the users service.
type UsersClient struct {
	c *jsonClient
}

func NewUsersClient(cfg Config, rec Recorder, log *zap.Logger) *UsersClient {
	return &UsersClient{c: newJSONClient("users", cfg, rec, log)}
}

type userResponse struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Rol         string    `json:"rol"`
	Direcciones []string  `json:"direcciones"`
	Avatar      string    `json:"avatar"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r userResponse) snapshot() pedidos.User {
	return pedidos.User{
		Username:  r.Username,
		Email:     r.Email,
		Role:      r.Rol,
		Addresses: r.Direcciones,
		Avatar:    r.Avatar,
		Active:    r.Activo,
		CreatedAt: r.CreatedAt,
	}
}

// GetUser returns the user identified by ref (a username or id).
func (u *UsersClient) GetUser(ctx context.Context, ref string) (pedidos.User, error) {
	var resp userResponse
	if err := u.c.get(ctx, &resp, "usuarios", ref); err != nil {
		return pedidos.User{}, err
	}
	return resp.snapshot(), nil
}

func (u *UsersClient) GetUsers(ctx context.Context) ([]pedidos.User, error) {
	var resp []userResponse
	if err := u.c.get(ctx, &resp, "usuarios"); err != nil {
		return nil, err
	}
	out := make([]pedidos.User, len(resp))
	for i, r := range resp {
		out[i] = r.snapshot()
	}
	return out, nil
}
