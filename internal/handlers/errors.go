package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

// ErrorResponse is the envelope of every failed request. Code repeats the
// HTTP status.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// MapError translates a domain error into its HTTP status and message. It
// handles every kind in pedidos.ErrorKinds.
func MapError(e *pedidos.Error) (int, string) {
	if e == nil {
		return http.StatusInternalServerError, "internal server error"
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	switch e.Kind {
	case pedidos.KindNotFound:
		return http.StatusNotFound, msg
	case pedidos.KindSaveError:
		return http.StatusInternalServerError, msg
	case pedidos.KindInvalidID, pedidos.KindInvalidPage, pedidos.KindInvalidFormat, pedidos.KindMissingID:
		return http.StatusBadRequest, msg
	case pedidos.KindAPI:
		return http.StatusFailedDependency, msg
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeError(c *gin.Context, err error) {
	de := pedidos.AsError(err)
	status, msg := MapError(de)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: status})
}

func writeStatus(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: status})
}
