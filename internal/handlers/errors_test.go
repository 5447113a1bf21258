package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

func TestMapError_CoversEveryKind(t *testing.T) {
	want := map[pedidos.ErrorKind]int{
		pedidos.KindNotFound:      http.StatusNotFound,
		pedidos.KindSaveError:     http.StatusInternalServerError,
		pedidos.KindInvalidID:     http.StatusBadRequest,
		pedidos.KindInvalidPage:   http.StatusBadRequest,
		pedidos.KindInvalidFormat: http.StatusBadRequest,
		pedidos.KindMissingID:     http.StatusBadRequest,
		pedidos.KindAPI:           http.StatusFailedDependency,
	}
	kinds := pedidos.ErrorKinds()
	assert.Len(t, want, len(kinds))

	for _, k := range kinds {
		e := &pedidos.Error{Kind: k, Message: "m"}
		status, msg := MapError(e)
		assert.Equal(t, want[k], status, k.String())
		assert.Equal(t, "m", msg)

		again, _ := MapError(e)
		assert.Equal(t, status, again, "mapping is deterministic")
	}
}

func TestMapError_EmptyMessageFallsBackToKind(t *testing.T) {
	_, msg := MapError(&pedidos.Error{Kind: pedidos.KindMissingID})
	assert.Equal(t, "MissingPedidoId", msg)
}

func TestMapError_UpstreamCodeDoesNotLeakIntoStatus(t *testing.T) {
	status, _ := MapError(pedidos.APIError("users: 503", 503, errors.New("down")))
	assert.Equal(t, http.StatusFailedDependency, status)
}

func TestMapError_NonDomainErrorsAreInvalidFormat(t *testing.T) {
	status, _ := MapError(pedidos.AsError(errors.New("weird")))
	assert.Equal(t, http.StatusBadRequest, status)
}
