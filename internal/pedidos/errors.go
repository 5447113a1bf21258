package pedidos

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the closed set of domain failures.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindSaveError
	KindInvalidID
	KindInvalidPage
	KindInvalidFormat
	KindMissingID
	KindAPI
)

var kindNames = map[ErrorKind]string{
	KindNotFound:      "PedidoNotFound",
	KindSaveError:     "PedidoSaveError",
	KindInvalidID:     "InvalidPedidoId",
	KindInvalidPage:   "InvalidPedidoPage",
	KindInvalidFormat: "InvalidPedidoFormat",
	KindMissingID:     "MissingPedidoId",
	KindAPI:           "ApiError",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ErrorKinds returns every kind in declaration order.
func ErrorKinds() []ErrorKind {
	return []ErrorKind{
		KindNotFound,
		KindSaveError,
		KindInvalidID,
		KindInvalidPage,
		KindInvalidFormat,
		KindMissingID,
		KindAPI,
	}
}

// Error is the single error type returned across component boundaries.
// Code carries the upstream HTTP status for KindAPI and is zero otherwise.
type Error struct {
	Kind    ErrorKind
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrSave          = &Error{Kind: KindSaveError}
	ErrInvalidID     = &Error{Kind: KindInvalidID}
	ErrInvalidPage   = &Error{Kind: KindInvalidPage}
	ErrInvalidFormat = &Error{Kind: KindInvalidFormat}
	ErrMissingID     = &Error{Kind: KindMissingID}
	ErrAPI           = &Error{Kind: KindAPI}
)

func NotFound(id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("pedido %s not found", id)}
}

func SaveError(err error) *Error {
	return &Error{Kind: KindSaveError, Message: "pedido storage failure", Err: err}
}

func InvalidID(id string) *Error {
	return &Error{Kind: KindInvalidID, Message: fmt.Sprintf("invalid pedido id %q", id)}
}

func InvalidPage(page, size int) *Error {
	return &Error{Kind: KindInvalidPage, Message: fmt.Sprintf("invalid page %d with size %d", page, size)}
}

func InvalidFormat(msg string) *Error {
	return &Error{Kind: KindInvalidFormat, Message: msg}
}

func MissingID() *Error {
	return &Error{Kind: KindMissingID, Message: "pedido id is required"}
}

func APIError(msg string, code int, err error) *Error {
	return &Error{Kind: KindAPI, Message: msg, Code: code, Err: err}
}

// AsError returns err as a domain error. Errors outside the taxonomy are
// reported as InvalidPedidoFormat.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Kind: KindInvalidFormat, Message: "invalid pedido request", Err: err}
}

// upstreamError classifies a failed call to a users or products service.
// Errors exposing StatusCode keep it as the ApiError code.
func upstreamError(what string, err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	code := 0
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		code = sc.StatusCode()
	}
	return APIError(fmt.Sprintf("%s: %v", what, err), code, err)
}
