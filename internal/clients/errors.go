package clients

import (
	"fmt"
)

// CallErrorKind classifies a failed upstream call.
type CallErrorKind int

const (
	// HTTPError: the service answered with a non-2xx status.
	HTTPError CallErrorKind = iota + 1
	// IOError: the request never got a response (dial, timeout, reset).
	IOError
	// UnexpectedError: the response could not be understood.
	UnexpectedError
)

func (k CallErrorKind) String() string {
	switch k {
	case HTTPError:
		return "http"
	case IOError:
		return "io"
	case UnexpectedError:
		return "unexpected"
	}
	return fmt.Sprintf("CallErrorKind(%d)", int(k))
}

// CallError is returned by every client method on failure.
type CallError struct {
	Kind    CallErrorKind
	Service string
	Code    int
	Message string
	Err     error
}

func (e *CallError) Error() string {
	switch e.Kind {
	case HTTPError:
		return fmt.Sprintf("%s service returned %d: %s", e.Service, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s service %s error: %v", e.Service, e.Kind, e.Err)
	}
}

func (e *CallError) Unwrap() error { return e.Err }

// StatusCode is the upstream HTTP status, zero when there was none.
func (e *CallError) StatusCode() int { return e.Code }
