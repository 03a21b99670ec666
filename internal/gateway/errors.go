package gateway

import (
	"errors"
	"fmt"
)

// Failure classes for Gateway calls. Every error returned by Client wraps one of these.
var (
	// ErrUnavailable is a transport failure: connection refused, DNS, reset
	ErrUnavailable = errors.New("gateway unavailable")

	// ErrRejected is a non-2xx response or an undecodable body
	ErrRejected = errors.New("gateway rejected the request")

	// ErrTimeout is returned when the call deadline elapsed
	ErrTimeout = errors.New("gateway timed out")
)

// Error describes a failed Gateway call
type Error struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("gateway %s: status %d", e.Op, e.StatusCode)
	case e.Detail != "":
		return fmt.Sprintf("gateway %s: %v: %s", e.Op, e.Err, e.Detail)
	default:
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
