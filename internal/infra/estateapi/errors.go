package estateapi

import (
	"errors"
	"fmt"
)

// Kind classifies why a call to the estate backend failed.
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
)

var (
	ErrTransport = errors.New("estateapi: transport failure")
	ErrStatus    = errors.New("estateapi: unexpected status")
	ErrDecode    = errors.New("estateapi: response shape mismatch")
)

// Error identifies the failed resource. It matches ErrTransport, ErrStatus or
// ErrDecode with errors.Is according to its Kind.
type Error struct {
	Resource   string
	Kind       Kind
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("estateapi: %s: status %d: %s", e.Resource, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("estateapi: %s: status %d", e.Resource, e.StatusCode)
	default:
		return fmt.Sprintf("estateapi: %s: %s: %v", e.Resource, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// ResourceOf returns the resource name carried by err, if any.
func ResourceOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Resource
	}
	return ""
}
