package store

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	// KindNetwork covers transport failures: the request never produced
	// an HTTP response.
	KindNetwork ErrorKind = "network"
	// KindNotFound covers 404 responses.
	KindNotFound ErrorKind = "not_found"
	// KindRemote covers every other non-2xx response.
	KindRemote ErrorKind = "remote"
)

// APIError is the error type returned by every Client call.
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}
