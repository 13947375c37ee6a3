package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned at construction time when the provider's
	// API key is neither passed in nor present in the environment.
	ErrMissingCredential = errors.New("adapter: missing API credential")

	// ErrUnsupported is returned when a provider lacks a capability.
	ErrUnsupported = errors.New("adapter: operation not supported")
)

// BackendError wraps any failure of a remote chat or embedding call.
type BackendError struct {
	Provider string
	Op       string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func backendErr(provider, op string, err error) error {
	return &BackendError{Provider: provider, Op: op, Err: err}
}

// IsBackendError reports whether err came from a remote provider call.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
