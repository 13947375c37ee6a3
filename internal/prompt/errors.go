package prompt

import "errors"

var (
	// ErrInvalidRole is returned when a role outside system/user/assistant is used.
	ErrInvalidRole = errors.New("prompt: invalid role")

	// ErrMissingVariable is returned by strict templates when a placeholder
	// has no value and no default.
	ErrMissingVariable = errors.New("prompt: missing variable")
)
