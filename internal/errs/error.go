package errs

import (
	"errors"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("invalid request")
	ErrOutOfStock             = errors.New("no available copies")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvariantViolation     = errors.New("inventory invariant violation")
	ErrConflict               = errors.New("concurrent update conflict")
)

type ErrorResponse struct {
	Message string `json:"message"`
}
