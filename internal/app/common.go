package app

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks requests rejected before any planning happens.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
