package prompts

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/promptbase/pkg/placeholder"
)

// Domain errors for prompt operations.
var (
	ErrNotFound   = errors.New("prompt not found")
	ErrValidation = errors.New("invalid prompt")
	ErrDatastore  = errors.New("datastore failure")
	ErrInvalidID  = errors.New("invalid prompt id")
)

// ValidationError identifies the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DatastoreError wraps a storage failure with the operation that hit it.
type DatastoreError struct {
	Op  string
	Err error
}

func (e *DatastoreError) Error() string {
	return fmt.Sprintf("%s prompt: %v", e.Op, e.Err)
}

func (e *DatastoreError) Unwrap() error {
	return e.Err
}

func (e *DatastoreError) Is(target error) bool {
	return target == ErrDatastore
}

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, placeholder.ErrMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
