package usecase

import (
	"errors"
	"fmt"
)

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type HTTPError struct {
	Status  int
	Message string
	Details []ErrorDetail
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// NewValidationError carries per-field descriptions alongside the message.
func NewValidationError(status int, message string, details []ErrorDetail) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Details: details,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
