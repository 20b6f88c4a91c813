package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// APIError carries the HTTP status a failure should be reported with from
// the service layer up to the controller.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

func NewAPIError(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Err: err}
}

func ErrBadRequest(message string, err error) *APIError {
	return NewAPIError(fiber.StatusBadRequest, message, err)
}

func ErrNotFound(message string) *APIError {
	return NewAPIError(fiber.StatusNotFound, message, nil)
}

func ErrInternal(message string, err error) *APIError {
	return NewAPIError(fiber.StatusInternalServerError, message, err)
}
