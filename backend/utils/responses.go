package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Success writes a 200 response carrying data.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Message: message,
		Data:    data,
	})
}

// Error writes a failure response. err, when present, is exposed as the
// opaque error field.
func Error(c *fiber.Ctx, status int, message string, err error) error {
	response := Response{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	return c.Status(status).JSON(response)
}

// HandleError reports err with the status an APIError carries, or as a 500
// with fallback as the message.
func HandleError(c *fiber.Ctx, err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Error(c, apiErr.Status, apiErr.Message, apiErr.Err)
	}
	return Error(c, fiber.StatusInternalServerError, fallback, err)
}

// NotFound sends 404 Not Found
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message, nil)
}

// BadRequest sends 400 Bad Request
func BadRequest(c *fiber.Ctx, message string, err error) error {
	return Error(c, fiber.StatusBadRequest, message, err)
}

// Unauthorized sends 401 Unauthorized
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message, nil)
}

// Forbidden sends 403 Forbidden
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message, nil)
}

// InternalServerError sends 500 Internal Server Error
func InternalServerError(c *fiber.Ctx, message string, err error) error {
	return Error(c, fiber.StatusInternalServerError, message, err)
}
