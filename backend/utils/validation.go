package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseBody decodes the JSON body into out and runs its validate tags.
func ParseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return ErrBadRequest("Cannot parse JSON", err)
	}
	if err := validate.Struct(out); err != nil {
		return ErrBadRequest("Validation failed", err)
	}
	return nil
}
