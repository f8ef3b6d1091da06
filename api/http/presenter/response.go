package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
}

// ValidationResponse adds per-field messages to the error envelope.
type ValidationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func ValidationFailed(c *fiber.Ctx, fields map[string]string) error {
	return JSON(c, fiber.StatusBadRequest, ValidationResponse{
		Message: "validation failed",
		Errors:  fields,
	})
}
