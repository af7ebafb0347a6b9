package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// StatusMapping pairs a sentinel error with the HTTP status it maps to.
type StatusMapping struct {
	Err    error
	Status int
}

// ErrorHandlerMiddleware turns handler errors into BaseResponse bodies.
// Mappings are matched with errors.Is, in order.
func ErrorHandlerMiddleware(mappings ...StatusMapping) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := StatusFor(err, mappings)
		message := err.Error()
		if status == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}

func StatusFor(err error, mappings []StatusMapping) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}

	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return m.Status
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
