package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

const GenericErrorMessage = "Failed to perform operation"

// ErrorHandlerMiddleware turns errors that escape handlers into the standard
// error body. Fiber errors keep their status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(GenericErrorMessage, err.Error()))
	}
}
