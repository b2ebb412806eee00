package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// BaseResponse is the JSON envelope for every API reply.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *BaseResponse[any] {
	return &BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ResultResponse carries data alongside a non-2xx code, e.g. a degraded
// query outcome.
func ResultResponse[T any](code int, message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: code >= 200 && code < 300,
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// ErrorHandlerMiddleware turns any error escaping a handler into the JSON
// envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		return c.Status(code).JSON(ErrorResponse(code, message))
	}
}
