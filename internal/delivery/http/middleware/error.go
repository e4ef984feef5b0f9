package middleware

import (
	"errors"
	"log"

	"job-finder/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError carries an HTTP status alongside the wrapped cause. Handlers
// return it; the error middleware turns it into the response envelope. The
// cause never reaches the client.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type ErrorMiddleware struct{}

func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

// Middleware converts handler errors into the envelope and recovers panics.
// Anything 5xx is collapsed to a generic message so internals never leak.
func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}
		return respond(c, err)
	}
}

func respond(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := ""
	var data interface{}

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		if appErr.StatusCode > 0 {
			status = appErr.StatusCode
		}
		message = appErr.Message
		data = appErr.Data
	case errors.As(err, &fiberErr):
		if fiberErr.Code > 0 {
			status = fiberErr.Code
		}
		message = fiberErr.Message
	}

	if status >= 500 {
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	return response.Error(c, status, message, data)
}
