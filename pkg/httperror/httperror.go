package httperror

import "github.com/gofiber/fiber/v2"

// Error is the structured error every handler returns across the HTTP
// boundary: a stable machine code, a human-readable message, the HTTP
// status to write, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: details,
	}
}

func BadRequest(code, message string, details any) *Error {
	return New(fiber.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(fiber.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details any) *Error {
	return New(fiber.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(fiber.StatusNotFound, code, message, details)
}

func Conflict(code, message string, details any) *Error {
	return New(fiber.StatusConflict, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(fiber.StatusInternalServerError, code, message, details)
}
