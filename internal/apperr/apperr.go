package apperr

import (
	"errors"
	"net/http"
)

// Error is the typed failure every workflow raises. It carries the HTTP
// status the transport boundary should answer with; anything that is not an
// *Error is treated as an internal failure there.
type Error struct {
	Status  int      `json:"statusCode"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string, details ...string) *Error {
	return &Error{Status: status, Message: message, Errors: details}
}

func Validation(message string, details ...string) *Error {
	return New(http.StatusBadRequest, message, details...)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func Upload(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// From returns err as an *Error, or wraps it as a generic internal failure.
// The original error text never reaches the client.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return New(http.StatusInternalServerError, "internal server error")
}
