package domain

import "net/http"

// Error is a domain error value carrying a stable machine code and the HTTP
// status it maps to at the boundary. Errors are constructed once and compared
// by value through errors.As in the central HTTP error handler.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials = &Error{Code: "AUTHENTICATION_ERROR", Status: http.StatusUnauthorized, Message: "invalid credentials"}
	ErrMissingToken       = &Error{Code: "AUTHENTICATION_ERROR", Status: http.StatusUnauthorized, Message: "missing or malformed authorization header"}
	ErrInvalidToken       = &Error{Code: "AUTHENTICATION_ERROR", Status: http.StatusUnauthorized, Message: "invalid or expired token"}
	ErrForbidden          = &Error{Code: "AUTHORIZATION_ERROR", Status: http.StatusForbidden, Message: "access denied"}
	ErrUserNotFound       = &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: "user not found"}
	ErrEmailTaken         = &Error{Code: "DUPLICATE_EMAIL", Status: http.StatusConflict, Message: "email already registered"}
	ErrRateLimited        = &Error{Code: "RATE_LIMIT_EXCEEDED", Status: http.StatusTooManyRequests, Message: "too many requests"}
)

// Validation builds a 400 error with the given human-readable message.
func Validation(msg string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: msg}
}
