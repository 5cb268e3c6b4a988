package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/usermgmt/user-api/internal/core/domain"
)

// errorBody is the canonical error envelope for all API errors.
type errorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their stable code and HTTP status.
//   - Logs unexpected errors internally without leaking details to the
//     client; outside development mode the response carries only the
//     generic message.
//   - Renders the consistent envelope {"error": {code, message, ...}} with
//     the request id and timestamp attached.
func NewHTTPErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := resolveError(err, log, c, development)
		body.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
		body.Timestamp = time.Now().UTC()

		_ = c.JSON(statusFor(err), errorResponse{Error: body})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, development bool) errorBody {
	// Domain errors carry their code and status already.
	var de *domain.Error
	if errors.As(err, &de) {
		return errorBody{Code: de.Code, Message: de.Message}
	}

	// Echo's own errors (bind failures, 404 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorBody{Code: codeForStatus(he.Code), Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	body := errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"}
	if development {
		body.Details = err.Error()
	}
	return body
}

func statusFor(err error) int {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "AUTHENTICATION_ERROR"
	case http.StatusForbidden:
		return "AUTHORIZATION_ERROR"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "DUPLICATE_EMAIL"
	case http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	default:
		return "INTERNAL_ERROR"
	}
}
