package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/usermgmt/user-api/internal/core/domain"
)

type envelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Details   string `json:"details"`
		RequestID string `json:"request_id"`
		Timestamp string `json:"timestamp"`
	} `json:"error"`
}

func render(t *testing.T, err error, development bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-123")

	NewHTTPErrorHandler(zerolog.Nop(), development)(err, c)

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad envelope: %v (%s)", err, rec.Body.String())
	}
	return rec, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{domain.ErrForbidden, http.StatusForbidden, "AUTHORIZATION_ERROR"},
		{domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrEmailTaken, http.StatusConflict, "DUPLICATE_EMAIL"},
		{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{domain.Validation("page must be >= 1"), http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tc := range cases {
		rec, body := render(t, tc.err, false)
		if rec.Code != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, rec.Code)
		}
		if body.Error.Code != tc.code {
			t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, body.Error.Code)
		}
		if body.Error.RequestID != "req-123" {
			t.Fatalf("%v: request id missing from envelope", tc.err)
		}
		if body.Error.Timestamp == "" {
			t.Fatalf("%v: timestamp missing from envelope", tc.err)
		}
	}
}

func TestErrorHandler_EchoErrors(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"), false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", body.Error.Code)
	}
}

func TestErrorHandler_UnexpectedErrorHidesInternals(t *testing.T) {
	rec, body := render(t, errors.New("connection pool exhausted at 10.0.0.5"), false)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %s", body.Error.Code)
	}
	if body.Error.Details != "" {
		t.Fatalf("internals leaked outside development: %q", body.Error.Details)
	}
	if body.Error.Message != "internal server error" {
		t.Fatalf("unexpected message: %q", body.Error.Message)
	}
}

func TestErrorHandler_DevelopmentIncludesDetails(t *testing.T) {
	_, body := render(t, errors.New("boom"), true)
	if body.Error.Details != "boom" {
		t.Fatalf("expected details in development mode, got %q", body.Error.Details)
	}
}
