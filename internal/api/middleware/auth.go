package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-api/internal/core/domain"
	"github.com/usermgmt/user-api/internal/core/ports"
)

// Context keys populated by Auth for downstream middleware and handlers.
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

// Auth extracts the bearer token, verifies it, and injects the authenticated
// identity into the request context. Requests without a valid token are
// rejected with an authentication error.
func Auth(tokens ports.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return domain.ErrMissingToken
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				return domain.ErrMissingToken
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				return err
			}

			c.Set(ContextKeyUserID, identity.UserID)
			c.Set(ContextKeyRole, identity.Role)

			return next(c)
		}
	}
}
