package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-api/internal/api/middleware"
	"github.com/usermgmt/user-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a missing or structurally unusable
// claim set means the middleware did not run or the token was defective.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	userID, _ := c.Get(middleware.ContextKeyUserID).(string)
	role, _ := c.Get(middleware.ContextKeyRole).(domain.Role)

	if userID == "" || !role.Valid() {
		return domain.Identity{}, domain.ErrMissingToken
	}

	return domain.Identity{UserID: userID, Role: role}, nil
}
