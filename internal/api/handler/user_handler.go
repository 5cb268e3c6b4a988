package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-api/internal/api/metrics"
	"github.com/usermgmt/user-api/internal/core/domain"
	"github.com/usermgmt/user-api/internal/core/ports"
)

// UserHandler handles the per-user CRUD and listing endpoints.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns a page of users. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        per_page  query     int     false  "Page size"
// @Param        sort      query     string  false  "Sort spec, field:asc|desc"
// @Param        fields    query     string  false  "Comma-separated field projection"
// @Success      200       {object}  dataResponse
// @Failure      400       {object}  map[string]any
// @Failure      403       {object}  map[string]any
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	in := ports.ListInput{Sort: c.QueryParam("sort")}

	var err error
	if in.Page, err = queryInt(c, "page"); err != nil {
		return err
	}
	if in.PerPage, err = queryInt(c, "per_page"); err != nil {
		return err
	}
	if raw := c.QueryParam("fields"); raw != "" {
		in.Fields = strings.Split(raw, ",")
	}

	page, err := h.users.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	resp := listUsersResponse{
		Items:   make([]any, 0, len(page.Items)),
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}
	for _, u := range page.Items {
		resp.Items = append(resp.Items, userItem(u, page.Fields))
	}

	return c.JSON(http.StatusOK, dataResponse{Data: resp})
}

// Get returns a single user by id. Any authenticated caller.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  map[string]any
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

// Update applies a partial update. Admins may update anyone; other callers
// only their own record.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if !identity.CanModify(id) {
		return domain.ErrForbidden
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.Validation("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch := ports.UserPatch{Username: req.Username, Email: req.Email}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	user, err := h.users.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

// Delete removes a user permanently. Admin only.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.UsersDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// queryInt parses an optional positive integer query parameter. The zero
// return means "absent, use the default"; a parameter supplied explicitly
// must be >= 1 and is rejected otherwise, so an explicit 0 never slips
// through as the absent sentinel.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validation(name + " must be an integer")
	}
	if n < 1 {
		return 0, domain.Validation(name + " must be >= 1")
	}
	return n, nil
}
