package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carpool/internal/service"
)

// AdminHandler serves the admin-only pages.
type AdminHandler struct {
	users service.UserService
}

// NewAdminHandler creates a handler layer.
func NewAdminHandler(users service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers renders every registered account.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	page := newPage(c, "Users")
	page.Data = users
	return c.Render(http.StatusOK, "admin_users", page)
}
