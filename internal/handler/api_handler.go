package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carpool/internal/service"
)

// APIHandler serves the JSON API used by scripts and the Swagger UI.
type APIHandler struct {
	carpools service.CarpoolService
	users    service.UserService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(carpools service.CarpoolService, users service.UserService) *APIHandler {
	return &APIHandler{carpools: carpools, users: users}
}

// ListCarpools godoc
// @Summary List carpool offers
// @Description Newest offers first, including the driver.
// @Tags carpools
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Carpool
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/carpools [get]
func (h *APIHandler) ListCarpools(c echo.Context) error {
	carpools, err := h.carpools.ListRecent(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, carpools)
}

// Me godoc
// @Summary Current user
// @Description The stored account of the session user.
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/me [get]
func (h *APIHandler) Me(c echo.Context) error {
	userID, _, ok := sessionUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	user, err := h.users.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

