package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"carpool/internal/auth"
	apperrors "carpool/internal/errors"
	"carpool/internal/middleware"
	"carpool/internal/view"
)

// newPage builds the template data for the current request.
func newPage(c echo.Context, title string) view.Page {
	page := view.Page{Title: title}
	if claims, ok := middleware.Claims(c); ok {
		page.Session = claims
	}
	return page
}

// sessionUserID returns the authenticated user id. Routes using it sit
// behind RequireAuth, so a failure means the token carries a bad subject.
func sessionUserID(c echo.Context) (uuid.UUID, *auth.Claims, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return uuid.Nil, nil, false
	}
	id, err := claims.ParseUserID()
	if err != nil {
		return uuid.Nil, nil, false
	}
	return id, claims, true
}

// redirectToLogin drops the session cookie and sends the client to the login page.
func redirectToLogin(c echo.Context, secure bool) error {
	c.SetCookie(auth.ClearSessionCookie(secure))
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// NewHTTPErrorHandler renders errors as HTML pages, or as JSON under /api.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Something went wrong. Please try again later."
		code := "INTERNAL_ERROR"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
				message = m
			}
			code = strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
		} else {
			mapped := apperrors.MapErrorToHTTP(err)
			status = mapped.StatusCode
			code = mapped.Code
			if status < http.StatusInternalServerError {
				message = mapped.Message
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("request error",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
			)
		}

		var writeErr error
		switch {
		case c.Request().Method == http.MethodHead:
			writeErr = c.NoContent(status)
		case strings.HasPrefix(c.Request().URL.Path, "/api/"):
			writeErr = c.JSON(status, apperrors.ErrorResponse{Error: message, Code: code})
		default:
			page := newPage(c, http.StatusText(status))
			page.Flash = message
			writeErr = c.Render(status, "error", page)
		}
		if writeErr != nil {
			log.Error("write error response", zap.Error(writeErr))
		}
	}
}
