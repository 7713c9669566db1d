package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"carpool/internal/auth"
	"carpool/internal/middleware"
	"carpool/internal/model"
	"carpool/internal/view"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// newTestEcho returns an echo instance configured like the server.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = view.MustNewRenderer()
	e.Validator = &testValidator{validator: validator.New()}
	e.HTTPErrorHandler = NewHTTPErrorHandler(zap.NewNop())
	return e
}

// withSession attaches claims the way RequireAuth does.
func withSession(claims *auth.Claims) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetClaims(c, claims)
			return next(c)
		}
	}
}

func testClaims(role model.Role) *auth.Claims {
	return &auth.Claims{UserID: uuid.NewString(), Name: "Test User", Email: "test@example.com", Role: role}
}

func postForm(e *echo.Echo, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
