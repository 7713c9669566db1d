package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"carpool/internal/auth"
	apperrors "carpool/internal/errors"
	"carpool/internal/metrics"
	"carpool/internal/model"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

const claimsKey = "session"

// RequireAuth gates a route on a valid, unrevoked session token read from the
// token cookie. Any failure redirects to LoginPath and halts the request.
// On success the claims are available through Claims and on the request context.
func RequireAuth(verifier auth.TokenVerifier, revocations auth.RevocationStore, rec metrics.Recorder) echo.MiddlewareFunc {
	if rec == nil {
		rec = metrics.Nop{}
	}
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + auth.CookieName,
		ContextKey:  claimsKey,
		// The cookie extractor has found the token; Resolve reads the same
		// cookie and applies verification and revocation.
		ParseTokenFunc: func(c echo.Context, _ string) (interface{}, error) {
			return auth.Resolve(c.Request(), verifier, revocations)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			rec.RecordAuthRedirect()
			return c.Redirect(http.StatusFound, LoginPath)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				rec.RecordAuthRedirect()
				return c.Redirect(http.StatusFound, LoginPath)
			}
			c.SetRequest(c.Request().WithContext(auth.WithClaims(c.Request().Context(), claims)))
			return next(c)
		})
	}
}

// RequireRole rejects authenticated sessions whose role differs from role.
// It must run after RequireAuth.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return c.Redirect(http.StatusFound, LoginPath)
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}

// Claims returns the session claims attached by RequireAuth.
func Claims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// SetClaims attaches claims to c. Used by tests and by handlers that resolve
// an optional session themselves.
func SetClaims(c echo.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
	c.SetRequest(c.Request().WithContext(auth.WithClaims(c.Request().Context(), claims)))
}
