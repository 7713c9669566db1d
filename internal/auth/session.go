package auth

import (
	"context"
	"net/http"
	"time"

	apperrors "carpool/internal/errors"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// Resolve returns the claims of the session carried by r, or
// ErrUnauthenticated when the cookie is absent, its token is rejected or the
// token was revoked. revocations may be nil.
func Resolve(r *http.Request, verifier TokenVerifier, revocations RevocationStore) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	claims, err := verifier.Verify(cookie.Value)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if revocations != nil && revocations.IsRevoked(r.Context(), claims.ID) {
		return nil, apperrors.ErrUnauthenticated
	}
	return claims, nil
}

// NewSessionCookie builds the cookie set after a successful login.
func NewSessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTokenExpiry / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds a cookie that removes the session from the client.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type claimsContextKey struct{}

// WithClaims returns a copy of ctx carrying the session claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the session claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok && claims != nil
}
