package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "carpool/internal/errors"
	"carpool/internal/model"
)

// SessionTokenExpiry is the duration for which session tokens are valid.
const SessionTokenExpiry = time.Hour

// Identity is the user data embedded in a session token.
type Identity struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// IdentityOf extracts the token identity of a user.
func IdentityOf(u *model.User) Identity {
	return Identity{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role}
}

// Claims represents JWT claims. RegisteredClaims.ID carries the token id (jti).
type Claims struct {
	UserID string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the user data carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// ParseUserID parses the user id of the claims.
func (c *Claims) ParseUserID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// IsAdmin reports whether the session carries the admin role.
func (c *Claims) IsAdmin() bool { return c.Role == model.RoleAdmin }

// TokenVerifier verifies session tokens.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// JWTService handles session token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

var _ TokenVerifier = (*JWTService)(nil)

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a session token for identity valid for SessionTokenExpiry.
func (s *JWTService) Issue(identity Identity) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: identity.ID,
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify validates signature and expiration and returns the claims.
// It fails with ErrTokenExpired or ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
