package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carpool/internal/errors"
	"carpool/internal/model"
)

func testIdentity() Identity {
	return Identity{
		ID:    uuid.NewString(),
		Name:  "Test User",
		Email: "test@example.com",
		Role:  model.RoleUser,
	}
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret")
	identity := testIdentity()

	token, err := svc.Issue(identity)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	if diff := cmp.Diff(identity, claims.Identity()); diff != "" {
		t.Fatalf("identity mismatch (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, claims.ID, "token id")
	assert.WithinDuration(t, time.Now().Add(SessionTokenExpiry), claims.ExpiresAt.Time, 5*time.Second)

	userID, err := claims.ParseUserID()
	require.NoError(t, err)
	assert.Equal(t, identity.ID, userID.String())
	assert.False(t, claims.IsAdmin())
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("test-secret")
	identity := testIdentity()

	a, err := svc.Issue(identity)
	require.NoError(t, err)
	b, err := svc.Issue(identity)
	require.NoError(t, err)

	ca, err := svc.Verify(a)
	require.NoError(t, err)
	cb, err := svc.Verify(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret")
	good, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	otherSecret, err := NewJWTService("other-secret").Issue(testIdentity())
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	forged, err := NewJWTService("x").Issue(Identity{ID: uuid.NewString(), Role: model.RoleAdmin})
	require.NoError(t, err)
	tampered := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not.a.token"},
		{"garbage", "abc"},
		{"wrong secret", otherSecret},
		{"tampered payload", tampered},
		{"alg none", none},
		{"missing user id", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
