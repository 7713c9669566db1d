package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "carpool/internal/errors"
)

const bcryptCost = 10

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword returns a salted bcrypt digest of plaintext. Passwords over
// MaxPasswordBytes fail with ErrPasswordTooLong.
func HashPassword(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: at most %d bytes", apperrors.ErrPasswordTooLong, MaxPasswordBytes)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches digest. Malformed or
// empty digests never match.
func VerifyPassword(plaintext, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
