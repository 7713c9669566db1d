package auth

import (
	"context"
	"time"

	"carpool/internal/cache"
)

const revokedTokenKeyPrefix = "revoked:session_token:"

// RevocationStore records logged-out session tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore keeps the revocation list in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements RevocationStore
var _ RevocationStore = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks a token id as revoked for ttl. Non-positive ttls are no-ops
// since the token has already expired.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked checks the revocation list. An unreachable cache reports false.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	data, _ := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	return data != nil
}
