package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carpool/internal/auth"
	apperrors "carpool/internal/errors"
	"carpool/internal/model"
	"carpool/internal/repository"
)

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationStore
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, revocations auth.RevocationStore) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		revocations: revocations,
		now:         time.Now,
	}
}

// NormalizeEmail lowercases and trims an email so lookups match the unique index.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with role "user" and a hashed password.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.ErrIncompleteRegistration
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         model.RoleUser,
	}
	// The existence check above is not atomic; the unique index decides races.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(auth.IdentityOf(user))
	if err != nil {
		return "", nil, fmt.Errorf("issue session token: %w", err)
	}
	return token, user, nil
}

// Logout revokes a still-valid token until its expiration. Invalid or
// expired tokens need no revocation.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session token: %w", err)
	}
	return nil
}
