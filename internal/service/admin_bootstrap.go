package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"carpool/internal/auth"
	apperrors "carpool/internal/errors"
	"carpool/internal/model"
	"carpool/internal/repository"
)

const defaultAdminName = "Admin User"

// AdminConfig identifies the admin account ensured at startup.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// EnsureAdmin creates the configured admin account if no user holds its
// email yet. It is safe to call repeatedly and concurrently; it reports
// whether an account was created.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, cfg AdminConfig, log *zap.Logger) (bool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	email := NormalizeEmail(cfg.Email)
	if email == "" {
		log.Warn("admin email not configured, skipping admin bootstrap")
		return false, nil
	}

	existing, err := users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		if !existing.IsAdmin() {
			log.Warn("admin email belongs to a non-admin user, role left unchanged", zap.String("email", email))
			return false, nil
		}
		log.Info("admin user already exists", zap.String("email", email))
		return false, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}
	if cfg.Password == "" {
		return false, errors.New("admin password not configured")
	}

	digest, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("hash ADMIN_PASSWORD: %w", err)
	}
	name := cfg.Name
	if name == "" {
		name = defaultAdminName
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			log.Info("admin user created concurrently", zap.String("email", email))
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}

	log.Info("admin user created", zap.String("email", email), zap.String("id", admin.ID.String()))
	return true, nil
}
