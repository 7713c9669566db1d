package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"carpool/internal/auth"
	apperrors "carpool/internal/errors"
	"carpool/internal/model"
)

// memUserRepository keeps users in memory and enforces unique emails like
// the database index does.
type memUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[string]model.User)}
}

func (r *memUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return apperrors.ErrUserAlreadyExists
	}
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	r.users[user.Email] = *user
	return nil
}

func (r *memUserRepository) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func adminConfig() AdminConfig {
	return AdminConfig{Email: "admin@example.com", Password: "adminpass"}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	repo := newMemUserRepository()
	ctx := context.Background()

	created, err := EnsureAdmin(ctx, repo, adminConfig(), nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, repo, adminConfig(), nil)
	require.NoError(t, err)
	assert.False(t, created)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	admin := users[0]
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "Admin User", admin.Name)
	assert.True(t, auth.VerifyPassword("adminpass", admin.PasswordHash))
}

func TestEnsureAdmin_Concurrent(t *testing.T) {
	repo := newMemUserRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := EnsureAdmin(context.Background(), repo, adminConfig(), nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	users, _ := repo.List(context.Background())
	assert.Len(t, users, 1)
}

func TestEnsureAdmin_ExistingUserKeepsRole(t *testing.T) {
	repo := newMemUserRepository()
	require.NoError(t, repo.Create(context.Background(), &model.User{Email: "admin@example.com", Role: model.RoleUser}))

	core, logs := observer.New(zap.WarnLevel)

	created, err := EnsureAdmin(context.Background(), repo, adminConfig(), zap.New(core))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, logs.FilterMessageSnippet("non-admin").Len())

	u, err := repo.FindByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
}

func TestEnsureAdmin_NotConfigured(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := new(MockUserRepository)

	created, err := EnsureAdmin(context.Background(), repo, AdminConfig{}, zap.New(core))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, logs.Len())
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_MissingPassword(t *testing.T) {
	repo := newMemUserRepository()

	_, err := EnsureAdmin(context.Background(), repo, AdminConfig{Email: "admin@example.com"}, nil)
	assert.Error(t, err)
	users, _ := repo.List(context.Background())
	assert.Empty(t, users)
}

func TestEnsureAdmin_PasswordTooLong(t *testing.T) {
	repo := newMemUserRepository()

	_, err := EnsureAdmin(context.Background(), repo, AdminConfig{
		Email:    "admin@example.com",
		Password: strings.Repeat("a", auth.MaxPasswordBytes+1),
	}, nil)
	require.ErrorIs(t, err, apperrors.ErrPasswordTooLong)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
	users, _ := repo.List(context.Background())
	assert.Empty(t, users)
}

func TestEnsureAdmin_DatabaseError(t *testing.T) {
	repo := new(MockUserRepository)
	dbErr := errors.New("connection refused")
	repo.On("FindByEmail", mock.Anything, "admin@example.com").Return(nil, dbErr)

	_, err := EnsureAdmin(context.Background(), repo, adminConfig(), nil)
	assert.ErrorIs(t, err, dbErr)
}
