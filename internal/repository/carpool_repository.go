package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "carpool/internal/errors"
	"carpool/internal/model"
)

// CarpoolRepository defines carpool offer persistence operations.
type CarpoolRepository interface {
	Create(ctx context.Context, carpool *model.Carpool) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Carpool, error)
	ListRecent(ctx context.Context, limit int) ([]model.Carpool, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Carpool, error)
}

type carpoolRepository struct {
	db *gorm.DB
}

// NewCarpoolRepository creates a new carpool repository.
func NewCarpoolRepository(db *gorm.DB) CarpoolRepository {
	return &carpoolRepository{db: db}
}

// Create creates a new offer. A missing owner is reported as ErrUserNotFound
// through the foreign key.
func (r *carpoolRepository) Create(ctx context.Context, carpool *model.Carpool) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(carpool).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	return nil
}

// FindByID finds an offer by ID with its driver loaded.
func (r *carpoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Carpool, error) {
	var carpool model.Carpool
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&carpool).Error; err != nil {
		return nil, notFound(err, apperrors.ErrCarpoolNotFound)
	}
	return &carpool, nil
}

// ListRecent lists the newest offers first.
func (r *carpoolRepository) ListRecent(ctx context.Context, limit int) ([]model.Carpool, error) {
	var carpools []model.Carpool
	if err := r.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").Limit(limit).
		Find(&carpools).Error; err != nil {
		return nil, err
	}
	return carpools, nil
}

// ListByOwner lists the offers created by one user.
func (r *carpoolRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.Carpool, error) {
	var carpools []model.Carpool
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("departure_time ASC").
		Find(&carpools).Error; err != nil {
		return nil, err
	}
	return carpools, nil
}
