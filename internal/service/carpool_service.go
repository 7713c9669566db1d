package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carpool/internal/cache"
	apperrors "carpool/internal/errors"
	"carpool/internal/model"
	"carpool/internal/repository"
)

const (
	recentCarpoolsKey   = "carpools:recent"
	recentCarpoolsTTL   = 30 * time.Second
	recentCarpoolsLimit = 50
)

// CarpoolInput is the data needed to publish an offer.
type CarpoolInput struct {
	CarName       string
	Location      string
	DepartureTime time.Time
	Price         decimal.Decimal
	Gender        model.Gender
	TotalSeats    int
}

// Validate checks the offer fields, wrapping ErrInvalidCarpool.
func (in CarpoolInput) Validate() error {
	switch {
	case strings.TrimSpace(in.CarName) == "":
		return fmt.Errorf("%w: car name is required", apperrors.ErrInvalidCarpool)
	case strings.TrimSpace(in.Location) == "":
		return fmt.Errorf("%w: location is required", apperrors.ErrInvalidCarpool)
	case in.DepartureTime.IsZero():
		return fmt.Errorf("%w: departure time is required", apperrors.ErrInvalidCarpool)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidCarpool)
	case !in.Gender.Valid():
		return fmt.Errorf("%w: unknown gender preference %q", apperrors.ErrInvalidCarpool, in.Gender)
	case in.TotalSeats < 1:
		return fmt.Errorf("%w: total seats must be positive", apperrors.ErrInvalidCarpool)
	}
	return nil
}

// CarpoolService exposes carpool offer operations.
type CarpoolService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in CarpoolInput) (*model.Carpool, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Carpool, error)
	ListRecent(ctx context.Context) ([]model.Carpool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Carpool, error)
}

type carpoolService struct {
	carpoolRepo repository.CarpoolRepository
	userRepo    repository.UserRepository
	cache       *cache.Client
}

// NewCarpoolService creates a new carpool service.
func NewCarpoolService(carpoolRepo repository.CarpoolRepository, userRepo repository.UserRepository, cache *cache.Client) CarpoolService {
	return &carpoolService{carpoolRepo: carpoolRepo, userRepo: userRepo, cache: cache}
}

// Create validates the input and stores an offer owned by ownerID.
func (s *carpoolService) Create(ctx context.Context, ownerID uuid.UUID, in CarpoolInput) (*model.Carpool, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("find owner: %w", err)
	}

	carpool := &model.Carpool{
		UserID:        ownerID,
		CarName:       strings.TrimSpace(in.CarName),
		Location:      strings.TrimSpace(in.Location),
		DepartureTime: in.DepartureTime.UTC(),
		Price:         in.Price.Round(2),
		Gender:        in.Gender,
		TotalSeats:    in.TotalSeats,
	}
	if err := s.carpoolRepo.Create(ctx, carpool); err != nil {
		return nil, fmt.Errorf("create carpool: %w", err)
	}

	_ = s.cache.Delete(ctx, recentCarpoolsKey)
	return carpool, nil
}

func (s *carpoolService) Get(ctx context.Context, id uuid.UUID) (*model.Carpool, error) {
	return s.carpoolRepo.FindByID(ctx, id)
}

// ListRecent returns the newest offers, served from cache when possible.
func (s *carpoolService) ListRecent(ctx context.Context) ([]model.Carpool, error) {
	var cached []model.Carpool
	if s.cache.GetJSON(ctx, recentCarpoolsKey, &cached) {
		return cached, nil
	}

	carpools, err := s.carpoolRepo.ListRecent(ctx, recentCarpoolsLimit)
	if err != nil {
		return nil, fmt.Errorf("list carpools: %w", err)
	}
	_ = s.cache.SetJSON(ctx, recentCarpoolsKey, carpools, recentCarpoolsTTL)
	return carpools, nil
}

func (s *carpoolService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Carpool, error) {
	return s.carpoolRepo.ListByOwner(ctx, ownerID)
}
