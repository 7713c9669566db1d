package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carpool/internal/cache"
	apperrors "carpool/internal/errors"
	"carpool/internal/model"
	"carpool/internal/repository"
	"carpool/internal/service"
)

var seedSource string

// seedCmd imports demo offers
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import demo carpool offers owned by the admin account",
	Long: `Import demo carpool offers from a JSON file or an http(s) URL.

The admin account (ADMIN_EMAIL) owns the imported offers and is created first
when missing. Entries that fail validation are skipped and reported.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedSource, "source", "", "path or http(s) URL of a JSON array of offers")
	_ = seedCmd.MarkFlagRequired("source")
}

// SeedOffer is one entry of the seed document. Price accepts a JSON number
// or a numeric string.
type SeedOffer struct {
	CarName    string      `json:"carName"`
	Location   string      `json:"location"`
	Time       string      `json:"time"`
	Price      json.Number `json:"price"`
	Gender     string      `json:"gender"`
	TotalSeats int         `json:"totalSeats"`
}

// ToInput converts the entry into service input.
func (o SeedOffer) ToInput() (service.CarpoolInput, error) {
	departure, err := time.Parse(time.RFC3339, o.Time)
	if err != nil {
		return service.CarpoolInput{}, fmt.Errorf("%w: departure time %q is not RFC 3339", apperrors.ErrInvalidCarpool, o.Time)
	}
	price, err := decimal.NewFromString(o.Price.String())
	if err != nil {
		return service.CarpoolInput{}, fmt.Errorf("%w: price %q is not a number", apperrors.ErrInvalidCarpool, o.Price)
	}
	gender := model.Gender(strings.ToLower(o.Gender))
	if gender == "" {
		gender = model.GenderAny
	}
	in := service.CarpoolInput{
		CarName:       o.CarName,
		Location:      o.Location,
		DepartureTime: departure,
		Price:         price,
		Gender:        gender,
		TotalSeats:    o.TotalSeats,
	}
	return in, in.Validate()
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, gormDB, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	ctx := cmd.Context()

	offers, err := loadSeedOffers(ctx, seedSource)
	if err != nil {
		return err
	}
	log.Info("loaded seed offers", zap.String("source", seedSource), zap.Int("count", len(offers)))

	userRepo := repository.NewUserRepository(gormDB)
	if _, err := service.EnsureAdmin(ctx, userRepo, service.AdminConfig{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	}, log); err != nil {
		return err
	}
	owner, err := userRepo.FindByEmail(ctx, service.NormalizeEmail(cfg.AdminEmail))
	if err != nil {
		return fmt.Errorf("find admin %q: %w", cfg.AdminEmail, err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close() //nolint:errcheck
	carpools := service.NewCarpoolService(repository.NewCarpoolRepository(gormDB), userRepo, cacheClient)

	created, skipped, err := seedOffers(ctx, carpools, owner, offers, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seed completed: %d offers created, %d skipped\n", created, skipped)
	return nil
}

// seedOffers stores every valid offer for owner and counts the skipped ones.
func seedOffers(ctx context.Context, carpools service.CarpoolService, owner *model.User, offers []SeedOffer, log *zap.Logger) (created, skipped int, err error) {
	for i, offer := range offers {
		in, err := offer.ToInput()
		if err != nil {
			log.Warn("skipping seed offer", zap.Int("index", i), zap.Error(err))
			skipped++
			continue
		}
		if _, err := carpools.Create(ctx, owner.ID, in); err != nil {
			if errors.Is(err, apperrors.ErrInvalidCarpool) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("create offer %d: %w", i, err)
		}
		created++
	}
	return created, skipped, nil
}

// loadSeedOffers reads the seed document from a local path or an http(s) URL.
func loadSeedOffers(ctx context.Context, source string) ([]SeedOffer, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch seed data: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		body = f
	}
	defer body.Close()

	var offers []SeedOffer
	if err := json.NewDecoder(body).Decode(&offers); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return offers, nil
}
