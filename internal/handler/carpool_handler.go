package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "carpool/internal/errors"
	"carpool/internal/metrics"
	"carpool/internal/model"
	"carpool/internal/service"
)

const createOfferTitle = "Create Offer"

// Layouts accepted for the departure time: RFC 3339 from API clients and
// the value of an HTML datetime-local input.
var departureLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// CarpoolHandler serves the dashboard and carpool offer pages.
type CarpoolHandler struct {
	carpools     service.CarpoolService
	metrics      metrics.Recorder
	log          *zap.Logger
	cookieSecure bool
}

// NewCarpoolHandler creates a new carpool handler.
func NewCarpoolHandler(carpools service.CarpoolService, rec metrics.Recorder, log *zap.Logger, cookieSecure bool) *CarpoolHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CarpoolHandler{carpools: carpools, metrics: rec, log: log, cookieSecure: cookieSecure}
}

// CreateCarpoolRequest is the offer form. Price stays textual until parsed
// into a decimal.
type CreateCarpoolRequest struct {
	CarName    string      `form:"carName" json:"carName" validate:"required"`
	Location   string      `form:"location" json:"location" validate:"required"`
	Time       string      `form:"time" json:"time" validate:"required"`
	Price      json.Number `form:"price" json:"price" validate:"required"`
	Gender     string      `form:"gender" json:"gender"`
	TotalSeats int         `form:"totalSeats" json:"totalSeats" validate:"required,min=1"`
}

// ToInput converts the form into service input.
func (r CreateCarpoolRequest) ToInput() (service.CarpoolInput, error) {
	departure, err := parseDepartureTime(r.Time)
	if err != nil {
		return service.CarpoolInput{}, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price.String()))
	if err != nil {
		return service.CarpoolInput{}, fmt.Errorf("%w: price must be a number", apperrors.ErrInvalidCarpool)
	}

	gender := model.Gender(strings.ToLower(strings.TrimSpace(r.Gender)))
	if gender == "" {
		gender = model.GenderAny
	}

	return service.CarpoolInput{
		CarName:       r.CarName,
		Location:      r.Location,
		DepartureTime: departure,
		Price:         price,
		Gender:        gender,
		TotalSeats:    r.TotalSeats,
	}, nil
}

func parseDepartureTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range departureLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: departure time %q is not a valid date", apperrors.ErrInvalidCarpool, value)
}

// dashboardPage is the data of the dashboard template.
type dashboardPage struct {
	Recent []model.Carpool
	Mine   []model.Carpool
}

// Dashboard renders the offer listing and the session user's own offers.
func (h *CarpoolHandler) Dashboard(c echo.Context) error {
	userID, _, ok := sessionUserID(c)
	if !ok {
		return redirectToLogin(c, h.cookieSecure)
	}
	ctx := c.Request().Context()

	recent, err := h.carpools.ListRecent(ctx)
	if err != nil {
		return err
	}
	mine, err := h.carpools.ListByOwner(ctx, userID)
	if err != nil {
		return err
	}

	page := newPage(c, "Dashboard")
	page.Data = dashboardPage{Recent: recent, Mine: mine}
	return c.Render(http.StatusOK, "dashboard", page)
}

// New renders the offer form.
func (h *CarpoolHandler) New(c echo.Context) error {
	return c.Render(http.StatusOK, "carpool_new", newPage(c, createOfferTitle))
}

func (h *CarpoolHandler) renderForm(c echo.Context, message string) error {
	page := newPage(c, createOfferTitle)
	page.Flash = message
	return c.Render(http.StatusOK, "carpool_new", page)
}

// Create stores an offer owned by the session user.
func (h *CarpoolHandler) Create(c echo.Context) error {
	ownerID, _, ok := sessionUserID(c)
	if !ok {
		return redirectToLogin(c, h.cookieSecure)
	}

	var req CreateCarpoolRequest
	if err := c.Bind(&req); err != nil {
		return h.renderForm(c, "Please check the offer details.")
	}
	if err := c.Validate(&req); err != nil {
		return h.renderForm(c, "Please fill in all fields.")
	}
	in, err := req.ToInput()
	if err != nil {
		return h.renderForm(c, err.Error())
	}

	carpool, err := h.carpools.Create(c.Request().Context(), ownerID, in)
	switch {
	case errors.Is(err, apperrors.ErrInvalidCarpool):
		return h.renderForm(c, err.Error())
	case errors.Is(err, apperrors.ErrUserNotFound):
		// Signed token for an account that no longer exists.
		return redirectToLogin(c, h.cookieSecure)
	case err != nil:
		return err
	}

	h.metrics.RecordOfferCreated()
	h.log.Info("carpool offer created",
		zap.String("carpool_id", carpool.ID.String()),
		zap.String("user_id", ownerID.String()),
	)
	return c.Redirect(http.StatusFound, "/")
}

// Show renders a single offer.
func (h *CarpoolHandler) Show(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Carpool offer not found.")
	}
	carpool, err := h.carpools.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCarpoolNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Carpool offer not found.")
		}
		return err
	}
	page := newPage(c, carpool.CarName)
	page.Data = carpool
	return c.Render(http.StatusOK, "carpool_show", page)
}
