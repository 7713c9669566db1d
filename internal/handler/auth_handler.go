package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"carpool/internal/auth"
	apperrors "carpool/internal/errors"
	"carpool/internal/metrics"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// Messages shown inline on the login/register page.
const (
	MsgRegistered         = "Registration successful. Please log in."
	MsgUserExists         = "User already exists."
	MsgInvalidCreds       = "Invalid credentials."
	MsgRegisterIncomplete = "Please fill in all fields."
	MsgPasswordTooLong    = "Password must be at most 72 bytes long."
)

const loginRegisterTitle = "Login / Register"

// AuthHandler handles authentication pages and form posts.
type AuthHandler struct {
	authService  service.AuthService
	metrics      metrics.Recorder
	log          *zap.Logger
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, rec metrics.Recorder, log *zap.Logger, cookieSecure bool) *AuthHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{authService: authService, metrics: rec, log: log, cookieSecure: cookieSecure}
}

// RegisterRequest represents a user registration form.
type RegisterRequest struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// LoginRequest represents a user login form.
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

func (h *AuthHandler) renderLoginRegister(c echo.Context, flash, flashFor string) error {
	page := newPage(c, loginRegisterTitle)
	page.Flash = flash
	page.FlashFor = flashFor
	return c.Render(http.StatusOK, "login_register", page)
}

// ShowLoginRegister renders the combined login and registration page.
func (h *AuthHandler) ShowLoginRegister(c echo.Context) error {
	return h.renderLoginRegister(c, "", "")
}

// Register creates an account. Every user-facing outcome is a 200 page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		return h.renderLoginRegister(c, MsgRegisterIncomplete, "register")
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		return h.renderLoginRegister(c, MsgRegisterIncomplete, "register")
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			h.metrics.RecordRegistration(metrics.OutcomeDuplicate)
			return h.renderLoginRegister(c, MsgUserExists, "register")
		}
		if errors.Is(err, apperrors.ErrIncompleteRegistration) {
			h.metrics.RecordRegistration(metrics.OutcomeInvalid)
			return h.renderLoginRegister(c, MsgRegisterIncomplete, "register")
		}
		if errors.Is(err, apperrors.ErrPasswordTooLong) {
			h.metrics.RecordRegistration(metrics.OutcomeInvalid)
			return h.renderLoginRegister(c, MsgPasswordTooLong, "register")
		}
		h.metrics.RecordRegistration(metrics.OutcomeError)
		return err
	}

	h.metrics.RecordRegistration(metrics.OutcomeSuccess)
	h.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return h.renderLoginRegister(c, MsgRegistered, "login")
}

// Login verifies credentials, sets the session cookie and redirects home.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.RecordLogin(metrics.OutcomeInvalid)
		return h.renderLoginRegister(c, MsgInvalidCreds, "login")
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.RecordLogin(metrics.OutcomeInvalid)
		return h.renderLoginRegister(c, MsgInvalidCreds, "login")
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			h.metrics.RecordLogin(metrics.OutcomeInvalid)
			return h.renderLoginRegister(c, MsgInvalidCreds, "login")
		}
		h.metrics.RecordLogin(metrics.OutcomeError)
		return err
	}

	h.metrics.RecordLogin(metrics.OutcomeSuccess)
	c.SetCookie(auth.NewSessionCookie(token, h.cookieSecure))
	return c.Redirect(http.StatusFound, "/")
}

// Logout revokes the current token when possible and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.log.Warn("revoke session token", zap.Error(err))
		}
	}
	c.SetCookie(auth.ClearSessionCookie(h.cookieSecure))
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}
