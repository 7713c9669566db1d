package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"carpool/internal/auth"
	"carpool/internal/config"
	"carpool/internal/handler"
	"carpool/internal/metrics"
	"carpool/internal/middleware"
	"carpool/internal/model"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Log         *zap.Logger
	Metrics     metrics.Recorder
	Gatherer    prometheus.Gatherer
	Renderer    echo.Renderer
	Verifier    auth.TokenVerifier
	Revocations auth.RevocationStore

	Auth    *handler.AuthHandler
	Carpool *handler.CarpoolHandler
	Chat    *handler.ChatHandler
	Admin   *handler.AdminHandler
	API     *handler.APIHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	e.HideBanner = true
	e.Renderer = deps.Renderer
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log, rec))
	e.Use(middleware.SecurityHeaders())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(deps.Gatherer)))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public pages
	e.GET(middleware.LoginPath, deps.Auth.ShowLoginRegister)
	e.GET("/logout", deps.Auth.Logout)

	authGroup := e.Group("/auth", middleware.RateLimit(middleware.RateLimitConfig{
		Rate:  cfg.AuthRateLimit,
		Burst: cfg.AuthRateBurst,
	}))
	authGroup.GET("/login-register", deps.Auth.ShowLoginRegister)
	authGroup.POST("/register", deps.Auth.Register)
	authGroup.POST("/login", deps.Auth.Login)

	// Session protected pages
	requireAuth := middleware.RequireAuth(deps.Verifier, deps.Revocations, rec)

	secured := e.Group("", requireAuth)
	secured.GET("/", deps.Carpool.Dashboard)
	secured.GET("/carpools/new", deps.Carpool.New)
	secured.POST("/carpools", deps.Carpool.Create)
	secured.GET("/carpools/:id", deps.Carpool.Show)
	secured.GET("/chats", deps.Chat.Inbox)
	secured.GET("/chats/:userID", deps.Chat.Show)
	secured.POST("/chats/:userID", deps.Chat.Send)

	admin := e.Group("/admin", requireAuth, middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", deps.Admin.ListUsers)

	api := e.Group("/api", requireAuth)
	api.GET("/carpools", deps.API.ListCarpools)
	api.GET("/me", deps.API.Me)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
