package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "carpool/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"carpool/internal/auth"
	"carpool/internal/cache"
	"carpool/internal/config"
	"carpool/internal/db"
	"carpool/internal/handler"
	"carpool/internal/logger"
	"carpool/internal/metrics"
	"carpool/internal/repository"
	"carpool/internal/router"
	"carpool/internal/service"
	"carpool/internal/view"
)

const shutdownTimeout = 10 * time.Second

// @title Carpool API
// @version 1.0
// @description JSON endpoints of the carpool coordination app.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Error("database init failed", zap.Error(err))
		return err
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Warn("drop tables", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("auto-migrate failed", zap.Error(err))
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close() //nolint:errcheck
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, running without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancelPing()

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	carpoolRepo := repository.NewCarpoolRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	carpoolService := service.NewCarpoolService(carpoolRepo, userRepo, cacheClient)
	chatService := service.NewChatService(chatRepo, userRepo, carpoolRepo)
	userService := service.NewUserService(userRepo, cacheClient)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	_, err = service.EnsureAdmin(bootstrapCtx, userRepo, service.AdminConfig{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	}, log)
	cancelBootstrap()
	if err != nil {
		log.Error("admin bootstrap failed", zap.Error(err))
		return err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	e := echo.New()
	router.Register(e, cfg, router.Dependencies{
		Log:         log,
		Metrics:     collector,
		Gatherer:    prometheus.DefaultGatherer,
		Renderer:    renderer,
		Verifier:    jwtService,
		Revocations: tokenStore,
		Auth:        handler.NewAuthHandler(authService, collector, log, cfg.CookieSecure),
		Carpool:     handler.NewCarpoolHandler(carpoolService, collector, log, cfg.CookieSecure),
		Chat:        handler.NewChatHandler(chatService, collector, log, cfg.CookieSecure),
		Admin:       handler.NewAdminHandler(userService),
		API:         handler.NewAPIHandler(carpoolService, userService),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr), zap.String("swagger", "/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("server start failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
