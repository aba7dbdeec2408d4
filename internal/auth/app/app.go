package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/copperline/precinct-auth/internal/auth/http"
	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/service"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/internal/auth/store/drivers/sqlite"
	"github.com/copperline/precinct-auth/internal/auth/store/tokencache"
	"github.com/copperline/precinct-auth/internal/auth/throttle"
	"github.com/copperline/precinct-auth/pkg/jwtx"
	"github.com/copperline/precinct-auth/pkg/slogx"
	"github.com/go-redis/redis/v8"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	rdb      *redis.Client
	codec    *jwtx.HS256Codec
	identity *identity.Manager
	throttle *throttle.Throttle

	// Services
	tokenService        *service.TokenService
	authService         *service.AuthService
	registerService     *service.RegisterService
	profileService      *service.ProfileService
	passwordService     *service.PasswordService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// redisPinger adapts the redis client to the readiness probe.
type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "precinct-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := jwtx.NewHS256Codec([]byte(cfg.JWTSecret), cfg.Issuer, cfg.Audience)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initRedis()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.rdb.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRedis connects the shared attempt-counter cache. An unreachable redis
// is logged but not fatal: the throttle falls back to its local shadow until
// the cache comes back.
func (app *Application) initRedis() {
	app.rdb = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := app.rdb.Ping(ctx).Err(); err != nil {
		app.logger.Warn("redis unreachable at startup, throttle will use local shadow",
			"addr", app.cfg.RedisAddr, "error", err)
		return
	}
	app.logger.Info("connected to redis", "addr", app.cfg.RedisAddr)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.identity = identity.NewManagerWithTTL(app.db, app.cfg.ResetTokenTTL)
	app.throttle = throttle.NewWithTTL(app.rdb, app.cfg.ThrottleTTL, throttle.DefaultMaxWriters)

	app.tokenService = &service.TokenService{
		Codec:      app.codec,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		Tokens:     tokencache.New(app.db.Tokens()),
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.authService = &service.AuthService{
		Identity: app.identity,
		Throttle: app.throttle,
		Tokens:   app.tokenService,
	}
	app.registerService = &service.RegisterService{Store: app.db, Tokens: app.tokenService}
	app.profileService = &service.ProfileService{
		Identity: app.identity,
		Store:    app.db,
		Tokens:   app.tokenService,
	}
	app.passwordService = &service.PasswordService{Identity: app.identity, Tokens: app.tokenService}
	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		redisPinger{rdb: app.rdb},
		app.logger,
	)

	router.Identity = app.identity
	router.TokenService = app.tokenService
	router.AuthService = app.authService
	router.RegisterService = app.registerService
	router.ProfileService = app.profileService
	router.PasswordService = app.passwordService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
