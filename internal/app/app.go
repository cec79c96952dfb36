package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"event-share/internal/auth"
	"event-share/internal/authclient"
	"event-share/internal/config"
	"event-share/internal/database"
	"event-share/internal/handler"
	"event-share/internal/middleware"
	"event-share/internal/repository"
	"event-share/internal/router"
	"event-share/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	servers      []*http.Server
	cleanupFuncs []func()
}

type pinger interface {
	Health(ctx context.Context) error
}

type memoryHealth struct{}

func (memoryHealth) Health(context.Context) error { return nil }

// NewUserService wires the user-service against Postgres.
func NewUserService(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	routes, err := userHandler(cfg, repository.NewUserRepository(db.Pool), db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		servers:      []*http.Server{newServer(cfg, routes)},
		cleanupFuncs: []func(){db.Close},
	}, nil
}

// NewEventService wires the event-service against MongoDB and the remote
// user-service verifier.
func NewEventService(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to MongoDB")
	mongo, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := mongo.EnsureIndexes(ctx); err != nil {
		_ = mongo.Close(context.Background())
		return nil, fmt.Errorf("failed to ensure mongo indexes: %w", err)
	}

	routes := eventHandler(cfg, repository.NewEventRepository(mongo.Database), mongo)

	return &App{
		servers: []*http.Server{newServer(cfg, routes)},
		cleanupFuncs: []func(){
			func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := mongo.Close(closeCtx); err != nil {
					slog.Warn("mongo disconnect failed", "error", err)
				}
			},
		},
	}, nil
}

// NewDev runs both services in one process on in-memory stores. The
// event-service still verifies tokens over HTTP against the user-service.
func NewDev(usersCfg *config.Config, eventsCfg *config.Config) (*App, error) {
	if usersCfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		usersCfg.JWTSecret = secret
		slog.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	users, err := userHandler(usersCfg, repository.NewMemoryUserRepository(), memoryHealth{})
	if err != nil {
		return nil, err
	}
	events := eventHandler(eventsCfg, repository.NewMemoryEventRepository(), memoryHealth{})

	return &App{
		servers: []*http.Server{newServer(usersCfg, users), newServer(eventsCfg, events)},
	}, nil
}

func userHandler(cfg *config.Config, users service.UserStore, health pinger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	authService, err := service.NewAuthService(users, tokens, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	return router.NewUserRouter(cfg, middleware.NewAuthMiddleware(authService), router.UserHandlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(authService),
		Health: handler.NewHealthHandler(cfg.ServiceName, health),
	}), nil
}

func eventHandler(cfg *config.Config, events service.EventStore, health pinger) http.Handler {
	verifier := authclient.New(cfg.UserServiceURL, cfg.VerifyTimeout)
	eventService := service.NewEventService(events)

	return router.NewEventRouter(cfg, middleware.NewAuthMiddleware(verifier), router.EventHandlers{
		Event:  handler.NewEventHandler(eventService),
		Health: handler.NewHealthHandler(cfg.ServiceName, health),
	})
}

func newServer(cfg *config.Config, routes http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           routes,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM arrives or a server
// fails, then shuts every server down and releases the stores.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(a.servers))
	for _, srv := range a.servers {
		go func() {
			slog.Info("server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server %s failed: %w", srv.Addr, err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		slog.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range a.servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
		}
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return runErr
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
