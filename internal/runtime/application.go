// Package runtime wires the application dependencies and manages the HTTP
// server lifecycle.
package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pretty-picked/boutique-api/internal/auth"
	"github.com/pretty-picked/boutique-api/internal/config"
	"github.com/pretty-picked/boutique-api/internal/httpapi"
	"github.com/pretty-picked/boutique-api/internal/httpserver"
	"github.com/pretty-picked/boutique-api/internal/metrics"
	"github.com/pretty-picked/boutique-api/internal/middleware"
	adminsvc "github.com/pretty-picked/boutique-api/internal/services/admin"
	categoriessvc "github.com/pretty-picked/boutique-api/internal/services/categories"
	orderssvc "github.com/pretty-picked/boutique-api/internal/services/orders"
	productssvc "github.com/pretty-picked/boutique-api/internal/services/products"
	"github.com/pretty-picked/boutique-api/internal/storage/postgres"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

// Application holds the wired components of the boutique API.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	store      *postgres.Store
	httpServer *httpserver.Server
	stopClean  chan struct{}
}

// NewApplication constructs the application with default wiring: config from
// the environment, a PostgreSQL store with migrations applied, and the HTTP
// stack with CORS, rate limiting, logging and metrics around the router.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	store, err := postgres.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	adminSvc := adminsvc.New(store, tokens, log.WithField("service", "admin"))
	categorySvc := categoriessvc.New(store, store, log.WithField("service", "categories"))
	productSvc := productssvc.New(store, store, log.WithField("service", "products"))
	orderSvc := orderssvc.New(store, log.WithField("service", "orders"))

	m := metrics.New()
	gate := middleware.NewAuthMiddleware(tokens, log)

	router := httpapi.NewRouter(httpapi.Config{
		Admin:      adminSvc,
		Categories: categorySvc,
		Products:   productSvc,
		Orders:     orderSvc,
		Gate:       gate,
		StoreReady: store.Health().Ready,
		Metrics:    m.Handler(),
	})
	router.Use(middleware.LoggingMiddleware(log), middleware.MetricsMiddleware(m))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, log)
	stopClean := make(chan struct{})
	limiter.StartCleanup(cfg.RateLimit.Window, stopClean)

	cors := middleware.NewCORSMiddleware(cfg.AllowedOrigins())

	var handler http.Handler = router
	handler = limiter.Handler(handler)
	handler = cors.Handler(handler)

	srv := httpserver.New(cfg.Server, handler, log)

	return &Application{
		cfg:        cfg,
		log:        log,
		store:      store,
		httpServer: srv,
		stopClean:  stopClean,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := a.httpServer.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown drains the HTTP server and releases resources.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	close(a.stopClean)

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("error closing database connection")
	}
	return nil
}
