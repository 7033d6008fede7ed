package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"vcpulse/internal/config"
	"vcpulse/internal/dataset"
	apierrors "vcpulse/internal/errors"
	"vcpulse/internal/infrastructure"
	"vcpulse/internal/middleware"
	"vcpulse/internal/services"
	transporthttp "vcpulse/internal/transport/http"
	"vcpulse/pkg/contracts"
)

// Application wires every component of the dashboard service together
// and owns the HTTP server lifecycle.
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *infrastructure.Metrics

	loader           *dataset.Loader
	dashboardService *services.DashboardService
	healthService    *services.HealthService

	router *chi.Mux
	server *http.Server
}

// NewApplication builds the application from configuration. The dataset
// is loaded eagerly so a broken source file fails the process at startup
// instead of on the first request.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &Application{
		config:  cfg,
		logger:  logger,
		metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (app *Application) initializeServices() error {
	datasetPath := app.config.GetDatasetPath()
	app.loader = dataset.NewLoader(datasetPath, app.logger)

	// Startup runs outside the request middleware, so tag its logs here
	ctx := infrastructure.EnsureTraceID(context.Background())
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	table, err := app.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", datasetPath, err)
	}
	app.metrics.DatasetRows.Set(float64(len(table.Records)))

	app.logger.Info("dataset loaded",
		slog.String("path", datasetPath),
		slog.Int("records", len(table.Records)),
	)

	app.dashboardService = services.NewDashboardService(app.loader, app.logger, app.metrics)
	app.healthService = services.NewHealthService(app.loader, app.logger)

	return nil
}

func (app *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.HTTPMetrics(app.metrics))
	r.Use(middleware.StructuredLogger(app.logger))
	r.Use(middleware.Recoverer(app.logger))
	r.Use(middleware.SecurityHeaders)

	if app.config.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: app.config.Security.AllowedOrigins,
			Logger:         app.logger,
		}))
	}

	if app.config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			app.config.Security.RateLimit.RPS,
			app.config.Security.RateLimit.Burst,
			app.logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(app.logger)
	dashboardHandler := transporthttp.NewDashboardHandler(app.dashboardService, app.logger, errorHandler)
	healthHandler := transporthttp.NewHealthHandler(app.healthService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30*time.Second, app.logger))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.GetVersion)
	})

	r.Handle("/metrics", app.metrics.Handler())

	app.router = r
}

func (app *Application) createServer() {
	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:      app.router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}
}

// Run starts the server and blocks until shutdown is requested via
// SIGINT or SIGTERM.
func (app *Application) Run() error {
	serverErrors := make(chan error, 1)

	go func() {
		app.logger.Info("starting server",
			slog.String("version", contracts.GetVersionString()),
			slog.String("addr", app.server.Addr),
		)
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		return app.Stop()
	}

	return nil
}

// Stop gracefully shuts down the HTTP server
func (app *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		if closeErr := app.server.Close(); closeErr != nil {
			return fmt.Errorf("failed to stop server: %w", closeErr)
		}
	}

	infrastructure.CloseLogFile()
	app.logger.Info("server stopped")
	return nil
}

// Router exposes the configured router, primarily for tests
func (app *Application) Router() http.Handler {
	return app.router
}
