// Package main is the entrypoint for the Gestix API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestix/gestix/internal/cache"
	"github.com/gestix/gestix/internal/config"
	"github.com/gestix/gestix/internal/handler"
	"github.com/gestix/gestix/internal/metrics"
	"github.com/gestix/gestix/internal/middleware"
	"github.com/gestix/gestix/internal/model"
	"github.com/gestix/gestix/internal/repository"
	"github.com/gestix/gestix/internal/server"
	"github.com/gestix/gestix/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize session store
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Metrics and services
	recorder := metrics.NewInMemory()
	dashboardService := service.NewDashboardService(repo, recorder)
	reportsService := service.NewReportsService(repo)

	// Setup router
	r := setupRouter(repo, cacheClient, dashboardService, reportsService, recorder, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	repo *repository.Repository,
	cacheClient *cache.Cache,
	dashboardService *service.DashboardService,
	reportsService *service.ReportsService,
	recorder *metrics.InMemoryRecorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Base handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)

	// Health and info endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metricz", metricsHandler.Metrics)
	r.Get("/", h.Root)

	// Auth handlers
	authHandler := handler.NewAuthHandler(repo.Users, cacheClient, cfg.SessionTTL, logger, recorder)

	sessionCfg := middleware.SessionConfig{
		Logger:   logger,
		Sessions: cacheClient,
	}
	loginLimitCfg := middleware.LoginRateLimitConfig{
		Logger:        logger,
		Limiter:       cacheClient,
		Enabled:       cfg.LoginRateLimitEnabled,
		RatePerMinute: cfg.LoginRatePerMinute,
		Burst:         cfg.LoginRateBurst,
	}

	// Entity handlers: one generic CRUD handler per business screen
	customerHandler := handler.NewCRUDHandler("customer", repo.Customers,
		func() *model.Customer { return &model.Customer{} }, nil, logger, recorder)
	productHandler := handler.NewCRUDHandler("product", repo.Products,
		func() *model.Product { return &model.Product{} }, nil, logger, recorder)
	quoteHandler := handler.NewCRUDHandler("quote", repo.Quotes,
		func() *model.Quote { return &model.Quote{} }, nil, logger, recorder)
	orderHandler := handler.NewCRUDHandler("service_order", repo.Orders,
		func() *model.ServiceOrder { return &model.ServiceOrder{} }, handler.OrderTransitionCheck, logger, recorder)

	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	historyHandler := handler.NewHistoryHandler(repo.Orders, logger)
	reportsHandler := handler.NewReportsHandler(reportsService, logger)
	settingsHandler := handler.NewSettingsHandler(repo.Profiles, logger)
	routesHandler := handler.NewRoutesHandler(model.NavRoutes())

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.With(middleware.LoginRateLimit(loginLimitCfg)).Post("/login", authHandler.Login)

			// Session-bound endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.Session(sessionCfg))
				r.Post("/logout", authHandler.Logout)
				r.Post("/refresh", authHandler.Refresh)
				r.Get("/me", authHandler.Me)
			})
		})

		// Everything below is guarded
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessionCfg))

			r.Get("/routes", routesHandler.List)
			r.Get("/dashboard/stats", dashboardHandler.Stats)
			r.Get("/history", historyHandler.List)
			r.Get("/reports/summary", reportsHandler.Summary)
			r.Get("/settings/profile", settingsHandler.Get)
			r.Put("/settings/profile", settingsHandler.Put)

			r.Route("/customers", customerHandler.Mount)
			r.Route("/products", productHandler.Mount)
			r.Route("/quotes", quoteHandler.Mount)
			r.Route("/service-orders", orderHandler.Mount)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
