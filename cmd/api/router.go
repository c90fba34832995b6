package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/config"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/handler"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/middleware"
)

// routerDeps groups the handlers and optional collaborators the router needs.
// Cache and Verifier are nil when Redis or API_KEY_HASH are not configured.
type routerDeps struct {
	Info     *handler.Handler
	Health   *handler.HealthHandler
	Users    *handler.UserHandler
	Metrics  *handler.MetricsHandler
	Cache    middleware.IPRateLimiter
	Verifier middleware.KeyVerifier
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{HSTS: cfg.IsProduction()}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	r.Get("/metrics", d.Metrics.Metrics)
	r.Get("/", d.Info.Info)

	rateLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: d.Cache,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	})
	requireKey := middleware.RequireAPIKey(middleware.AuthConfig{
		Logger:      logger,
		Verifier:    d.Verifier,
		MinDuration: cfg.AuthMinDuration,
	})

	// The user routes accept every verb; each handler answers 405 itself.
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

		r.HandleFunc("/getUser", d.Users.Get)
		r.With(requireKey).HandleFunc("/createUser", d.Users.Create)
		r.With(requireKey).HandleFunc("/updateUser", d.Users.Update)
		r.With(requireKey).HandleFunc("/deleteUser", d.Users.Delete)
	})

	r.NotFound(d.Info.NotFound)
	r.MethodNotAllowed(d.Info.MethodNotAllowed)

	return r
}
