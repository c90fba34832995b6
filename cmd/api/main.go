// Package main is the entrypoint for the user service API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/auth"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/cache"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/config"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/handler"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/metrics"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository/firestoredb"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository/memory"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository/mongodb"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository/postgres"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/server"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/service"
)

// connectTimeout bounds each backend dial at startup.
const connectTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	store, err := newUserStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open user store",
			slog.String("backend", cfg.StoreBackend),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL, cfg.MongoDBURL)),
			slog.String("url", redactURL(storeURL(cfg))),
		)
		os.Exit(1)
	}
	logger.Info("connected to user store",
		"backend", cfg.StoreBackend,
		"collection", cfg.UsersCollection,
	)

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		cacheClient, err = cache.New(dialCtx, cfg.RedisURL, cfg.RedisKeyPrefix)
		cancel()
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			_ = store.Close()
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	} else {
		logger.Info("REDIS_URL not set, rate limiting disabled")
	}

	var verifier *auth.Verifier
	if cfg.APIKeyHash != "" {
		verifier, err = auth.NewVerifier(cfg.APIKeyHash)
		if err != nil {
			logger.Error("invalid API_KEY_HASH", "error", err)
			os.Exit(1)
		}
		logger.Info("API key required on mutating routes")
	}

	metricsRecorder := metrics.NewInMemory()
	userService := service.NewUserService(store, metricsRecorder)

	deps := routerDeps{
		Info:    handler.New(cfg.StoreBackend),
		Health:  handler.NewHealthHandler(store, nil),
		Users:   handler.NewUserHandler(userService, logger),
		Metrics: handler.NewMetricsHandler(metricsRecorder),
	}
	// Only assign non-nil pointers so the interfaces stay nil when unset.
	if cacheClient != nil {
		deps.Health = handler.NewHealthHandler(store, cacheClient)
		deps.Cache = cacheClient
	}
	if verifier != nil {
		deps.Verifier = verifier
	}

	r := setupRouter(deps, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("user store", func(ctx context.Context) error {
		return store.Close()
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"backend", cfg.StoreBackend,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newUserStore opens the configured backend.
func newUserStore(ctx context.Context, cfg *config.Config) (repository.UserStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreBackend {
	case config.BackendFirestore:
		return firestoredb.New(ctx, cfg.FirestoreProjectID, cfg.UsersCollection)
	case config.BackendMongoDB:
		return mongodb.New(ctx, cfg.MongoDBURL, cfg.MongoDBDatabase, cfg.UsersCollection)
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.DatabaseURL, cfg.UsersCollection)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func storeURL(cfg *config.Config) string {
	switch cfg.StoreBackend {
	case config.BackendMongoDB:
		return cfg.MongoDBURL
	case config.BackendPostgres:
		return cfg.DatabaseURL
	default:
		return ""
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "user-service")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL.
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

// sanitizeError replaces any secret URL embedded in err with its redacted form.
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
