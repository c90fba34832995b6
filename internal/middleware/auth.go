package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// KeyVerifier is satisfied by *auth.Verifier.
type KeyVerifier interface {
	Verify(key string) bool
}

// AuthConfig holds configuration for the API key middleware.
type AuthConfig struct {
	Logger *slog.Logger
	// Verifier is nil when API_KEY_HASH is unset, which leaves routes open.
	Verifier KeyVerifier
	// MinDuration pads every check so failures and successes take equally long.
	MinDuration time.Duration
}

// RequireAPIKey rejects requests without a key matching the configured hash.
func RequireAPIKey(cfg AuthConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if cfg.Verifier == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ok := false
			reason := "missing_key"

			if key := extractAPIKey(r); key != "" {
				ok = cfg.Verifier.Verify(key)
				reason = "invalid_key"
			}

			if elapsed := time.Since(start); elapsed < cfg.MinDuration {
				time.Sleep(cfg.MinDuration - elapsed)
			}

			if !ok {
				logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey reads "Authorization: Bearer <key>" or "X-API-Key: <key>".
func extractAPIKey(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if key, found := strings.CutPrefix(authHeader, "Bearer "); found {
			return strings.TrimSpace(key)
		}
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
