package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/cache"
)

var fakeResetAt = time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC)

// fakeLimiter allows the first `allow` calls per IP.
type fakeLimiter struct {
	mu    sync.Mutex
	allow int
	seen  map[string]int
	err   error
}

func (f *fakeLimiter) CheckIPRateLimit(ctx context.Context, ip string, rps, burst int) (*cache.RateLimitResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]int)
	}
	f.seen[ip]++
	n := f.seen[ip]
	if n > f.allow {
		return &cache.RateLimitResult{Allowed: false, Limit: burst, RetryAfter: 2 * time.Second, ResetAt: fakeResetAt}, nil
	}
	return &cache.RateLimitResult{Allowed: true, Limit: burst, Remaining: int64(f.allow - n), ResetAt: fakeResetAt}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitIP_BlocksAfterBurst(t *testing.T) {
	t.Parallel()

	limiter := &fakeLimiter{allow: 2}
	handler := RateLimitIP(RateLimitConfig{
		Logger:  discardLogger(),
		Limiter: limiter,
		Enabled: true,
		RPS:     1,
		Burst:   2,
	})(okHandler())

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/getUser", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d: status = %d, want %d", i, codes[i], want[i])
		}
	}
	if got := last.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	if got, want := last.Header().Get("X-RateLimit-Reset"), "1714564801"; got != want {
		t.Errorf("X-RateLimit-Reset = %q, want %s", got, want)
	}
	if got := limiter.seen["10.0.0.1"]; got != 3 {
		t.Errorf("limiter saw %d calls for 10.0.0.1, want 3", got)
	}
}

func TestRateLimitIP_FailsOpen(t *testing.T) {
	t.Parallel()

	handler := RateLimitIP(RateLimitConfig{
		Logger:  discardLogger(),
		Limiter: &fakeLimiter{err: errors.New("redis: connection refused")},
		Enabled: true,
		RPS:     1,
		Burst:   1,
	})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/getUser", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when limiter fails", rec.Code)
	}
}

func TestRateLimitIP_Disabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  RateLimitConfig
	}{
		{"nil limiter", RateLimitConfig{Enabled: true, RPS: 1, Burst: 0}},
		{"flag off", RateLimitConfig{Limiter: &fakeLimiter{allow: 0}, Enabled: false}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RateLimitIP(tt.cfg)(okHandler())
			for i := 0; i < 5; i++ {
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/getUser", nil))
				if rec.Code != http.StatusOK {
					t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
				}
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr strips port", "192.168.1.9:1234", "", "", "192.168.1.9"},
		{"ipv6 remote addr", "[::1]:8080", "", "", "::1"},
		{"remote addr without port", "192.168.1.9", "", "", "192.168.1.9"},
		{"x-forwarded-for first hop", "10.0.0.1:1", "203.0.113.5, 10.0.0.2", "", "203.0.113.5"},
		{"x-real-ip", "10.0.0.1:1", "", "198.51.100.7", "198.51.100.7"},
		{"xff beats x-real-ip", "10.0.0.1:1", "203.0.113.5", "198.51.100.7", "203.0.113.5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
