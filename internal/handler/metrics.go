package handler

import (
	"fmt"
	"net/http"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "users_deleted_total %d\n", snap.UsersDeleted)
	writeMetric(w, "users_delete_refused_total %d\n", snap.UserDeletesRefused)

	for _, op := range snap.StoreOpNames() {
		stats := snap.StoreOps[op]
		writeMetric(w, "store_calls_total{op=%q} %d\n", op, stats.Count)
		writeMetric(w, "store_errors_total{op=%q} %d\n", op, stats.Errors)
		writeMetric(w, "store_call_duration_seconds_sum{op=%q} %.6f\n", op, float64(stats.TotalNs)/1e9)
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
