// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User lifecycle
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()
	IncUserDeleteRefused()

	// Store round trips, labeled by operation (insert, find, update, delete).
	ObserveStoreCall(op string, duration time.Duration, err error)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
