package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserCreated()       {}
func (n *NoopRecorder) IncUserUpdated()       {}
func (n *NoopRecorder) IncUserDeleted()       {}
func (n *NoopRecorder) IncUserDeleteRefused() {}

func (n *NoopRecorder) ObserveStoreCall(op string, duration time.Duration, err error) {}
