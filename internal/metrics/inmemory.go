package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// StoreOpStats aggregates calls for one store operation.
type StoreOpStats struct {
	Count   uint64
	Errors  uint64
	TotalNs int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated       uint64
	UsersUpdated       uint64
	UsersDeleted       uint64
	UserDeletesRefused uint64
	StoreOps           map[string]StoreOpStats
}

// StoreOpNames returns the operation names in the snapshot, sorted.
func (s Snapshot) StoreOpNames() []string {
	names := make([]string, 0, len(s.StoreOps))
	for name := range s.StoreOps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type storeOpCounters struct {
	count   atomic.Uint64
	errors  atomic.Uint64
	totalNs atomic.Int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated       atomic.Uint64
	usersUpdated       atomic.Uint64
	usersDeleted       atomic.Uint64
	userDeletesRefused atomic.Uint64

	storeOps sync.Map // op name -> *storeOpCounters
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	snap := Snapshot{
		UsersCreated:       m.usersCreated.Load(),
		UsersUpdated:       m.usersUpdated.Load(),
		UsersDeleted:       m.usersDeleted.Load(),
		UserDeletesRefused: m.userDeletesRefused.Load(),
		StoreOps:           make(map[string]StoreOpStats),
	}
	m.storeOps.Range(func(key, value any) bool {
		c := value.(*storeOpCounters)
		snap.StoreOps[key.(string)] = StoreOpStats{
			Count:   c.count.Load(),
			Errors:  c.errors.Load(),
			TotalNs: c.totalNs.Load(),
		}
		return true
	})
	return snap
}

// IncUserCreated increments the created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	m.usersCreated.Add(1)
}

// IncUserUpdated increments the updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	m.usersUpdated.Add(1)
}

// IncUserDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	m.usersDeleted.Add(1)
}

// IncUserDeleteRefused counts deletes blocked by the age guard.
func (m *InMemoryRecorder) IncUserDeleteRefused() {
	m.userDeletesRefused.Add(1)
}

// ObserveStoreCall records one store round trip.
func (m *InMemoryRecorder) ObserveStoreCall(op string, duration time.Duration, err error) {
	v, _ := m.storeOps.LoadOrStore(op, &storeOpCounters{})
	c := v.(*storeOpCounters)
	c.count.Add(1)
	c.totalNs.Add(duration.Nanoseconds())
	if err != nil {
		c.errors.Add(1)
	}
}
