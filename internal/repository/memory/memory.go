// Package memory implements an in-process user store for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository"
)

// Store keeps users in insertion order behind a RWMutex.
type Store struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]*model.User
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		docs: make(map[string]*model.User),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert adds a record stamped with the store clock.
func (s *Store) Insert(ctx context.Context, name, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := ulid.Make().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[id] = &model.User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: s.now().UTC(),
	}
	s.order = append(s.order, id)

	return id, nil
}

// FindByName returns up to limit records whose name equals name, oldest first.
func (s *Store) FindByName(ctx context.Context, name string, limit int) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.User
	for _, id := range s.order {
		if limit > 0 && len(out) >= limit {
			break
		}
		doc := s.docs[id]
		if doc.Name == name {
			u := *doc
			out = append(out, &u)
		}
	}
	return out, nil
}

// UpdateFields merges patch into the record with the given id.
func (s *Store) UpdateFields(ctx context.Context, id string, patch model.UserPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	patch.Apply(doc)
	return nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.docs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

var _ repository.UserStore = (*Store)(nil)
