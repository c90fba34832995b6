// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/metrics"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/validate"
)

// Service errors.
var (
	ErrMissingFields      = errors.New("missing name or email")
	ErrKoreanName         = errors.New("name contains korean characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrMissingName        = errors.New("missing user name")
	ErrMissingUpdate      = errors.New("missing user name or update data")
	ErrInvalidUpdateEmail = errors.New("invalid email format: missing @")
	ErrInvalidName        = errors.New("invalid name")
	ErrUserNotFound       = errors.New("user not found")
	ErrDeleteTooSoon      = errors.New("user cannot be deleted within 1 minute of creation")
)

// Store operation labels for metrics.
const (
	opInsert = "insert"
	opFind   = "find"
	opUpdate = "update"
	opDelete = "delete"
)

// UserService handles user business logic.
type UserService struct {
	store   repository.UserStore
	metrics metrics.Recorder
	now     func() time.Time
}

// Option configures a UserService.
type Option func(*UserService)

// WithClock overrides the clock used by the deletion age guard.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) {
		s.now = now
	}
}

// NewUserService creates a new UserService.
func NewUserService(store repository.UserStore, recorder metrics.Recorder, opts ...Option) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	s := &UserService{
		store:   store,
		metrics: recorder,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string `validate:"required,hangulfree"`
	Email string `validate:"required,emailshape"`
}

// CreateUser validates input and inserts a new record, returning its ID.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (string, error) {
	if err := validate.Struct(input); err != nil {
		errs := validate.FieldErrors(err)
		switch {
		case errs == nil:
			return "", err
		case validate.HasTag(errs, "required"):
			return "", ErrMissingFields
		case validate.HasTag(errs, validate.TagHangulFree):
			return "", ErrKoreanName
		default:
			return "", ErrInvalidEmail
		}
	}

	start := time.Now()
	id, err := s.store.Insert(ctx, input.Name, input.Email)
	s.metrics.ObserveStoreCall(opInsert, time.Since(start), err)
	if err != nil {
		return "", err
	}

	s.metrics.IncUserCreated()
	return id, nil
}

// GetUser returns the first record whose name equals name.
func (s *UserService) GetUser(ctx context.Context, name string) (*model.User, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	return s.findFirst(ctx, name)
}

// UpdateUserInput defines input for updating a user.
type UpdateUserInput struct {
	Name  string
	Patch model.UserPatch
}

// UpdateUser merges the supplied fields into the first record named input.Name.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) error {
	if input.Name == "" || input.Patch.IsEmpty() {
		return ErrMissingUpdate
	}

	if err := validate.Struct(input.Patch); err != nil {
		errs := validate.FieldErrors(err)
		switch {
		case errs == nil:
			return err
		case validate.HasField(errs, "Email"):
			return ErrInvalidUpdateEmail
		default:
			return ErrInvalidName
		}
	}

	user, err := s.findFirst(ctx, input.Name)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.store.UpdateFields(ctx, user.ID, input.Patch)
	s.metrics.ObserveStoreCall(opUpdate, time.Since(start), err)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.metrics.IncUserUpdated()
	return nil
}

// DeleteUser removes the first record named name once it is at least a minute old.
func (s *UserService) DeleteUser(ctx context.Context, name string) error {
	if name == "" {
		return ErrMissingName
	}

	user, err := s.findFirst(ctx, name)
	if err != nil {
		return err
	}

	if !validate.IsAtLeastOneMinuteOld(user.CreatedAt, s.now()) {
		s.metrics.IncUserDeleteRefused()
		return ErrDeleteTooSoon
	}

	start := time.Now()
	err = s.store.Delete(ctx, user.ID)
	s.metrics.ObserveStoreCall(opDelete, time.Since(start), err)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.metrics.IncUserDeleted()
	return nil
}

// findFirst looks up by name with a limit of one. Duplicates are possible
// since names are not unique in the store; the first match wins.
func (s *UserService) findFirst(ctx context.Context, name string) (*model.User, error) {
	start := time.Now()
	users, err := s.store.FindByName(ctx, name, 1)
	s.metrics.ObserveStoreCall(opFind, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}
