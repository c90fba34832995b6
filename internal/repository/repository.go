// Package repository defines the document store contract for user records.
// Backends live in subpackages (firestoredb, mongodb, postgres, memory).
package repository

import (
	"context"
	"errors"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
)

// DefaultCollection is the collection (or table) holding user records.
const DefaultCollection = "users"

// Common errors for user store operations.
var (
	// ErrUserNotFound is returned when a referenced record no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is a document collection of users.
//
// Insert assigns the ID and the server-side createdAt. FindByName is an
// equality filter on name capped at limit results, in insertion order where
// the backend allows it. UpdateFields merges only the supplied fields.
type UserStore interface {
	Insert(ctx context.Context, name, email string) (string, error)
	FindByName(ctx context.Context, name string, limit int) ([]*model.User, error)
	UpdateFields(ctx context.Context, id string, patch model.UserPatch) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
