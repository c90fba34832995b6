// Package firestoredb stores user records in a Cloud Firestore collection.
// When FIRESTORE_EMULATOR_HOST is set the client talks to the emulator.
package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository"
)

// userDocument is the stored shape of a user.
type userDocument struct {
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Store implements repository.UserStore on a Firestore collection.
type Store struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

// New creates a Firestore client for projectID.
func New(ctx context.Context, projectID, collection string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	if collection == "" {
		collection = repository.DefaultCollection
	}

	s := &Store{
		client:     client,
		collection: client.Collection(collection),
	}

	if err := s.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach Firestore: %w", err)
	}

	return s, nil
}

// Insert adds a document with an auto ID and a server timestamp.
func (s *Store) Insert(ctx context.Context, name, email string) (string, error) {
	ref, _, err := s.collection.Add(ctx, map[string]any{
		model.FieldName:      name,
		model.FieldEmail:     email,
		model.FieldCreatedAt: firestore.ServerTimestamp,
	})
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// FindByName runs an equality query on name capped at limit documents.
func (s *Store) FindByName(ctx context.Context, name string, limit int) ([]*model.User, error) {
	q := s.collection.Where(model.FieldName, "==", name)
	if limit > 0 {
		q = q.Limit(limit)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(snaps))
	for _, snap := range snaps {
		var doc userDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		users = append(users, &model.User{
			ID:        snap.Ref.ID,
			Name:      doc.Name,
			Email:     doc.Email,
			CreatedAt: doc.CreatedAt,
		})
	}
	return users, nil
}

// UpdateFields updates only the supplied paths. Firestore rejects the write
// when the document is gone.
func (s *Store) UpdateFields(ctx context.Context, id string, patch model.UserPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := s.collection.Doc(id).Update(ctx, updates)
	return translate(err)
}

// Delete removes the document, failing when it does not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.collection.Doc(id).Delete(ctx, firestore.Exists)
	return translate(err)
}

// Ping reads at most one document to prove the collection is reachable.
func (s *Store) Ping(ctx context.Context) error {
	iter := s.collection.Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return repository.ErrUserNotFound
	}
	return err
}

var _ repository.UserStore = (*Store)(nil)
