// Package mongodb stores user records in a MongoDB collection.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository"
)

// userDocument is the stored shape of a user.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
	}
}

// Store implements repository.UserStore on a mongo.Collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewClient connects to MongoDB and verifies the connection.
func NewClient(ctx context.Context, url string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(url).
		SetMaxPoolSize(100).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// New connects and returns a Store over database.collection.
func New(ctx context.Context, url, database, collection string) (*Store, error) {
	client, err := NewClient(ctx, url)
	if err != nil {
		return nil, err
	}

	if collection == "" {
		collection = repository.DefaultCollection
	}

	s := &Store{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

// EnsureIndexes creates the non-unique name index used by lookups.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: model.FieldName, Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create name index: %w", err)
	}
	return nil
}

// Insert upserts a fresh ObjectID so that createdAt can be stamped by the
// server with $currentDate.
func (s *Store) Insert(ctx context.Context, name, email string) (string, error) {
	id := primitive.NewObjectID()

	update := bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: model.FieldName, Value: name},
			{Key: model.FieldEmail, Value: email},
		}},
		{Key: "$currentDate", Value: bson.D{
			{Key: model.FieldCreatedAt, Value: true},
		}},
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", err
	}

	return id.Hex(), nil
}

// FindByName returns up to limit documents matching name in _id order.
func (s *Store) FindByName(ctx context.Context, name string, limit int) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, bson.D{{Key: model.FieldName, Value: name}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

// UpdateFields applies a $set of the supplied fields.
func (s *Store) UpdateFields(ctx context.Context, id string, patch model.UserPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrUserNotFound
	}

	set := bson.M{}
	for k, v := range patch.Fields() {
		set[k] = v
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.collection.UpdateByID(ctx, oid, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Delete removes the document with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrUserNotFound
	}

	res, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Ping checks connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ repository.UserStore = (*Store)(nil)
