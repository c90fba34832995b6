// Package postgres stores user records in a PostgreSQL table.
package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository"
)

// columns maps document field names to table columns.
var columns = map[string]string{
	model.FieldName:  "name",
	model.FieldEmail: "email",
}

// Store provides user access over a pgx connection pool.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// New connects to databaseURL and ensures the collection table exists.
func New(ctx context.Context, databaseURL, collection string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if collection == "" {
		collection = repository.DefaultCollection
	}

	s := &Store{pool: pool, table: collection}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// EnsureSchema creates the table and the name lookup index if missing.
// The name index is deliberately not unique.
func (s *Store) EnsureSchema(ctx context.Context) error {
	table := pq.QuoteIdentifier(s.table)
	index := pq.QuoteIdentifier(s.table + "_name_idx")

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %s ON %s (name, created_at);
	`, table, index, table)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Insert adds a row; created_at comes from the database clock.
func (s *Store) Insert(ctx context.Context, name, email string) (string, error) {
	id := ulid.Make().String()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email)
		VALUES ($1, $2, $3)
	`, pq.QuoteIdentifier(s.table))

	if _, err := s.pool.Exec(ctx, query, id, name, email); err != nil {
		return "", err
	}
	return id, nil
}

// FindByName returns up to limit rows matching name, oldest first.
func (s *Store) FindByName(ctx context.Context, name string, limit int) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, created_at
		FROM %s
		WHERE name = $1
		ORDER BY created_at, id
	`, pq.QuoteIdentifier(s.table))

	args := []any{name}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateFields sets only the columns present in patch.
func (s *Store) UpdateFields(ctx context.Context, id string, patch model.UserPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(columns[k]), i+1))
		args = append(args, fields[k])
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		pq.QuoteIdentifier(s.table), strings.Join(sets, ", "), len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Delete removes the row with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pq.QuoteIdentifier(s.table))

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ repository.UserStore = (*Store)(nil)
