// Package testutil holds helpers shared by store and handler tests.
package testutil

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/model"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// UniqueName returns a name that will not collide with data left by other runs.
func UniqueName(prefix string) string {
	return prefix + "-" + ulid.Make().String()
}

// RunUserStoreContract exercises the behaviour every UserStore backend must share.
// Names are randomized so the suite can run against a shared database.
func RunUserStoreContract(t *testing.T, store repository.UserStore) {
	t.Helper()

	t.Run("insert assigns id and createdAt", func(t *testing.T) {
		ctx := context.Background()
		name := UniqueName("insert")

		before := time.Now().Add(-time.Minute)
		id, err := store.Insert(ctx, name, "m@x.com")
		require.NoError(t, err)
		require.NotEmpty(t, id)
		t.Cleanup(func() { _ = store.Delete(context.Background(), id) })

		found, err := store.FindByName(ctx, name, 1)
		require.NoError(t, err)
		require.Len(t, found, 1)

		got := found[0]
		assert.Equal(t, id, got.ID)
		assert.Equal(t, name, got.Name)
		assert.Equal(t, "m@x.com", got.Email)
		assert.True(t, got.HasCreatedAt(), "createdAt should be set by the store")
		assert.True(t, got.CreatedAt.After(before), "createdAt %v too old", got.CreatedAt)
	})

	t.Run("find missing name returns empty", func(t *testing.T) {
		found, err := store.FindByName(context.Background(), UniqueName("ghost"), 1)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("find respects limit", func(t *testing.T) {
		ctx := context.Background()
		name := UniqueName("dup")

		for i := 0; i < 3; i++ {
			id, err := store.Insert(ctx, name, "d@x.com")
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Delete(context.Background(), id) })
		}

		one, err := store.FindByName(ctx, name, 1)
		require.NoError(t, err)
		assert.Len(t, one, 1)

		two, err := store.FindByName(ctx, name, 2)
		require.NoError(t, err)
		assert.Len(t, two, 2)
	})

	t.Run("update merges supplied fields only", func(t *testing.T) {
		ctx := context.Background()
		name := UniqueName("update")

		id, err := store.Insert(ctx, name, "old@x.com")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Delete(context.Background(), id) })

		before, err := store.FindByName(ctx, name, 1)
		require.NoError(t, err)
		require.Len(t, before, 1)

		email := "new@x.com"
		require.NoError(t, store.UpdateFields(ctx, id, model.UserPatch{Email: &email}))

		after, err := store.FindByName(ctx, name, 1)
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.Equal(t, "new@x.com", after[0].Email)
		assert.Equal(t, name, after[0].Name)
		assert.True(t, before[0].CreatedAt.Equal(after[0].CreatedAt), "createdAt must not change")
	})

	t.Run("update renames", func(t *testing.T) {
		ctx := context.Background()
		name := UniqueName("rename")
		renamed := UniqueName("renamed")

		id, err := store.Insert(ctx, name, "r@x.com")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Delete(context.Background(), id) })

		require.NoError(t, store.UpdateFields(ctx, id, model.UserPatch{Name: &renamed}))

		old, err := store.FindByName(ctx, name, 1)
		require.NoError(t, err)
		assert.Empty(t, old)

		found, err := store.FindByName(ctx, renamed, 1)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, id, found[0].ID)
	})

	t.Run("delete removes record", func(t *testing.T) {
		ctx := context.Background()
		name := UniqueName("delete")

		id, err := store.Insert(ctx, name, "x@x.com")
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id))

		found, err := store.FindByName(ctx, name, 1)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("mutations on missing id report not found", func(t *testing.T) {
		ctx := context.Background()
		name := UniqueName("gone")

		id, err := store.Insert(ctx, name, "g@x.com")
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, id))

		email := "z@x.com"
		err = store.UpdateFields(ctx, id, model.UserPatch{Email: &email})
		assert.True(t, errors.Is(err, repository.ErrUserNotFound), "update: got %v", err)

		err = store.Delete(ctx, id)
		assert.True(t, errors.Is(err, repository.ErrUserNotFound), "delete: got %v", err)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(context.Background()))
	})
}
