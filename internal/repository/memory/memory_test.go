package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/testutil"
)

func TestStore_Contract(t *testing.T) {
	testutil.RunUserStoreContract(t, New())
}

func TestStore_FirstMatchIsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	first, err := s.Insert(ctx, "Minsu", "a@x.com")
	require.NoError(t, err)
	_, err = s.Insert(ctx, "Minsu", "b@x.com")
	require.NoError(t, err)

	found, err := s.FindByName(ctx, "Minsu", 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first, found[0].ID)
	assert.Equal(t, "a@x.com", found[0].Email)
}

func TestStore_UsesClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New(WithClock(func() time.Time { return fixed }))

	_, err := s.Insert(context.Background(), "Minsu", "m@x.com")
	require.NoError(t, err)

	found, err := s.FindByName(context.Background(), "Minsu", 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].CreatedAt.Equal(fixed))
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()
	_, err := s.Insert(ctx, "Minsu", "m@x.com")
	require.NoError(t, err)

	found, err := s.FindByName(ctx, "Minsu", 1)
	require.NoError(t, err)
	found[0].Email = "mutated@x.com"

	again, err := s.FindByName(ctx, "Minsu", 1)
	require.NoError(t, err)
	assert.Equal(t, "m@x.com", again[0].Email)
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Insert(ctx, "Minsu", "m@x.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentInserts(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Insert(context.Background(), "Minsu", "m@x.com")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	found, err := s.FindByName(context.Background(), "Minsu", 0)
	require.NoError(t, err)
	assert.Len(t, found, 50)
}
