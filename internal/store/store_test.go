package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.Append(ctx, "alpha")
	require.NoError(t, err)
	require.NotNil(t, a)

	b, err := s.Append(ctx, "beta")
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Greater(t, b.ID, a.ID)
	assert.Equal(t, "alpha", a.Text)
	assert.False(t, a.CapturedAt.IsZero())
	assert.Equal(t, time.UTC, a.CapturedAt.Location())
}

func TestAppendEmptyIsNoOp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t "} {
		it, err := s.Append(ctx, text)
		require.NoError(t, err)
		assert.Nil(t, it)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAppendSuppressesConsecutiveDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Append(ctx, "same")
	require.NoError(t, err)
	require.NotNil(t, first)

	dup, err := s.Append(ctx, "same")
	require.NoError(t, err)
	assert.Nil(t, dup)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAppendAllowsNonConsecutiveDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "a"} {
		it, err := s.Append(ctx, text)
		require.NoError(t, err)
		require.NotNil(t, it)
	}

	items, err := s.FetchAll(ctx, Oldest)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Text)
	assert.Equal(t, "b", items[1].Text)
	assert.Equal(t, "a", items[2].Text)
}

func TestFetchAllOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.Append(ctx, text)
		require.NoError(t, err)
	}

	newest, err := s.FetchAll(ctx, Newest)
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, "three", newest[0].Text)
	assert.Equal(t, "one", newest[2].Text)

	oldest, err := s.FetchAll(ctx, Oldest)
	require.NoError(t, err)
	assert.Equal(t, "one", oldest[0].Text)
	assert.Equal(t, "three", oldest[2].Text)
}

func TestFetchByID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Append(ctx, "lookup me")
	require.NoError(t, err)

	got, err := s.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "lookup me", got.Text)
	assert.Equal(t, created.ID, got.ID)
}

func TestFetchByIDNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.FetchByID(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchRecentLimitAndSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"red apple", "green pear", "red wine"} {
		_, err := s.Append(ctx, text)
		require.NoError(t, err)
	}

	limited, err := s.FetchRecent(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "red wine", limited[0].Text)

	matched, err := s.FetchRecent(ctx, 10, "red")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "red wine", matched[0].Text)
	assert.Equal(t, "red apple", matched[1].Text)
}

func TestDeleteAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	lastBefore, err := s.Append(ctx, "gone soon")
	require.NoError(t, err)
	_, err = s.Append(ctx, "also gone")
	require.NoError(t, err)

	n, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	items, err := s.FetchAll(ctx, Newest)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Ids continue past the deleted range, never reused.
	after, err := s.Append(ctx, "fresh start")
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Greater(t, after.ID, lastBefore.ID)

	got, err := s.FetchByID(ctx, after.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh start", got.Text)
}

func TestConcurrentAppends(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	ids := make(chan int64, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			it, err := s.Append(ctx, string(rune('a'+n))+"-payload")
			assert.NoError(t, err)
			if it != nil {
				ids <- it.ID
			}
		}(i)
	}

	// Readers running alongside the writers must never see a broken row.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			_, err := s.FetchAll(ctx, Newest)
			assert.NoError(t, err)
		}
	}()

	wg.Wait()
	<-done
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, writers)
}

func TestLocalDateDerivedFromCapturedAt(t *testing.T) {
	it := ClipItem{CapturedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	parsed, err := time.Parse("2006-01-02", it.LocalDate())
	require.NoError(t, err)
	diff := parsed.Sub(it.CapturedAt)
	assert.Less(t, diff.Abs(), 48*time.Hour)
}
