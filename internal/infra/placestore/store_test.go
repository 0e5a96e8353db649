package placestore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCachedResolverServesRepeatLookupsFromCache(t *testing.T) {
	next := &countingResolver{name: "Seoul Jung-gu"}
	resolver := NewCachedResolver(next, NewMemoryStore(), time.Hour, discardLogger())

	for i := 0; i < 3; i++ {
		name, err := resolver.Resolve(context.Background(), 37.5665, 126.978)
		require.NoError(t, err)
		require.Equal(t, "Seoul Jung-gu", name)
	}
	require.Equal(t, 1, next.calls)

	_, err := resolver.Resolve(context.Background(), 37.5712, 126.978)
	require.NoError(t, err)
	require.Equal(t, 1, next.calls)
}

func TestCachedResolverDoesNotCacheFailuresOrBlanks(t *testing.T) {
	next := &countingResolver{err: errors.New("boom")}
	store := NewMemoryStore()
	resolver := NewCachedResolver(next, store, time.Hour, discardLogger())

	_, err := resolver.Resolve(context.Background(), 1, 1)
	require.Error(t, err)

	next.err = nil
	name, err := resolver.Resolve(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Empty(t, name)

	_, ok, _ := store.Get(context.Background(), CellKey(1, 1))
	require.False(t, ok)
	require.Equal(t, 2, next.calls)
}

func TestCachedResolverToleratesBrokenStore(t *testing.T) {
	next := &countingResolver{name: "Busan"}
	resolver := NewCachedResolver(next, brokenStore{}, time.Hour, discardLogger())

	name, err := resolver.Resolve(context.Background(), 35.18, 129.08)
	require.NoError(t, err)
	require.Equal(t, "Busan", name)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", "Seoul", time.Millisecond))
	require.NoError(t, store.Save(ctx, "b", "Busan", 0))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	name, ok, err := store.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Busan", name)
}

func TestCellKey(t *testing.T) {
	require.Equal(t, "37.57,126.98", CellKey(37.5665, 126.978))
	require.Equal(t, "-33.87,151.21", CellKey(-33.8688, 151.2093))
}

type countingResolver struct {
	name  string
	err   error
	calls int
}

func (r *countingResolver) Resolve(context.Context, float64, float64) (string, error) {
	r.calls++
	return r.name, r.err
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (brokenStore) Save(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
