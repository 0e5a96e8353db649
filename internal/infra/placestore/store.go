package placestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/outfitcast/internal/domain/outfit"
)

// Store persists resolved place names keyed by a coarse coordinate cell.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, name string, ttl time.Duration) error
}

// CachedResolver serves place names from a Store and falls through to the
// wrapped resolver on a miss. Cache failures never fail the lookup.
type CachedResolver struct {
	next   outfit.PlaceResolver
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedResolver decorates next with a cache.
func NewCachedResolver(next outfit.PlaceResolver, store Store, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "placestore"),
	}
}

// Resolve implements outfit.PlaceResolver.
func (r *CachedResolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	key := CellKey(lat, lon)
	name, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("place cache read failed", "key", key, "error", err)
	}
	if ok {
		return name, nil
	}

	name, err = r.next.Resolve(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}
	if err := r.store.Save(ctx, key, name, r.ttl); err != nil {
		r.logger.Warn("place cache write failed", "key", key, "error", err)
	}
	return name, nil
}

// CellKey rounds coordinates to two decimals (roughly 1 km), so nearby
// requests share one cache entry.
func CellKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

var _ outfit.PlaceResolver = (*CachedResolver)(nil)
