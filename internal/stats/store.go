package stats

import (
	"context"
	"errors"
	"time"

	"github.com/sumodev/careboard/internal/cache"
)

// Store reads and writes the statistics snapshots in the cache. Reads
// treat a miss, an expired entry or a disabled cache the same way: the
// snapshot is unavailable and nil is returned without error.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a new snapshot store
func NewStore(c *cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// Activity returns the cached activity snapshot, or nil when absent.
func (s *Store) Activity(ctx context.Context) (*ActivitySnapshot, error) {
	var snapshot ActivitySnapshot
	if err := s.cache.GetJSON(ctx, ActivityKey, &snapshot); err != nil {
		if errors.Is(err, cache.ErrMiss) || errors.Is(err, cache.ErrCacheDisabled) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// Contributors returns the cached contributor snapshot, or nil when
// absent.
func (s *Store) Contributors(ctx context.Context) (*ContributorSnapshot, error) {
	var snapshot ContributorSnapshot
	if err := s.cache.GetJSON(ctx, ContributorsKey, &snapshot); err != nil {
		if errors.Is(err, cache.ErrMiss) || errors.Is(err, cache.ErrCacheDisabled) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// SetActivity stores a fresh activity snapshot.
func (s *Store) SetActivity(ctx context.Context, snapshot *ActivitySnapshot) error {
	return s.cache.SetJSON(ctx, ActivityKey, snapshot, s.ttl)
}

// SetContributors stores a fresh contributor snapshot.
func (s *Store) SetContributors(ctx context.Context, snapshot *ContributorSnapshot) error {
	return s.cache.SetJSON(ctx, ContributorsKey, snapshot, s.ttl)
}
