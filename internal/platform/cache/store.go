package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fpl-data-service/internal/platform/resilience"
)

type cached struct {
	value    any
	deadline time.Time
}

func (c cached) expired(now time.Time) bool {
	return !c.deadline.IsZero() && !c.deadline.After(now)
}

// Store is a TTL map used to cache collection snapshots between syncs. A
// zero ttl disables expiry; entries then live until invalidated.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cached
	ttl     time.Duration
	flight  resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]cached),
		ttl:     ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	c, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.expired(time.Now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return c.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	c := cached{value: value}
	if s.ttl > 0 {
		c.deadline = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = c
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePrefix drops every entry under a key prefix. Sync uses it to
// invalidate one collection's cached reads after a replace.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for concurrent
// callers of the same key, caching its result. An empty key bypasses the
// cache entirely.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// A racing caller may have populated the key while we waited.
		if hit, ok := s.Get(ctx, key); ok {
			return hit, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
