// Package memory is a process-local db.Store backed by go-cache.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/imwes/linkfinder/internal/db"
)

var _ db.Store = (*Store)(nil)

// Store keeps values in memory with per-key expiration.
type Store struct {
	cache *cache.Cache
}

// NewStore creates a store that purges expired keys every cleanup interval.
func NewStore(cleanup time.Duration) *Store {
	return &Store{cache: cache.New(cache.NoExpiration, cleanup)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close drops every key.
func (s *Store) Close() { s.cache.Flush() }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v.([]byte), nil
}

// SetWithTTL stores a copy of value with an expiration.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.cache.Set(key, cp, ttl)
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
