package schema

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/imwes/linkfinder/internal/db"
	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/transport/yonote"
)

type mockReader struct {
	doc   yonote.Document
	err   error
	calls int
}

func (m *mockReader) DocumentInfo(_ context.Context, _ string) (yonote.Document, error) {
	m.calls++
	return m.doc, m.err
}

type mockResolver struct {
	mu     sync.Mutex
	schema domain.Schema
	err    error
	calls  int
	gate   chan struct{}
}

func (m *mockResolver) Resolve(_ context.Context, _ string) (domain.Schema, error) {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.schema, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// ctxResolver blocks until release is closed or its ctx ends, like a real HTTP fetch.
type ctxResolver struct {
	schema  domain.Schema
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (m *ctxResolver) Resolve(ctx context.Context, _ string) (domain.Schema, error) {
	if m.calls.Add(1) == 1 {
		close(m.started)
	}
	select {
	case <-m.release:
		return m.schema, nil
	case <-ctx.Done():
		return domain.Schema{}, ctx.Err()
	}
}
