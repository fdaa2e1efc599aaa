package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/imwes/linkfinder/internal/db"
	"github.com/imwes/linkfinder/internal/domain"
)

const cacheKeyPrefix = "linkfinder:schema:"

// fetchTimeout bounds a shared fetch, which outlives the caller that started it.
const fetchTimeout = 30 * time.Second

// resolver is the wrapped schema source.
type resolver interface {
	Resolve(ctx context.Context, id string) (domain.Schema, error)
}

// store is the consumer interface for the schema cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedRepo caches successfully resolved schemas in a key-value store.
// Failures are never cached. Concurrent misses for one id share a single fetch,
// which runs detached from any one caller's cancellation.
type CachedRepo struct {
	inner      resolver
	store      store
	ttl        time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCached creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func NewCached(
	inner resolver,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRepo {
	return &CachedRepo{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

type cachedSchema struct {
	Tags       domain.TagSchema   `json:"tags"`
	Properties domain.PropertyMap `json:"properties"`
}

// Resolve returns a cached schema or resolves it through the inner resolver.
func (c *CachedRepo) Resolve(ctx context.Context, id string) (domain.Schema, error) {
	key := cacheKeyPrefix + id

	if s, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return s, nil
	}
	c.incCache("miss")

	ch := c.group.DoChan(id, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		s, err := c.inner.Resolve(fctx, id)
		if err != nil {
			return s, err
		}
		c.putToCache(fctx, key, s)
		return s, nil
	})

	var (
		v   any
		err error
	)
	select {
	case <-ctx.Done():
		return domain.EmptySchema(), fmt.Errorf("resolve schema: %w", ctx.Err())
	case res := <-ch:
		v, err = res.Val, res.Err
	}
	s, _ := v.(domain.Schema)
	if err != nil {
		if s.Tags == nil {
			s = domain.EmptySchema()
		}
		return s, fmt.Errorf("resolve schema: %w", err)
	}
	return s, nil
}

func (c *CachedRepo) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedRepo) getFromCache(ctx context.Context, key string) (domain.Schema, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached schema", zap.String("key", key), zap.Error(err))
		}
		return domain.Schema{}, false
	}

	var cs cachedSchema
	if err := json.Unmarshal(data, &cs); err != nil {
		c.logger.Warn("Failed to parse cached schema", zap.String("key", key), zap.Error(err))
		return domain.Schema{}, false
	}
	s := domain.EmptySchema()
	for k, v := range cs.Tags {
		s.Tags[k] = v
	}
	for k, v := range cs.Properties {
		s.Properties[k] = v
	}
	return s, true
}

func (c *CachedRepo) putToCache(ctx context.Context, key string, s domain.Schema) {
	data, err := json.Marshal(cachedSchema{Tags: s.Tags, Properties: s.Properties})
	if err != nil {
		c.logger.Warn("Failed to encode schema", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache schema", zap.String("key", key), zap.Error(err))
	}
}
