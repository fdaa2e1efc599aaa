package linkfinder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/db"
	dbMemory "github.com/imwes/linkfinder/internal/db/memory"
	dbRedis "github.com/imwes/linkfinder/internal/db/redis"
	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	catalogrepo "github.com/imwes/linkfinder/internal/repository/catalog"
	"github.com/imwes/linkfinder/internal/repository/rows"
	schemarepo "github.com/imwes/linkfinder/internal/repository/schema"
	"github.com/imwes/linkfinder/internal/transport/yonote"
	healthuc "github.com/imwes/linkfinder/internal/usecase/health"
	searchuc "github.com/imwes/linkfinder/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
	TagMenu(ctx context.Context, catalog domain.Catalog) domain.TagSchema
	Search(ctx context.Context, catalog domain.Catalog, sel *selection.State) []reference.Reference
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the linkfinder SDK entry point.
type Client struct {
	store     db.Store // nil without a cache
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. The provided context bounds the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.token == "" {
		return nil, errors.New("linkfinder: token required (use WithToken)")
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "":
		return nil, nil
	case "memory":
		return dbMemory.NewStore(cfg.cacheTTL), nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("linkfinder: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("linkfinder: cache not ready: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("linkfinder: unknown cache driver %q", cfg.cacheDriver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := yonote.NewClient(&yonote.Config{
		BaseURL: cfg.baseURL,
		Token:   cfg.token,
		Timeout: cfg.timeout,
		Logger:  logger,
	})

	var schemas searchuc.SchemaResolver = schemarepo.New(client)
	if store != nil {
		// SDK cache counters live on the caller's registerer, not the global one.
		var cacheTotal *prometheus.CounterVec
		if obs.metrics != nil {
			cacheTotal = obs.metrics.cacheTotal
		}
		schemas = schemarepo.NewCached(schemas, store, cfg.cacheTTL, cacheTotal, logger)
	}

	fields := reference.Fields{Title: cfg.titleProperty, URL: cfg.urlProperty}
	searchSvc := searchuc.New(
		catalogrepo.New(client, cfg.rootTitle),
		schemas,
		rows.New(client, cfg.pageSize, fields),
	)

	var pinger healthuc.CachePinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(client, pinger),
		obs:       obs,
	}
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Months lists the month labels in ascending order.
func (c *Client) Months(ctx context.Context) (months []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("months", start, err) }()

	catalog, err := c.searchSvc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Months(), nil
}

// Tags returns the tag categories and their option labels, taken from the
// first month that has any.
func (c *Client) Tags(ctx context.Context) (tags map[string][]string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("tags", start, err) }()

	catalog, err := c.searchSvc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	schema := c.searchSvc.TagMenu(ctx, catalog)
	tags = make(map[string][]string, len(schema))
	for _, category := range schema.Categories() {
		tags[category] = schema.Options(category)
	}
	return tags, nil
}

// Search returns the references matching sel, in ascending month order.
// Months that fail to load are skipped; an unknown month is an error.
func (c *Client) Search(ctx context.Context, sel Selection) (refs []Reference, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	catalog, err := c.searchSvc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, month := range sel[MonthCategory] {
		if _, ok := catalog[month]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMonth, month)
		}
	}

	found := c.searchSvc.Search(ctx, catalog, sel.state())
	refs = make([]Reference, 0, len(found))
	for _, r := range found {
		refs = append(refs, referenceFromDomain(r))
	}
	return refs, nil
}

// Health checks the document store and, when configured, the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
