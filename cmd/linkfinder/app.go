package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/config"
	"github.com/imwes/linkfinder/internal/db"
	dbMemory "github.com/imwes/linkfinder/internal/db/memory"
	dbRedis "github.com/imwes/linkfinder/internal/db/redis"
	"github.com/imwes/linkfinder/internal/domain/reference"
	logpkg "github.com/imwes/linkfinder/internal/logger"
	"github.com/imwes/linkfinder/internal/metrics"
	catalogrepo "github.com/imwes/linkfinder/internal/repository/catalog"
	"github.com/imwes/linkfinder/internal/repository/rows"
	schemarepo "github.com/imwes/linkfinder/internal/repository/schema"
	"github.com/imwes/linkfinder/internal/transport/yonote"
	healthuc "github.com/imwes/linkfinder/internal/usecase/health"
	searchuc "github.com/imwes/linkfinder/internal/usecase/search"
)

// app is the assembled dependency graph shared by all subcommands.
type app struct {
	cfg    config.Config
	env    string
	logger *zap.Logger
	client *yonote.Client
	cache  db.Store // nil when cache.driver is none
	search *searchuc.Service
	health *healthuc.Service
}

// newApp loads config, builds the logger and wires the search pipeline.
func newApp(flags *rootFlags) (*app, error) {
	env := flags.env
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Register metrics explicitly (no init())
	metrics.RegisterMetrics()

	client := yonote.NewClient(&yonote.Config{
		BaseURL: cfg.Remote.BaseURL,
		Token:   cfg.Remote.Token,
		Timeout: cfg.Remote.Timeout(),
		Logger:  logger,
	})

	cache, err := newCacheStore(cfg.Cache, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	// Schema resolver chain: Yonote -> Cached (when a cache is configured)
	var schemas searchuc.SchemaResolver = schemarepo.New(client)
	if cache != nil {
		schemas = schemarepo.NewCached(schemas, cache, cfg.Cache.TTL(), metrics.SchemaCacheTotal, logger)
	}

	fields := reference.Fields{Title: cfg.Remote.TitleProperty, URL: cfg.Remote.URLProperty}
	search := searchuc.New(
		catalogrepo.New(client, cfg.Remote.RootTitle),
		schemas,
		rows.New(client, cfg.Remote.PageSize, fields),
	)

	// Pass nil interface (not typed nil pointer!) when no cache is configured.
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}

	return &app{
		cfg:    cfg,
		env:    env,
		logger: logger,
		client: client,
		cache:  cache,
		search: search,
		health: healthuc.New(client, cachePinger),
	}, nil
}

// newCacheStore creates the schema cache backend for cache.driver.
func newCacheStore(cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case "memory":
		return dbMemory.NewStore(cfg.TTL()), nil
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create cache store: %w", err)
		}
		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to schema cache", zap.Strings("addrs", cfg.Addrs))
		return store, nil
	default:
		return nil, nil
	}
}

func (a *app) close() {
	if a.cache != nil {
		a.cache.Close()
	}
	_ = a.logger.Sync()
}
