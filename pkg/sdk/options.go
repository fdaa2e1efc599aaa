package linkfinder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL string
	token   string
	timeout time.Duration

	rootTitle     string
	titleProperty string
	urlProperty   string
	pageSize      int

	cacheDriver   string // "", "memory" or "redis"
	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		baseURL:       "https://app.yonote.ru/api",
		timeout:       30 * time.Second,
		rootTitle:     `Общий_стратегический_мониторинг\`,
		titleProperty: "Название",
		urlProperty:   "Ссылка на Яндекс диск",
		cacheTTL:      10 * time.Minute,
	}
}

// WithToken sets the Yonote API token. Required.
func WithToken(token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = token
	})
}

// WithBaseURL overrides the Yonote API base URL.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithTimeout sets the per-request timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithRootTitle sets the title of the document whose children are the months.
func WithRootTitle(title string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rootTitle = title
	})
}

// WithReferenceFields sets the property labels a reference's title fallback
// and url are read from.
func WithReferenceFields(title, url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.titleProperty = title
		c.urlProperty = url
	})
}

// WithPageSize sets the number of rows requested per page. Default: 50.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithMemoryCache caches month schemas in process for ttl.
func WithMemoryCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "memory"
		c.cacheTTL = ttl
	})
}

// WithRedisCache caches month schemas in Redis for ttl.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
