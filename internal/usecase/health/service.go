package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the schema cache is failing; searches still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckDocumentStore = "document_store"
	CheckCache         = "cache"
)

// defaultTimeout bounds a single component check.
const defaultTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store   StoreChecker
	cache   CachePinger
	timeout time.Duration
}

// New creates a Service. cache can be nil when no shared cache is configured.
func New(store StoreChecker, cache CachePinger) *Service {
	return &Service{store: store, cache: cache, timeout: defaultTimeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[CheckDocumentStore] = s.run(ctx, s.store.HealthCheck)
	if s.cache != nil {
		checks[CheckCache] = s.run(ctx, s.cache.Ping)
	}

	status := Healthy
	switch {
	case checks[CheckDocumentStore] == CheckError:
		status = Unhealthy
	case checks[CheckCache] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
