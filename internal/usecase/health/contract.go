package health

import "context"

// StoreChecker checks that the document store accepts the configured token.
type StoreChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks schema cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
