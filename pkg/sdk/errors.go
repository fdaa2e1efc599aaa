package linkfinder

import "github.com/imwes/linkfinder/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrRemoteCall         = domain.ErrRemoteCall
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
	ErrUnknownMonth       = domain.ErrUnknownMonth
)

// IsUnauthorized reports whether err is a Yonote call rejected for bad credentials.
func IsUnauthorized(err error) bool {
	return domain.IsUnauthorized(err)
}
