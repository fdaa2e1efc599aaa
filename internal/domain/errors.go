package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteCall signals a failed request to the remote document store.
	ErrRemoteCall = errors.New("remote call failed")
	// ErrSchemaUnavailable signals a sub-database without usable properties.
	ErrSchemaUnavailable = errors.New("schema unavailable")
	// ErrCatalogUnavailable signals that the catalog root document was not found.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrUnknownMonth signals a month label absent from the catalog.
	ErrUnknownMonth = errors.New("unknown month")
)

// RemoteCallError wraps ErrRemoteCall with the operation and HTTP status.
// Status is 0 when the request never got a response (network error, timeout).
type RemoteCallError struct {
	Operation string
	Status    int
	Err       error
}

func (e *RemoteCallError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", ErrRemoteCall.Error(), e.Operation, e.Err)
		}
		return fmt.Sprintf("%s: %s", ErrRemoteCall.Error(), e.Operation)
	}
	return fmt.Sprintf("%s: %s: status %d", ErrRemoteCall.Error(), e.Operation, e.Status)
}

func (e *RemoteCallError) Unwrap() error { return ErrRemoteCall }

// Cause returns the underlying transport error, if any.
func (e *RemoteCallError) Cause() error { return e.Err }

// NewRemoteCallError creates a remote call error.
func NewRemoteCallError(operation string, status int, cause error) error {
	return &RemoteCallError{Operation: operation, Status: status, Err: cause}
}

// IsUnauthorized reports whether err is a remote call rejected for bad credentials.
func IsUnauthorized(err error) bool {
	var rc *RemoteCallError
	if !errors.As(err, &rc) {
		return false
	}
	return rc.Status == 401 || rc.Status == 403
}
