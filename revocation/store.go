// Package revocation holds the denylist of access credential ids that were
// revoked before their natural expiry.
package revocation

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the backing store cannot answer, whether
// through a network fault, a timeout or a cancelled context. Callers must
// treat it as "unknown" and fail closed.
var ErrUnavailable = errors.New("revocation store unavailable")

// Store is a denylist keyed by credential id. Entries expire on their own;
// they are never removed explicitly.
type Store interface {
	// Deny marks id as revoked for ttl. A non-positive ttl is a no-op since
	// the credential has already expired.
	Deny(ctx context.Context, id string, ttl time.Duration) error

	// IsDenied reports whether id is currently on the denylist.
	IsDenied(ctx context.Context, id string) (bool, error)
}
