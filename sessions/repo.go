package sessions

import "context"

// Repo defines the durable session store. Implementations must make Consume
// atomic: for one fingerprint at most one caller ever gets a record back.
type Repo interface {
	// Save replaces any existing record of the principal with record.
	Save(ctx context.Context, record Record) error

	// Consume deletes and returns the record matching fingerprint and
	// principalID, or ErrNotFound.
	Consume(ctx context.Context, fingerprint, principalID string) (Record, error)

	// Remove deletes the record with fingerprint if one exists.
	Remove(ctx context.Context, fingerprint string) error

	// RemoveAll deletes every record held by principalID.
	RemoveAll(ctx context.Context, principalID string) error
}
