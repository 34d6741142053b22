// Package sessions stores the single live refresh credential of each
// principal. Only the fingerprint of the credential is kept.
package sessions

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Consume when no live record matches. Under
// concurrent rotation every caller except the winner sees it.
var ErrNotFound = errors.New("session not found")

// Record represents the current refresh credential of a principal
type Record struct {
	PrincipalID string    `json:"principal_id"` // Owner of the session
	Fingerprint string    `json:"-"`            // Digest of the refresh credential, never the raw token
	CreatedAt   time.Time `json:"created_at"`   // When the refresh credential was issued
	ExpiresAt   time.Time `json:"expires_at"`   // When the refresh credential lapses
}

// Live reports whether the record is still usable at now.
func (r Record) Live(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}
