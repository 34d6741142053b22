package token

import (
	"slices"
	"time"
)

// Kind distinguishes the two credential families. Each kind is signed with its
// own secret, so a token of one kind never verifies as the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

func (k Kind) valid() bool {
	return k == KindAccess || k == KindRefresh
}

// Claim is the principal identity embedded in every credential.
type Claim struct {
	Subject string   `json:"sub"`   // Principal ID
	Roles   []string `json:"roles"` // Roles held when the credential was issued
}

// HasAnyRole reports whether the claim carries at least one of roles.
func (c Claim) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(c.Roles, r) {
			return true
		}
	}
	return false
}

// Issued is a freshly signed credential.
type Issued struct {
	Token     string
	ID        string // jti
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verified is the decoded content of a credential whose signature checked out.
type Verified struct {
	Claim     Claim
	ID        string // jti
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns how long the credential stays valid after now. Zero or
// negative means it has already expired.
func (v Verified) Remaining(now time.Time) time.Duration {
	return v.ExpiresAt.Sub(now)
}
