package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the one-way digest under which a refresh credential is
// stored. The raw token is never persisted.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
