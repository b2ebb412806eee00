// Package gate holds the shared-secret comparison guarding the whole app.
package gate

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Check reports whether candidate equals secret. Both sides are hashed first so
// the comparison time does not depend on either length. An empty secret never
// matches.
func Check(candidate, secret string) bool {
	if secret == "" {
		return false
	}
	c := sha256.Sum256([]byte(candidate))
	s := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare(c[:], s[:]) == 1
}
