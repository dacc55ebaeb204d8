package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost matches the work factor the rest of the product uses. Raising it
// invalidates nothing (bcrypt embeds the cost), but keep it in sync with the
// expected login latency budget.
const hashCost = 10

// Hash produces a salted bcrypt digest of plain. Callers must only invoke it
// when a password is being newly set or changed; hashes are never re-hashed.
func Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches the stored digest.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
