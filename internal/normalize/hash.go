package normalize

import (
	"crypto/sha256"
	"fmt"
)

// ContentHash computes the hex-encoded SHA-256 of a fetched file's bytes.
// Source files and exports are keyed on it.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
