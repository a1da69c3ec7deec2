package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashClientKey returns a stable, non-reversible identifier for a caller
// (typically its IP address). Empty input hashes to the empty string.
func HashClientKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
