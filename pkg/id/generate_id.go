package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewHex returns 2*n lowercase hex characters (no separators/prefixes) from
// n random bytes.
func NewHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
