package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewName returns a document name in a naming series, e.g. "LR-3f9a1c0d7b2e".
// The suffix is 12 lowercase hex characters.
func NewName(series string) string {
	series = strings.ToUpper(strings.Trim(strings.TrimSpace(series), "-"))
	suffix := NewID32()[:12]
	if series == "" {
		return suffix
	}
	return series + "-" + suffix
}
