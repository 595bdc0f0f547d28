// Package fingerprint derives deterministic content fingerprints used as
// cache-key components. Collision resistance is a cache-correctness concern
// here, not a security property.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Bytes returns the hex-encoded SHA-256 digest of a byte payload.
func Bytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Text returns the hex-encoded SHA-256 digest of decoded text.
func Text(text string) string {
	return Bytes([]byte(text))
}
