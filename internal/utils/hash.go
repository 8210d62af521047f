package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRequest returns a SHA256 fingerprint of the given parts, separated so that
// ("ab","c") and ("a","bc") hash differently.
func HashRequest(parts ...[]byte) string {
	hasher := sha256.New()
	for i, p := range parts {
		if i > 0 {
			hasher.Write([]byte{0})
		}
		hasher.Write(p)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
