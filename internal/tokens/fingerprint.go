package tokens

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is the form a refresh token is persisted in.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
