package worker

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenHash gives a loggable fingerprint of a device token. Raw tokens never
// reach the logs.
func TokenHash(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
