package sequence

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// GenerateID derives a short stable identifier from the given key parts.
// The same parts always produce the same id, across runs and restarts.
func GenerateID(parts ...string) string {
	base := strings.Join(parts, "-")
	sum := md5.Sum([]byte(base))

	return hex.EncodeToString(sum[:])[:8]
}

// Fingerprint returns the full content hash of v's JSON encoding.
// Used as a cache key for memoized pipeline results.
func Fingerprint(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(b)

	return hex.EncodeToString(sum[:]), nil
}
