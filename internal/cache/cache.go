package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache defines the storage interface behind the summary cache
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	Len() int
	Clear()
}

// CacheKey derives a storage key from the exact abstract text.
// Abstracts differing by a single byte map to different keys.
func CacheKey(abstract string) string {
	hash := sha256.Sum256([]byte(abstract))
	return "paperdigest:summary:v1:" + hex.EncodeToString(hash[:])
}
