package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// StatementKey generates a cache key for a mapped statement
func StatementKey(statement string) string {
	return key("stmt", statement)
}

// PageKey generates a cache key for a fetched directory page
func PageKey(url string) string {
	return key("page", url)
}

func key(kind, value string) string {
	hash := sha256.Sum256([]byte(value))
	return "votelens:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
