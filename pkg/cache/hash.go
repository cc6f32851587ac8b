package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key joins a namespace and a name into a cache key ("github:repos:octocat").
func Key(namespace, name string) string {
	return namespace + ":" + name
}
