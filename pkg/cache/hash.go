package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form prefix:hex(sha256(json(parts))).
// Parts are JSON-marshaled so structs like LayoutKeyOpts hash all their
// fields; the full 256-bit digest is kept to rule out collisions between
// parameter sets.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes the SHA-256 hex digest of data. Graph documents are hashed
// with it to content-address layout results.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
