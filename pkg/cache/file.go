package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores entries on disk for CLI usage. Layout payloads are JSON
// and rendered artifacts can be large binary blobs (PNG), so payloads are
// written raw behind a small fixed header rather than wrapped in JSON.
//
// On-disk shape: <dir>/<class>/<hh>/<hash>.bin, where class is the key's
// namespace ("layout", "artifact") so `cache path` users can see what is
// taking space, and hh shards by hash prefix to keep directories small.
type FileCache struct {
	dir string
}

// entryMagic marks a cache entry file. The eight bytes that follow hold the
// expiration as unix nanoseconds, zero meaning no expiration; the payload
// starts right after.
var entryMagic = []byte("FLCACHE1")

const entryHeaderSize = 16

// NewFileCache creates a file-based cache rooted at dir.
// The directory is created if it doesn't exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if len(data) < entryHeaderSize || !bytes.Equal(data[:len(entryMagic)], entryMagic) {
		// Unrecognized entry, treat as a miss
		_ = os.Remove(path)
		return nil, false, nil
	}

	expires := int64(binary.BigEndian.Uint64(data[len(entryMagic):entryHeaderSize]))
	if expires != 0 && time.Now().After(time.Unix(0, expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return data[entryHeaderSize:], true, nil
}

// Set stores a value in the cache. The entry is written to a temporary file
// and renamed into place so readers never see a partial payload.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl != 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}

	buf := make([]byte, entryHeaderSize+len(data))
	copy(buf, entryMagic)
	binary.BigEndian.PutUint64(buf[len(entryMagic):entryHeaderSize], uint64(expires))
	copy(buf[entryHeaderSize:], data)

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path converts a cache key to a file path. The key's namespace (the part
// before the final colon, as produced by the keyers) becomes a directory so
// layout and artifact entries stay apart on disk.
func (c *FileCache) path(key string) string {
	class := "misc"
	if i := strings.LastIndex(key, ":"); i > 0 {
		class = strings.ReplaceAll(key[:i], ":", "-")
	}
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, class, hash[:2], hash[2:]+".bin")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
