package cache

import (
	"context"
	"time"
)

// Default TTLs for the two classes of cached content. Layout results are
// deterministic for a given graph and parameter set, so they can live long.
// Rendered artifacts are cheap to regenerate and get a shorter window.
const (
	LayoutTTL   = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
// Implementations must treat a missing key as a miss, not an error.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKeyOpts captures every parameter that affects a layout result.
// Two runs with equal graph hashes and equal opts produce identical output,
// so they may share a cache entry.
type LayoutKeyOpts struct {
	Iterations          int
	Seed                uint64
	ScalingRatio        float64
	Gravity             float64
	StrongGravity       bool
	DistributeHubs      bool
	EdgeWeightInfluence float64
	JitterTolerance     float64
	BarnesHut           bool
	Theta               float64
}

// ArtifactKeyOpts captures the rendering parameters for an artifact.
type ArtifactKeyOpts struct {
	Format    string
	Width     float64
	Labels    bool
	ShowEdges bool
}

// Keyer generates cache keys. The default implementation hashes the
// inputs; ScopedKeyer adds a namespace prefix on top.
type Keyer interface {
	// LayoutKey generates a key for a computed layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates content-addressed cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed layout. Every field of opts goes
// into the hash: two runs that differ in any force parameter must never
// share an entry.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
