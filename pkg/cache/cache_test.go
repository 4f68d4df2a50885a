package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "positions")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Round trip
	if err := c.Set(ctx, "positions", []byte(`{"x":1}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "positions")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != `{"x":1}` {
		t.Errorf("Get = %q, want %q", data, `{"x":1}`)
	}

	// Delete then miss
	if err := c.Delete(ctx, "positions"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "positions")
	if hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Negative TTL writes an already-expired entry
	if err := c.Set(ctx, "stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "pinned", []byte("keep"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "pinned")
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestFileCacheShardsByNamespace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "layout:abc", []byte("positions"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	png := []byte{0x89, 'P', 'N', 'G', 0x00, 0xFF}
	if err := c.Set(ctx, "artifact:abc", png, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Entries land in per-namespace directories
	for _, class := range []string{"layout", "artifact"} {
		entries, err := os.ReadDir(filepath.Join(dir, class))
		if err != nil || len(entries) == 0 {
			t.Errorf("no %s entries on disk: %v", class, err)
		}
	}

	// Binary payloads round-trip byte for byte
	data, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(data, png) {
		t.Errorf("Get = %x, want %x", data, png)
	}
}

func TestFileCacheIgnoresUnrecognizedEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "layout:abc", []byte("positions"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	// Corrupt the entry on disk; the next Get must report a miss
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("layout:abc"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if _, hit, err := c.Get(ctx, "layout:abc"); err != nil || hit {
		t.Errorf("corrupt entry: hit %v, err %v, want miss", hit, err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	opts := LayoutKeyOpts{Iterations: 100, Seed: 42}
	key := k.LayoutKey("abc123", opts)
	if !strings.HasPrefix(key, "layout:") {
		t.Errorf("LayoutKey prefix unexpected: %s", key)
	}

	// Same inputs, same key
	if k.LayoutKey("abc123", opts) != key {
		t.Error("LayoutKey should be deterministic")
	}

	// Different iterations, different key
	other := k.LayoutKey("abc123", LayoutKeyOpts{Iterations: 200, Seed: 42})
	if other == key {
		t.Error("different opts should produce different keys")
	}

	// Different graph, different key
	if k.LayoutKey("def456", opts) == key {
		t.Error("different graph hashes should produce different keys")
	}

	art := k.ArtifactKey("abc123", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(art, "artifact:") {
		t.Errorf("ArtifactKey prefix unexpected: %s", art)
	}
	if art == k.ArtifactKey("abc123", ArtifactKeyOpts{Format: "png"}) {
		t.Error("different formats should produce different keys")
	}
}

// Every parameter that changes the layout result must change the cache key,
// or a run with different force settings would be served stale positions.
func TestLayoutKeyCoversAllParams(t *testing.T) {
	k := NewDefaultKeyer()
	base := LayoutKeyOpts{
		Iterations:          100,
		Seed:                42,
		ScalingRatio:        2,
		Gravity:             1,
		EdgeWeightInfluence: 1,
		JitterTolerance:     1,
		Theta:               1.2,
	}
	baseKey := k.LayoutKey("abc123", base)

	variants := map[string]func(*LayoutKeyOpts){
		"Iterations":          func(o *LayoutKeyOpts) { o.Iterations = 200 },
		"Seed":                func(o *LayoutKeyOpts) { o.Seed = 7 },
		"ScalingRatio":        func(o *LayoutKeyOpts) { o.ScalingRatio = 8 },
		"Gravity":             func(o *LayoutKeyOpts) { o.Gravity = 5 },
		"StrongGravity":       func(o *LayoutKeyOpts) { o.StrongGravity = true },
		"DistributeHubs":      func(o *LayoutKeyOpts) { o.DistributeHubs = true },
		"EdgeWeightInfluence": func(o *LayoutKeyOpts) { o.EdgeWeightInfluence = 0 },
		"JitterTolerance":     func(o *LayoutKeyOpts) { o.JitterTolerance = 0.5 },
		"BarnesHut":           func(o *LayoutKeyOpts) { o.BarnesHut = true },
		"Theta":               func(o *LayoutKeyOpts) { o.Theta = 0.5 },
	}
	for name, mutate := range variants {
		opts := base
		mutate(&opts)
		if k.LayoutKey("abc123", opts) == baseKey {
			t.Errorf("changing %s did not change the layout key", name)
		}
	}
}

func TestArtifactKeyCoversAllParams(t *testing.T) {
	k := NewDefaultKeyer()
	base := ArtifactKeyOpts{Format: "svg", Width: 800, Labels: true, ShowEdges: true}
	baseKey := k.ArtifactKey("abc123", base)

	variants := map[string]func(*ArtifactKeyOpts){
		"Format":    func(o *ArtifactKeyOpts) { o.Format = "png" },
		"Width":     func(o *ArtifactKeyOpts) { o.Width = 1200 },
		"Labels":    func(o *ArtifactKeyOpts) { o.Labels = false },
		"ShowEdges": func(o *ArtifactKeyOpts) { o.ShowEdges = false },
	}
	for name, mutate := range variants {
		opts := base
		mutate(&opts)
		if k.ArtifactKey("abc123", opts) == baseKey {
			t.Errorf("changing %s did not change the artifact key", name)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "tenant:42:")

	opts := LayoutKeyOpts{Iterations: 100}
	key := scoped.LayoutKey("abc", opts)
	if !strings.HasPrefix(key, "tenant:42:") {
		t.Errorf("scoped key missing prefix: %s", key)
	}
	if strings.TrimPrefix(key, "tenant:42:") != base.LayoutKey("abc", opts) {
		t.Error("scoped key should wrap the inner key")
	}

	// Nil inner falls back to the default keyer
	fallback := NewScopedKeyer(nil, "p:")
	if !strings.HasPrefix(fallback.ArtifactKey("x", ArtifactKeyOpts{}), "p:artifact:") {
		t.Error("nil inner should use default keyer")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Non-retryable errors fail immediately
	calls := 0
	permanent := errors.New("permanent")
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("RetryWithBackoff = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("non-retryable error called %d times, want 1", calls)
	}

	// Success on first try
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("RetryWithBackoff = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("success called %d times, want 1", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(Retryable(errors.New("flaky"))) {
		t.Error("wrapped error should be retryable")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
