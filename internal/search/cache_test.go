package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierFrauca/mcp-code-manager/internal/config"
	"github.com/JavierFrauca/mcp-code-manager/internal/index"
)

func newTestCache(t *testing.T, cfg config.CacheConfig) *IndexCache {
	t.Helper()
	cache, err := NewIndexCache(cfg)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

func TestIndexCacheHitAndMiss(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, config.CacheConfig{Enabled: true, MaxRoots: 4, TTLSeconds: 60})
	root := t.TempDir()

	_, ok := cache.Get(root)
	assert.False(t, ok)

	idx := &index.SolutionIndex{BuildID: "b1", Root: root}
	cache.Put(root, idx)

	got, ok := cache.Get(root)
	require.True(t, ok)
	assert.Equal(t, "b1", got.BuildID)

	cache.Invalidate(root)
	_, ok = cache.Get(root)
	assert.False(t, ok)
}

func TestIndexCacheWatcherInvalidation(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, config.CacheConfig{Enabled: true, MaxRoots: 4, TTLSeconds: 300, Watch: true})
	root := t.TempDir()

	cache.Put(root, &index.SolutionIndex{BuildID: "b1", Root: root})
	_, ok := cache.Get(root)
	require.True(t, ok)

	// Any write under the root must drop the entry.
	require.NoError(t, os.WriteFile(filepath.Join(root, "New.cs"), []byte("public class New { }\n"), 0o644))

	assert.Eventually(t, func() bool {
		_, ok := cache.Get(root)
		return !ok
	}, 5*time.Second, 10*time.Millisecond)
}

func TestIndexCachePutArmsWatcherBeforeStoring(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, config.CacheConfig{Enabled: true, MaxRoots: 4, TTLSeconds: 300, Watch: true})
	root := t.TempDir()

	// A change arriving the instant the watcher is armed must always
	// beat the store, so the store may only happen afterwards.
	storedBeforeArmed := false
	arm := cache.newWatcher
	cache.newWatcher = func(r string, onChange func()) (*rootWatcher, error) {
		_, storedBeforeArmed = cache.Get(r)
		return arm(r, onChange)
	}

	cache.Put(root, &index.SolutionIndex{BuildID: "b1", Root: root})

	assert.False(t, storedBeforeArmed)
	_, ok := cache.Get(root)
	assert.True(t, ok)
}

func TestIndexCacheUnwatchableRootNotRetained(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t, config.CacheConfig{Enabled: true, MaxRoots: 4, TTLSeconds: 300, Watch: true})
	root := filepath.Join(t.TempDir(), "gone")

	// The root vanished between build and cache insert; without a
	// watcher the entry must not survive.
	cache.Put(root, &index.SolutionIndex{BuildID: "b1", Root: root})
	_, ok := cache.Get(root)
	assert.False(t, ok)
}

func TestEngineReusesCachedIndex(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Cache.Enabled = true
	cfg.Cache.Watch = false
	engine, err := NewEngine(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	root := writeTree(t, map[string]string{
		"Foo.cs": "public class Foo { }\n",
	})
	ctx := context.Background()

	first, err := engine.GetSolutionStructure(ctx, root)
	require.NoError(t, err)
	second, err := engine.GetSolutionStructure(ctx, root)
	require.NoError(t, err)

	// Same build served from cache.
	assert.Equal(t, first.BuildID, second.BuildID)
}
