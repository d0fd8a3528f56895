package search

import (
	"log"
	"sync"
	"time"

	"github.com/maypok86/otter"

	"github.com/JavierFrauca/mcp-code-manager/internal/config"
	"github.com/JavierFrauca/mcp-code-manager/internal/index"
)

// IndexCache holds built SolutionIndex values keyed by root path.
// Staleness is a correctness bug, not an acceptable window: every
// cached root gets a filesystem watcher, and any event under it drops
// the entry immediately. The TTL is a second line of defense for
// changes the watcher cannot see (network mounts, watch limits).
type IndexCache struct {
	cache otter.Cache[string, *index.SolutionIndex]

	watch    bool
	mu       sync.Mutex
	watchers map[string]*rootWatcher
	closed   bool

	// newWatcher is swappable in tests.
	newWatcher func(root string, onChange func()) (*rootWatcher, error)
}

// NewIndexCache creates a cache sized and configured per cfg.
func NewIndexCache(cfg config.CacheConfig) (*IndexCache, error) {
	capacity := cfg.MaxRoots
	if capacity < 1 {
		capacity = 1
	}

	builder := otter.MustBuilder[string, *index.SolutionIndex](capacity)
	var cache otter.Cache[string, *index.SolutionIndex]
	var err error
	if cfg.TTLSeconds > 0 {
		cache, err = builder.WithTTL(time.Duration(cfg.TTLSeconds) * time.Second).Build()
	} else {
		cache, err = builder.Build()
	}
	if err != nil {
		return nil, err
	}

	return &IndexCache{
		cache:      cache,
		watch:      cfg.Watch,
		watchers:   map[string]*rootWatcher{},
		newWatcher: newRootWatcher,
	}, nil
}

// Get returns the cached index for a root, if fresh.
func (c *IndexCache) Get(root string) (*index.SolutionIndex, bool) {
	return c.cache.Get(root)
}

// Put arms the invalidation watcher for a root and then stores the
// built index. The watcher goes first: an entry stored before its
// watcher exists could serve stale reads for the arming window, and
// stale reads are exactly what this cache promises not to do.
func (c *IndexCache) Put(root string, idx *index.SolutionIndex) {
	if !c.watch {
		c.cache.Set(root, idx)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if _, exists := c.watchers[root]; !exists {
		w, err := c.newWatcher(root, func() { c.Invalidate(root) })
		if err != nil {
			// Without a watcher the entry cannot be trusted to stay
			// fresh; never store it.
			log.Printf("index cache: cannot watch %s (%v), entry not retained", root, err)
			return
		}
		c.watchers[root] = w
	}
	// Still under the lock: an invalidation firing right after arming
	// serializes behind this store and wins.
	c.cache.Set(root, idx)
}

// Invalidate removes the entry for a root and releases its watcher.
// The delete happens under the same lock Put stores under, so an
// invalidation can never be overtaken by the store it must erase.
func (c *IndexCache) Invalidate(root string) {
	c.mu.Lock()
	c.cache.Delete(root)
	w := c.watchers[root]
	delete(c.watchers, root)
	c.mu.Unlock()

	if w != nil {
		w.Close()
	}
}

// Close releases the cache and every watcher.
func (c *IndexCache) Close() {
	c.mu.Lock()
	c.closed = true
	watchers := c.watchers
	c.watchers = map[string]*rootWatcher{}
	c.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
	c.cache.Close()
}
