package schema

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Cache memoizes parsed catalogs for a long-running process. An entry is
// dropped as soon as its file changes on disk, and a load that overlapped a
// change is returned but not stored. Load errors are never cached.
type Cache struct {
	loader  Loader
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]*Catalog
	watched map[string]bool
	// gens counts invalidations per key.
	gens map[string]uint64

	done chan struct{}
	wg   sync.WaitGroup
}

// NewCache starts a watcher goroutine. Call Close to stop it.
func NewCache(loader Loader, logger *slog.Logger) (*Cache, error) {
	if loader == nil {
		loader = FileLoader{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating schema watcher: %w", err)
	}
	c := &Cache{
		loader:  loader,
		watcher: w,
		logger:  logger,
		entries: make(map[string]*Catalog),
		watched: make(map[string]bool),
		gens:    make(map[string]uint64),
		done:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.watch()
	return c, nil
}

// Load returns the cached catalog for path, loading it on a miss.
func (c *Cache) Load(path string) (*Catalog, error) {
	key := cacheKey(path)

	c.mu.RLock()
	cat, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cat, nil
	}

	c.ensureWatched(key)

	c.mu.RLock()
	gen := c.gens[key]
	c.mu.RUnlock()

	cat, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gens[key] == gen {
		c.entries[key] = cat
	}
	c.mu.Unlock()
	return cat, nil
}

// Len returns the number of cached catalogs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate drops the entry for path. Loads of path already in flight
// will not store their result.
func (c *Cache) Invalidate(path string) {
	key := cacheKey(path)
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
}

func (c *Cache) generation(path string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[cacheKey(path)]
}

// Close stops the watcher.
func (c *Cache) Close() error {
	close(c.done)
	err := c.watcher.Close()
	c.wg.Wait()
	return err
}

// ensureWatched watches the parent directory so that editors replacing the
// file via rename are still observed.
func (c *Cache) ensureWatched(key string) {
	dir := filepath.Dir(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watched[dir] {
		return
	}
	if err := c.watcher.Add(dir); err != nil {
		c.logger.Warn("schema_watch_failed", "dir", dir, "error", err.Error())
		return
	}
	c.watched[dir] = true
}

func (c *Cache) watch() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.Invalidate(event.Name)
				c.logger.Debug("schema_invalidated", "path", event.Name, "op", event.Op.String())
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("schema_watch_error", "error", err.Error())
		}
	}
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}
