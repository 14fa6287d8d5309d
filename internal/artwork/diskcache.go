// Package artwork loads, caches and serves album cover images for the
// collection tree.
package artwork

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	diskCacheMaxAge = 30 * 24 * time.Hour
	pruneInterval   = 24 * time.Hour
)

// DiskCache stores rendered cover images on disk, one PNG per cache key.
// Handles are shared and refcounted: every view of the same directory gets
// the same cache, and the prune goroutine runs once per directory.
type DiskCache struct {
	dir  string
	refs int

	mu         sync.Mutex
	lastPruned time.Time
}

var diskCaches struct {
	mu     sync.Mutex
	byPath map[string]*DiskCache
}

// AcquireDiskCache opens (or shares) the disk cache rooted at dir. Every
// successful acquire must be paired with a Release.
func AcquireDiskCache(dir string) (*DiskCache, error) {
	diskCaches.mu.Lock()
	defer diskCaches.mu.Unlock()

	if diskCaches.byPath == nil {
		diskCaches.byPath = make(map[string]*DiskCache)
	}
	if c, ok := diskCaches.byPath[dir]; ok {
		c.refs++
		return c, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	c := &DiskCache{dir: dir, refs: 1}
	diskCaches.byPath[dir] = c

	go c.pruneOldEntries()

	return c, nil
}

// Release drops one reference. The cache is unregistered when the last
// reference goes away; files stay on disk for the next run.
func (c *DiskCache) Release() {
	if c == nil {
		return
	}
	diskCaches.mu.Lock()
	defer diskCaches.mu.Unlock()

	c.refs--
	if c.refs <= 0 {
		delete(diskCaches.byPath, c.dir)
	}
}

func diskKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, diskKey(key)+".png")
}

// Get retrieves the cached PNG for a key, nil when absent.
func (c *DiskCache) Get(key string) []byte {
	if c == nil {
		return nil
	}
	path := c.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	// Touch so frequently used entries survive pruning.
	now := time.Now()
	_ = os.Chtimes(path, now, now)
	return data
}

// Put stores a rendered PNG under a key.
func (c *DiskCache) Put(key string, data []byte) error {
	if c == nil {
		return nil
	}
	return os.WriteFile(c.path(key), data, 0o600)
}

// Remove deletes a key's cached image, if present.
func (c *DiskCache) Remove(key string) {
	if c == nil {
		return
	}
	_ = os.Remove(c.path(key))
}

// pruneOldEntries removes entries older than diskCacheMaxAge.
func (c *DiskCache) pruneOldEntries() {
	c.mu.Lock()
	if time.Since(c.lastPruned) < pruneInterval {
		c.mu.Unlock()
		return
	}
	c.lastPruned = time.Now()
	c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-diskCacheMaxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(c.dir, entry.Name()))
		}
	}
}
