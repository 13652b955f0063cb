// Package cache implements a JSON file backed key-value cache safe for concurrent use.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

// Cache maps string keys to immutable values. The backing file is read on first access
// and written only by Save, and only when something was added since the last save.
type Cache[V any] struct {
	path   string
	logger *zap.Logger

	loadOnce sync.Once
	items    *xsync.Map[string, V]
	dirty    atomic.Bool
	saveMu   sync.Mutex
}

// New returns a cache persisted at path.
func New[V any](path string, logger *zap.Logger) *Cache[V] {
	return &Cache[V]{
		path:   path,
		logger: logger.With(zap.String("cache", filepath.Base(path))),
		items:  xsync.NewMap[string, V](),
	}
}

// Path returns the backing file.
func (c *Cache[V]) Path() string {
	return c.path
}

func (c *Cache[V]) load() {
	c.loadOnce.Do(func() {
		data, err := os.ReadFile(c.path)
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("cache file missing, starting empty")
			return
		}
		if err != nil {
			c.logger.Warn("cache file unreadable, starting empty", zap.Error(err))
			return
		}

		entries := make(map[string]V)
		if err := json.Unmarshal(data, &entries); err != nil {
			c.logger.Warn("cache file corrupt, starting empty", zap.Error(err))
			return
		}
		for k, v := range entries {
			c.items.Store(k, v)
		}
		c.logger.Debug("cache loaded", zap.Int("entries", len(entries)))
	})
}

// TryGet returns the cached value for key.
func (c *Cache[V]) TryGet(key string) (V, bool) {
	c.load()
	return c.items.Load(key)
}

// Add stores value under key unless the key is already present. It returns the value
// that ends up cached and whether this call inserted it.
func (c *Cache[V]) Add(key string, value V) (V, bool) {
	c.load()
	actual, loaded := c.items.LoadOrStore(key, value)
	if !loaded {
		c.dirty.Store(true)
	}
	return actual, !loaded
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.load()
	return c.items.Size()
}

// Save writes the whole cache when it changed since the last save. The file is
// replaced atomically.
func (c *Cache[V]) Save() error {
	c.load()

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if !c.dirty.Swap(false) {
		return nil
	}

	entries := make(map[string]V, c.items.Size())
	c.items.Range(func(k string, v V) bool {
		entries[k] = v
		return true
	})

	if err := c.write(entries); err != nil {
		c.dirty.Store(true)
		return err
	}
	c.logger.Debug("cache saved", zap.Int("entries", len(entries)))
	return nil
}

func (c *Cache[V]) write(entries map[string]V) (err error) {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer func() {
		if cerr := tmp.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
			err = fmt.Errorf("close temp cache file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
