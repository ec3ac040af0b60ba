package signergraph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"anchorsec/internal/project"
)

// Cache keeps file summaries keyed by the SHA-256 of the file content,
// so any edit misses. Safe for concurrent use; a nil *Cache is a valid no-op.
type Cache struct {
	mu    sync.RWMutex
	mem   map[project.Digest]Summary
	disk  *DiskCache
	hits  int
	calls int
}

// NewCache returns an in-memory cache, optionally backed by disk.
func NewCache(disk *DiskCache) *Cache {
	return &Cache{mem: make(map[project.Digest]Summary), disk: disk}
}

// Get returns the summary stored for key, consulting disk on a memory miss.
func (c *Cache) Get(key project.Digest) (Summary, bool) {
	if c == nil {
		return Summary{}, false
	}
	c.mu.Lock()
	c.calls++
	sum, ok := c.mem[key]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok || c.disk == nil {
		return sum, ok
	}
	var payload Summary
	found, err := c.disk.Get(key, &payload)
	if err != nil || !found || payload.Schema != summarySchema {
		return Summary{}, false
	}
	c.mu.Lock()
	c.mem[key] = payload
	c.hits++
	c.mu.Unlock()
	return payload, true
}

// Put stores sum in memory and, best effort, on disk.
func (c *Cache) Put(key project.Digest, sum Summary) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.mem[key] = sum
	c.mu.Unlock()
	if c.disk != nil {
		// диск - только ускоритель, ошибки записи не критичны
		_ = c.disk.Put(key, &sum)
	}
}

// Forget drops key from memory. Disk entries stay: they are content-addressed.
func (c *Cache) Forget(key project.Digest) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()
}

// Stats returns (hits, lookups).
func (c *Cache) Stats() (hits, calls int) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.calls
}

// DiskCache хранит сводки файлов на диске, по одному msgpack-файлу на хеш.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir directly.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("signer cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "signers", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a summary.
func (c *DiskCache) Put(key project.Digest, payload *Summary) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a summary; found is false for a missing entry.
func (c *DiskCache) Get(key project.Digest, out *Summary) (found bool, err error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll removes every stored summary.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "signers"))
}
