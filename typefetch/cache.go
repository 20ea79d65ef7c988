package typefetch

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/vbuild-dev/vbuild/filesystem"
)

// Cache stores resolved types by CacheKey. A present nil value records
// that the package has no types.
type Cache interface {
	Get(key string) mo.Option[*Types]
	Set(key string, types *Types) error
}

// MemoryCache is a process-lifetime Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Types
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Types)}
}

// Get implements Cache.
func (m *MemoryCache) Get(key string) mo.Option[*Types] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.entries[key]
	if !ok {
		return mo.None[*Types]()
	}
	return mo.Some(t)
}

// Set implements Cache.
func (m *MemoryCache) Set(key string, types *Types) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = types
	return nil
}

// Len returns the number of cached keys.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

type diskData struct {
	Types map[string]*Types `json:"types"`
}

// DiskCache persists types as one JSON document on the host filesystem.
// The whole document expires after its lifetime.
type DiskCache struct {
	internal *gache.Cache[*diskData]
	mu       sync.RWMutex
}

// NewDiskCache creates a cache stored at path.
func NewDiskCache(path string, lifetime time.Duration) *DiskCache {
	return &DiskCache{
		internal: gache.New[*diskData](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Get implements Cache.
func (d *DiskCache) Get(key string) mo.Option[*Types] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, expired, err := d.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[*Types]()
	}

	t, ok := data.Types[key]
	if !ok {
		return mo.None[*Types]()
	}
	return mo.Some(t)
}

// Set implements Cache.
func (d *DiskCache) Set(key string, types *Types) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, expired, err := d.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Types == nil {
		data = &diskData{Types: make(map[string]*Types)}
	}
	data.Types[key] = types
	return d.internal.Set(data)
}

// Delete drops key from the cache.
func (d *DiskCache) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, expired, err := d.internal.Get()
	if err != nil || expired || data == nil {
		return err
	}

	delete(data.Types, key)
	return d.internal.Set(data)
}
