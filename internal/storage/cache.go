package storage

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"
)

// cacheEntry tracks one blob mirrored into the cache bucket: its size (for
// the total-size accounting runEviction needs) and the last time it was
// fetched (for the LRU ordering runEviction evicts by).
type cacheEntry struct {
	id          string
	size        uint64
	lastAccess  time.Time
	lastAccessM sync.Mutex
	ready       chan struct{}
}

func (e *cacheEntry) touch() {
	n := time.Now()
	// TryLock allows us to fast path in case another goroutine is
	// accessing e.lastAccess right now, and allows us to report the time
	// correctly, while still performing the syscall with time.Now() outside
	// of the lock.
	if e.lastAccessM.TryLock() {
		e.lastAccess = n
		e.lastAccessM.Unlock()
	}
}

// CachedStorage fronts a permanent Storage with a bounded-size cache
// evicted on a least-recently-accessed basis.
type CachedStorage struct {
	cache     Storage
	permanent Storage
	maxSize   uint64 // bytes. actual storage may be slightly higher.

	sync.RWMutex
	entries map[string]*cacheEntry
	// signaled after adding a new entry, to wake the background evictor.
	dirty chan struct{}
}

// NewCachedStorage builds a CachedStorage, seeding its in-memory index
// from cache's current contents, and starts its background evictor.
func NewCachedStorage(cache ListStorage, permanent Storage, maxSize uint64) (*CachedStorage, error) {
	entries := make(map[string]*cacheEntry)
	ready := make(chan struct{})
	close(ready)
	err := cache.List(context.Background(), func(id string, b []byte) error {
		entries[id] = &cacheEntry{
			id:         id,
			size:       uint64(len(b)),
			lastAccess: time.Now(),
			ready:      ready,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c := &CachedStorage{
		cache:     cache,
		permanent: permanent,
		maxSize:   maxSize,

		entries: entries,
		dirty:   make(chan struct{}, 1),
	}
	go c.evictLoop()
	return c, nil
}

var _ Storage = (*CachedStorage)(nil)

const evictPollInterval = time.Second

func (c *CachedStorage) totalSize() uint64 {
	c.RLock()
	defer c.RUnlock()
	var sz uint64
	for _, e := range c.entries {
		sz += e.size
	}
	return sz
}

// deleteFromCache removes each of evicted from the underlying cache
// bucket, skipping any entry that was re-added to c.entries (by a Put or
// a cache-filling Get) since it was selected for eviction.
func (c *CachedStorage) deleteFromCache(evicted []*cacheEntry) {
	c.RLock()
	defer c.RUnlock()
	for _, e := range evicted {
		if _, ok := c.entries[e.id]; ok {
			continue
		}
		if err := c.cache.Del(context.Background(), e.id); err != nil {
			log.Printf("error deleting in cache eviction: %v", err)
		}
	}
}

// runEviction walks every cached entry oldest-access-first, evicting
// until the remaining total drops below maxSize with some headroom.
func (c *CachedStorage) runEviction() {
	c.Lock()
	defer c.Unlock()

	all := make([]*cacheEntry, 0, len(c.entries))
	var total uint64
	for _, e := range c.entries {
		all = append(all, e)
		e.lastAccessM.Lock()
		total += e.size
	}

	slices.SortFunc(all, func(a, b *cacheEntry) int {
		return a.lastAccess.Compare(b.lastAccess)
	})

	// The size check that woke us ran without the lock; entries may have
	// shrunk below maxSize in the meantime.
	if total < c.maxSize {
		for _, e := range all {
			e.lastAccessM.Unlock()
		}
		return
	}

	// Evict down to 95% of maxSize, leaving headroom before the next pass
	// needs to run.
	target := (total - c.maxSize) + c.maxSize/20
	var collected uint64
	var evicted []*cacheEntry

	for _, e := range all {
		if collected < target {
			collected += e.size
			delete(c.entries, e.id)
			evicted = append(evicted, e)
		}
		e.lastAccessM.Unlock()
	}

	go c.deleteFromCache(evicted)
}

func (c *CachedStorage) evictLoop() {
	for range c.dirty {
		if c.totalSize() >= c.maxSize {
			c.runEviction()
		}
		time.Sleep(evictPollInterval)
	}
}

func (c *CachedStorage) cacheHas(id string) bool {
	c.RWMutex.RLock()
	e, ok := c.entries[id]
	c.RWMutex.RUnlock()
	if !ok {
		return false
	}
	<-e.ready
	if e.size == 0 {
		return false
	}
	e.touch()
	return true
}

func (c *CachedStorage) cacheStore(ctx context.Context, id string, b []byte, e *cacheEntry) {
	if err := c.cache.Put(ctx, id, b); err != nil {
		log.Printf("cache does not correctly Put objects: %v", err)
		return
	}
	e.lastAccess = time.Now()
	e.size = uint64(len(b))

	// new entry added; wake the evictor in case we're now over maxSize.
	select {
	case c.dirty <- struct{}{}:
	default:
	}
}

func (c *CachedStorage) Get(ctx context.Context, id string) ([]byte, error) {
	// fast path: the blob is already cached.
	if c.cacheHas(id) {
		return c.cache.Get(ctx, id)
	}

	// attempt to gain "ownership" for retrieving the given key
	// from permanent storage.
	e, ours := &cacheEntry{id: id, ready: make(chan struct{})}, false
	c.Lock()
	if existing, ok := c.entries[id]; ok {
		e = existing
	} else {
		c.entries[id] = e
		ours = true
	}
	c.Unlock()

	if !ours {
		<-e.ready
		if e.size > 0 {
			return c.cache.Get(ctx, id)
		}
		return nil, ErrNotFound
	}

	// we are responsible for retrieving the blob and putting it in cache.
	defer close(e.ready)
	b, err := c.permanent.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cacheStore(ctx, id, b, e)

	return b, nil
}

func (c *CachedStorage) Put(ctx context.Context, id string, data []byte) error {
	// try putting in permanent
	if err := c.permanent.Put(ctx, id, data); err != nil {
		return err
	}
	// succeeded; store in cache too.
	e := &cacheEntry{id: id, ready: make(chan struct{})}
	c.Lock()
	c.entries[id] = e
	c.Unlock()

	defer close(e.ready)
	c.cacheStore(ctx, id, data, e)

	return nil
}

func (c *CachedStorage) Del(ctx context.Context, id string) error {
	// try deleting in permanent
	if err := c.permanent.Del(ctx, id); err != nil {
		return err
	}

	// succeeded; remove from the in-memory index and cache bucket too.
	c.Lock()
	_, existed := c.entries[id]
	delete(c.entries, id)
	c.Unlock()
	if !existed {
		return nil
	}

	if err := c.cache.Del(ctx, id); err != nil {
		log.Printf("cache does not correctly Del objects: %v", err)
	}
	return nil
}
