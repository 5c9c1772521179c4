// Package cache implements the hybrid planner's result cache: a
// SHA-256-fingerprinted, TTL-expiring map whose eviction policy removes
// expired-or-rarely-accessed entries rather than behaving as a pure LRU.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"time"
)

type entry[T any] struct {
	results     []T
	createdAt   time.Time
	accessCount int
}

// Stats is a snapshot of cache-wide counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns hits / (hits + misses), or 0 if there have been no
// lookups yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a generic, fingerprint-keyed result cache. T is cloned via the
// caller-supplied clone function on every Get and Put, so cached entries
// never alias a caller's backing slices.
type Cache[T any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	clone    func(T) T

	entries map[string]*entry[T]
	hits    int64
	misses  int64
}

// New creates a Cache with the given capacity and TTL. clone must return a
// deep copy of its argument (at minimum, copying any slice/map fields).
func New[T any](capacity int, ttl time.Duration, clone func(T) T) *Cache[T] {
	return &Cache[T]{
		ttl:      ttl,
		capacity: capacity,
		clone:    clone,
		entries:  make(map[string]*entry[T]),
	}
}

// Get returns a cloned copy of the cached results for fingerprint, or
// (nil, false) on a miss, including for an expired entry, which is evicted
// eagerly on lookup.
func (c *Cache[T]) Get(fingerprint string) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Since(e.createdAt) > c.ttl {
		delete(c.entries, fingerprint)
		c.misses++
		return nil, false
	}

	e.accessCount++
	c.hits++

	out := make([]T, len(e.results))
	for i, r := range e.results {
		out[i] = c.clone(r)
	}
	return out, true
}

// Put inserts results under fingerprint, evicting if the cache is already
// at capacity.
func (c *Cache[T]) Put(fingerprint string, results []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fingerprint]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}

	cp := make([]T, len(results))
	for i, r := range results {
		cp[i] = c.clone(r)
	}
	c.entries[fingerprint] = &entry[T]{results: cp, createdAt: time.Now(), accessCount: 0}
}

// evictLocked removes every expired-or-rarely-accessed (access_count < 2)
// entry. If nothing qualifies (every entry is fresh and well-used), the
// oldest entry is evicted as a last resort so Put can always proceed.
func (c *Cache[T]) evictLocked() {
	removed := 0
	for fp, e := range c.entries {
		if time.Since(e.createdAt) > c.ttl || e.accessCount < 2 {
			delete(c.entries, fp)
			removed++
		}
	}
	if removed > 0 {
		return
	}

	var oldestFP string
	var oldestAt time.Time
	first := true
	for fp, e := range c.entries {
		if first || e.createdAt.Before(oldestAt) {
			oldestFP = fp
			oldestAt = e.createdAt
			first = false
		}
	}
	if oldestFP != "" {
		delete(c.entries, oldestFP)
	}
}

// Stats returns a snapshot of cache-wide counters.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Clear removes all entries and resets hit/miss counters.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[T])
	c.hits, c.misses = 0, 0
}

// Fingerprint hashes every component of a hybrid query that affects its
// result set into a single cache key.
func Fingerprint(text string, embedding []float32, seeds []uint32, k, hops int, alpha, beta, gamma float64) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})

	for _, f := range embedding {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		h.Write(buf[:])
	}
	h.Write([]byte{0})

	for _, s := range seeds {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], s)
		h.Write(buf[:])
	}
	h.Write([]byte{0})

	var ibuf [16]byte
	binary.LittleEndian.PutUint64(ibuf[0:8], uint64(k))
	binary.LittleEndian.PutUint64(ibuf[8:16], uint64(hops))
	h.Write(ibuf[:])

	var wbuf [24]byte
	binary.LittleEndian.PutUint64(wbuf[0:8], math.Float64bits(alpha))
	binary.LittleEndian.PutUint64(wbuf[8:16], math.Float64bits(beta))
	binary.LittleEndian.PutUint64(wbuf[16:24], math.Float64bits(gamma))
	h.Write(wbuf[:])

	return hex.EncodeToString(h.Sum(nil))
}
