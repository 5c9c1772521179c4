// Package pool provides typed sync.Pool-backed scratch reuse for the
// per-query and per-insert allocations the retrieval core would otherwise
// make on every call: posting-count maps during BM25 ingest, visited sets
// during graph pivot estimation, and the per-query Arena bundling the
// sub-search result slices the hybrid planner fuses.
package pool

import "sync"

// maxPooledCap bounds how large a scratch object can be before it is
// dropped instead of returned to the pool, so one oversized query does not
// pin a large allocation in the pool forever.
const maxPooledCap = 4096

var enabled = true

// Configure toggles pooling. Disabled mode always allocates fresh scratch,
// useful for profiling or for isolating allocation behavior in tests.
func Configure(on bool) {
	enabled = on
}

// IsEnabled reports whether pooling is currently active.
func IsEnabled() bool {
	return enabled
}

var postingScratchPool = sync.Pool{
	New: func() any { return make(map[string]int, 64) },
}

// GetPostingScratch returns an empty map[string]int for term-frequency
// counting during BM25 document insertion.
func GetPostingScratch() map[string]int {
	if !enabled {
		return make(map[string]int, 64)
	}
	return postingScratchPool.Get().(map[string]int)
}

// PutPostingScratch clears and returns m to the pool.
func PutPostingScratch(m map[string]int) {
	if !enabled || len(m) > maxPooledCap {
		return
	}
	clear(m)
	postingScratchPool.Put(m)
}

var visitedSetPool = sync.Pool{
	New: func() any { return make(map[uint32]struct{}, 64) },
}

// GetVisitedSet returns an empty map[uint32]struct{} for BFS visited
// tracking during graph pivot estimation.
func GetVisitedSet() map[uint32]struct{} {
	if !enabled {
		return make(map[uint32]struct{}, 64)
	}
	return visitedSetPool.Get().(map[uint32]struct{})
}

// PutVisitedSet clears and returns m to the pool.
func PutVisitedSet(m map[uint32]struct{}) {
	if !enabled || len(m) > maxPooledCap {
		return
	}
	clear(m)
	visitedSetPool.Put(m)
}
