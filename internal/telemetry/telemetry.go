// Package telemetry implements the in-memory stats/timing aggregation the
// hybrid planner reports through Engine.Stats: per-query component
// timings, per-sub-search and combined counts, cache hit/miss, and an
// engine-wide running mean response time.
package telemetry

import (
	"sync"
	"time"
)

// ComponentTimings breaks a single query's wall-clock time down by stage.
type ComponentTimings struct {
	Lexical  time.Duration
	Semantic time.Duration
	Graph    time.Duration
	Fusion   time.Duration
}

// QueryStats describes one completed query.
type QueryStats struct {
	Timings       ComponentTimings
	LexicalCount  int
	SemanticCount int
	GraphCount    int
	CombinedCount int
	CacheHit      bool
}

// Snapshot is a read-only view of the collector's running state.
type Snapshot struct {
	TotalSearches   int64
	CacheHits       int64
	CacheMisses     int64
	AvgResponseTime time.Duration
	LastQuery       QueryStats
}

// Collector accumulates query statistics across the engine's lifetime.
type Collector struct {
	mu sync.Mutex

	totalSearches int64
	cacheHits     int64
	cacheMisses   int64
	avgResponseNS float64
	last          QueryStats
}

// New creates an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Record folds one completed query's stats and elapsed time into the
// running aggregates, using Welford's online mean update so the running
// average never needs the full history.
func (c *Collector) Record(q QueryStats, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalSearches++
	if q.CacheHit {
		c.cacheHits++
	} else {
		c.cacheMisses++
	}

	c.avgResponseNS += (float64(elapsed) - c.avgResponseNS) / float64(c.totalSearches)
	c.last = q
}

// Snapshot returns a copy of the collector's current state.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		TotalSearches:   c.totalSearches,
		CacheHits:       c.cacheHits,
		CacheMisses:     c.cacheMisses,
		AvgResponseTime: time.Duration(c.avgResponseNS),
		LastQuery:       c.last,
	}
}

// Reset clears all accumulated statistics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalSearches = 0
	c.cacheHits = 0
	c.cacheMisses = 0
	c.avgResponseNS = 0
	c.last = QueryStats{}
}
