package pool

import "sync"

// ScoredID is a (document id, score) pair; the scratch slice shape shared
// by lexical, semantic, and graph candidate lists before fusion. For the
// graph list, Score holds the BMSSP distance rather than a similarity
// score.
type ScoredID struct {
	ID    uint32
	Score float64
}

// Arena bundles the per-query scratch the hybrid planner needs: one
// candidate slice per sub-search, plus the matched-term lists the lexical
// sub-search attaches per document id. A caller acquires an Arena at the
// start of Search and releases it via defer on every exit path, including
// early returns on invalid arguments.
type Arena struct {
	Lexical  []ScoredID
	Semantic []ScoredID
	Graph    []ScoredID
	Terms    map[uint32][]string
}

func (a *Arena) reset() {
	a.Lexical = a.Lexical[:0]
	a.Semantic = a.Semantic[:0]
	a.Graph = a.Graph[:0]
	clear(a.Terms)
}

var arenaPool = sync.Pool{
	New: func() any {
		return &Arena{
			Lexical:  make([]ScoredID, 0, 32),
			Semantic: make([]ScoredID, 0, 32),
			Graph:    make([]ScoredID, 0, 32),
			Terms:    make(map[uint32][]string, 32),
		}
	},
}

// AcquireArena returns a reset Arena, from the pool if pooling is enabled.
func AcquireArena() *Arena {
	if !enabled {
		return &Arena{Terms: make(map[uint32][]string, 32)}
	}
	a := arenaPool.Get().(*Arena)
	a.reset()
	return a
}

// ReleaseArena returns a to the pool unless it grew past maxPooledCap on
// any of its slices, in which case it is dropped so one oversized query
// does not permanently bloat the pool.
func ReleaseArena(a *Arena) {
	if !enabled || a == nil {
		return
	}
	if cap(a.Lexical) > maxPooledCap || cap(a.Semantic) > maxPooledCap || cap(a.Graph) > maxPooledCap {
		return
	}
	arenaPool.Put(a)
}
