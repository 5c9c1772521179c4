// Package vector implements a hand-rolled HNSW-style approximate nearest
// neighbor index over float32 embeddings: layered proximity graph with
// per-layer neighbor caps, greedy descent from the top layer, and a
// best-first search at layer 0.
package vector

import (
	"container/heap"
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	cerrors "github.com/agrama-dev/hybridcore/internal/errors"
)

// Config tunes the index's layer fan-out and search breadth.
type Config struct {
	Dim            int
	M              int // max neighbors per layer above 0 (default 16)
	EfConstruction int // candidate list size used while inserting (default 200)
	EfSearch       int // default candidate list size used while searching (default 50)
}

// DefaultConfig returns M=16, EfConstruction=200, EfSearch=50 for the given
// embedding dimension.
func DefaultConfig(dim int) Config {
	return Config{Dim: dim, M: 16, EfConstruction: 200, EfSearch: 50}
}

func (c Config) m0() int {
	return 2 * c.M
}

type node struct {
	id        uint32
	vector    []float32
	level     int
	neighbors [][]uint32 // neighbors[l] = neighbor ids at layer l
}

// Result is a single nearest-neighbor hit.
type Result struct {
	ID       uint32
	Distance float32 // 1 - cosine similarity
	Score    float32 // cosine similarity, in [-1, 1]
}

// Index is the hand-rolled layered proximity graph.
type Index struct {
	mu sync.RWMutex

	cfg Config

	nodes      map[uint32]*node
	entryPoint uint32
	hasEntry   bool
	maxLevel   int

	levelMult float64
	rng       *rand.Rand
}

// New creates an empty Index.
func New(cfg Config) *Index {
	return &Index{
		cfg:       cfg,
		nodes:     make(map[uint32]*node),
		levelMult: 1 / math.Ln2,
		rng:       rand.New(rand.NewSource(1)),
	}
}

func (ix *Index) randomLevel() int {
	level := int(math.Floor(-math.Log(ix.rng.Float64()) * ix.levelMult))
	const capLevel = 32
	if level > capLevel {
		level = capLevel
	}
	return level
}

// Add inserts vec under id. Returns InvalidArgument if vec's dimension does
// not match the index's configured dimension or id is already present.
func (ix *Index) Add(id uint32, vec []float32) error {
	if len(vec) != ix.cfg.Dim {
		return cerrors.New(cerrors.InvalidArgument, "embedding dimension mismatch").
			WithDetail("expected", itoa(ix.cfg.Dim)).WithDetail("got", itoa(len(vec)))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.nodes[id]; exists {
		return cerrors.New(cerrors.InvalidArgument, "vector id already indexed")
	}

	level := ix.randomLevel()
	n := &node{id: id, vector: vec, level: level, neighbors: make([][]uint32, level+1)}
	ix.nodes[id] = n

	if !ix.hasEntry {
		ix.entryPoint = id
		ix.hasEntry = true
		ix.maxLevel = level
		return nil
	}

	entry := ix.entryPoint
	curDist := ix.distance(ix.nodes[entry].vector, vec)

	for l := ix.maxLevel; l > level; l-- {
		entry, curDist = ix.greedyStep(entry, curDist, vec, l)
	}

	for l := min(level, ix.maxLevel); l >= 0; l-- {
		candidates := ix.searchLayer(vec, entry, ix.cfg.EfConstruction, l)
		m := ix.cfg.M
		if l == 0 {
			m = ix.cfg.m0()
		}
		selected := selectNeighbors(candidates, m)
		n.neighbors[l] = selected

		for _, nb := range selected {
			nbNode := ix.nodes[nb]
			nbNode.neighbors[l] = append(nbNode.neighbors[l], id)
			cap := ix.cfg.M
			if l == 0 {
				cap = ix.cfg.m0()
			}
			if len(nbNode.neighbors[l]) > cap {
				nbNode.neighbors[l] = ix.pruneNeighbors(nbNode, l, cap)
			}
		}
		if len(candidates) > 0 {
			entry = candidates[0].id
		}
	}

	if level > ix.maxLevel {
		ix.maxLevel = level
		ix.entryPoint = id
	}

	return nil
}

func (ix *Index) pruneNeighbors(n *node, layer, cap int) []uint32 {
	items := make([]distItem, 0, len(n.neighbors[layer]))
	for _, id := range n.neighbors[layer] {
		items = append(items, distItem{id: id, dist: 1 - cosineSimilarity(n.vector, ix.nodes[id].vector)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].dist < items[j].dist })
	if len(items) > cap {
		items = items[:cap]
	}
	out := make([]uint32, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func (ix *Index) distance(a, b []float32) float32 {
	return 1 - cosineSimilarity(a, b)
}

// greedyStep does a single-layer greedy descent: repeatedly move to the
// neighbor of entry closest to target, until no neighbor improves on
// curDist.
func (ix *Index) greedyStep(entry uint32, curDist float32, target []float32, layer int) (uint32, float32) {
	improved := true
	for improved {
		improved = false
		n := ix.nodes[entry]
		if layer >= len(n.neighbors) {
			break
		}
		for _, nb := range n.neighbors[layer] {
			d := ix.distance(ix.nodes[nb].vector, target)
			if d < curDist {
				curDist = d
				entry = nb
				improved = true
			}
		}
	}
	return entry, curDist
}

type distItem struct {
	id   uint32
	dist float32
}

// candidateHeap is a min-heap ordered by ascending distance.
type candidateHeap []distItem

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(distItem)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// resultHeap is a max-heap ordered by descending distance, used to keep
// only the best `ef` candidates seen so far during best-first search.
type resultHeap []distItem

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(distItem)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// searchLayer performs best-first search for ef nearest neighbors to
// target on the given layer, starting from entry.
func (ix *Index) searchLayer(target []float32, entry uint32, ef int, layer int) []distItem {
	visited := map[uint32]struct{}{entry: {}}
	entryDist := ix.distance(ix.nodes[entry].vector, target)

	candidates := &candidateHeap{{id: entry, dist: entryDist}}
	heap.Init(candidates)
	results := &resultHeap{{id: entry, dist: entryDist}}
	heap.Init(results)

	for candidates.Len() > 0 {
		cur := heap.Pop(candidates).(distItem)
		if results.Len() >= ef && cur.dist > (*results)[0].dist {
			break
		}

		n := ix.nodes[cur.id]
		if layer >= len(n.neighbors) {
			continue
		}
		for _, nbID := range n.neighbors[layer] {
			if _, seen := visited[nbID]; seen {
				continue
			}
			visited[nbID] = struct{}{}
			d := ix.distance(ix.nodes[nbID].vector, target)
			if results.Len() < ef || d < (*results)[0].dist {
				heap.Push(candidates, distItem{id: nbID, dist: d})
				heap.Push(results, distItem{id: nbID, dist: d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]distItem, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(distItem)
	}
	return out
}

func selectNeighbors(candidates []distItem, m int) []uint32 {
	if len(candidates) > m {
		candidates = candidates[:m]
	}
	out := make([]uint32, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

// Search returns the k nearest neighbors to query, searching with breadth
// ef (falling back to cfg.EfSearch if ef <= 0).
func (ix *Index) Search(ctx context.Context, query []float32, k, ef int) ([]Result, error) {
	if len(query) != ix.cfg.Dim {
		return nil, cerrors.New(cerrors.InvalidArgument, "query dimension mismatch")
	}
	if k <= 0 {
		return nil, cerrors.New(cerrors.InvalidArgument, "k must be positive")
	}
	if ef <= 0 {
		ef = ix.cfg.EfSearch
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.hasEntry {
		return nil, nil
	}

	select {
	case <-ctx.Done():
		return nil, cerrors.Wrap(cerrors.DeadlineExceeded, "vector search deadline exceeded", ctx.Err())
	default:
	}

	entry := ix.entryPoint
	curDist := ix.distance(ix.nodes[entry].vector, query)
	for l := ix.maxLevel; l > 0; l-- {
		select {
		case <-ctx.Done():
			return nil, cerrors.Wrap(cerrors.DeadlineExceeded, "vector search deadline exceeded", ctx.Err())
		default:
		}
		entry, curDist = ix.greedyStep(entry, curDist, query, l)
	}
	_ = curDist

	candidates := ix.searchLayer(query, entry, max(ef, k), 0)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{ID: c.id, Distance: c.dist, Score: 1 - c.dist}
	}
	return results, nil
}

// Count returns the number of indexed vectors.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.nodes)
}

// Clear removes all indexed vectors.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.nodes = make(map[uint32]*node)
	ix.hasEntry = false
	ix.maxLevel = 0
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
