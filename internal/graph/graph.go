// Package graph implements the structural search component: a directed,
// weighted graph plus BMSSP (Bounded Multi-Source Shortest Paths), a
// recursive bounded-frontier shortest-path algorithm that falls back to
// ordinary label-setting (Dijkstra) for small source sets or at the
// recursion's base case.
package graph

import (
	"context"
	"math"
	"sort"
	"sync"

	cerrors "github.com/agrama-dev/hybridcore/internal/errors"
	"github.com/agrama-dev/hybridcore/internal/pool"
)

// Edge is a directed, weighted graph edge.
type Edge struct {
	To     uint32
	Weight float64
}

// Graph is the structural index: an adjacency list keyed by integer node
// id, safe for concurrent readers and a single writer via sync.RWMutex.
type Graph struct {
	mu        sync.RWMutex
	adjacency map[uint32][]Edge
	nodes     map[uint32]struct{}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[uint32][]Edge),
		nodes:     make(map[uint32]struct{}),
	}
}

// AddEdge adds a directed edge from -> to with the given weight. Weight
// must be finite and non-negative (BMSSP, like Dijkstra, assumes no
// negative edges).
func (g *Graph) AddEdge(from, to uint32, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return cerrors.New(cerrors.InvalidArgument, "edge weight must be finite and non-negative")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, Weight: weight})
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}
	return nil
}

// NodeCount returns the number of distinct nodes touched by any edge.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the total number of directed edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, edges := range g.adjacency {
		total += len(edges)
	}
	return total
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.adjacency = make(map[uint32][]Edge)
	g.nodes = make(map[uint32]struct{})
}

// Result is the output of a bounded shortest-path query: per-node
// distance and predecessor for path reconstruction, plus a count of
// nodes the search finalized (for telemetry).
type Result struct {
	Distances    map[uint32]float64
	Predecessors map[uint32]uint32
	HasPred      map[uint32]bool
	NodesVisited int
}

// ShouldUseBMSSP is the advisory function callers may consult to decide
// whether BMSSP's recursive partitioning is worth its overhead versus a
// single label-setting pass, comparing m*log(n)^(2/3) against m + n*log(n).
func (g *Graph) ShouldUseBMSSP() bool {
	n := float64(g.NodeCount())
	m := float64(g.EdgeCount())
	if n <= 1 {
		return false
	}
	logN := math.Log2(n)
	bmsspCost := m * math.Pow(logN, 2.0/3.0)
	labelSettingCost := m + n*logN
	return bmsspCost < labelSettingCost
}

const pivotBFSCap = 100

// SSSP computes bounded multi-source shortest paths from sources, only
// finalizing nodes within distance bound, using BMSSP's recursive
// partitioning when the graph is large enough to benefit (degrading
// gracefully to label-setting otherwise, via the recursion's own base
// case).
func (g *Graph) SSSP(ctx context.Context, sources []uint32, bound float64) (Result, error) {
	if len(sources) == 0 {
		return Result{Distances: map[uint32]float64{}, Predecessors: map[uint32]uint32{}, HasPred: map[uint32]bool{}}, nil
	}
	if bound < 0 {
		return Result{}, cerrors.New(cerrors.InvalidArgument, "bound must be non-negative")
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	select {
	case <-ctx.Done():
		return Result{}, cerrors.Wrap(cerrors.DeadlineExceeded, "graph search deadline exceeded", ctx.Err())
	default:
	}

	n := len(g.nodes)
	k := max(1, int(math.Floor(math.Log2(math.Cbrt(float64(n))))))
	t := max(1, int(math.Floor(math.Log2(math.Pow(float64(n), 2.0/3.0)))))
	level := max(1, int(math.Ceil(math.Log2(float64(n))/float64(t))))

	pr := g.bmssp(ctx, sources, bound, level, k)
	return Result{
		Distances:    pr.dist,
		Predecessors: pr.pred,
		HasPred:      pr.hasPred,
		NodesVisited: pr.visited,
	}, nil
}

type partialResult struct {
	dist    map[uint32]float64
	pred    map[uint32]uint32
	hasPred map[uint32]bool
	visited int
}

func newPartialResult() partialResult {
	return partialResult{
		dist:    make(map[uint32]float64),
		pred:    make(map[uint32]uint32),
		hasPred: make(map[uint32]bool),
	}
}

// mergeFrom folds sub into pr, keeping the minimum distance known for
// each node and the predecessor that produced it.
func (pr *partialResult) mergeFrom(sub partialResult) {
	for id, d := range sub.dist {
		if cur, ok := pr.dist[id]; !ok || d < cur {
			pr.dist[id] = d
			if sub.hasPred[id] {
				pr.pred[id] = sub.pred[id]
				pr.hasPred[id] = true
			} else {
				delete(pr.pred, id)
				pr.hasPred[id] = false
			}
		}
	}
	pr.visited += sub.visited
}

// bmssp is the recursive bounded multi-source shortest path routine: at
// level 0 or when the source set is already small (<=k), it falls back to
// ordinary label-setting; otherwise it selects a reduced set of pivot
// sources and recurses at half the bound and one level down, merging the
// partial results.
func (g *Graph) bmssp(ctx context.Context, sources []uint32, bound float64, level, k int) partialResult {
	select {
	case <-ctx.Done():
		return newPartialResult()
	default:
	}

	if level <= 0 || len(sources) <= k {
		return g.labelSetting(ctx, sources, bound)
	}

	pivotSets := g.selectPivots(sources, bound, k)
	merged := newPartialResult()
	for _, pset := range pivotSets {
		sub := g.bmssp(ctx, pset, bound/2, level-1, k)
		merged.mergeFrom(sub)
	}
	return merged
}

// selectPivots estimates, for each candidate source, how many nodes it can
// reach within bound (capped BFS), keeps the candidates with the smallest
// reach, and returns them as singleton pivot subsets.
func (g *Graph) selectPivots(sources []uint32, bound float64, k int) [][]uint32 {
	limit := len(sources) / k
	if limit < 1 {
		limit = 1
	}

	type cand struct {
		id       uint32
		estimate int
	}
	cands := make([]cand, 0, len(sources))
	for _, s := range sources {
		est := g.boundedBFSEstimate(s, bound, pivotBFSCap)
		cands = append(cands, cand{id: s, estimate: est})
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i].estimate < cands[j].estimate })
	if len(cands) > limit {
		cands = cands[:limit]
	}

	pivots := make([][]uint32, len(cands))
	for i, c := range cands {
		pivots[i] = []uint32{c.id}
	}
	return pivots
}

func (g *Graph) boundedBFSEstimate(src uint32, bound float64, cap int) int {
	visited := pool.GetVisitedSet()
	defer pool.PutVisitedSet(visited)

	visited[src] = struct{}{}
	queue := []uint32{src}
	count := 1
	for len(queue) > 0 && count < cap {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.adjacency[cur] {
			if e.Weight > bound {
				continue
			}
			if _, seen := visited[e.To]; seen {
				continue
			}
			visited[e.To] = struct{}{}
			count++
			queue = append(queue, e.To)
			if count >= cap {
				break
			}
		}
	}
	return count
}

// labelSetting is the Dijkstra-equivalent fallback: a bucketed frontier
// drains nodes in ascending distance order, finalizing each at most once
// and relaxing its outgoing edges.
func (g *Graph) labelSetting(ctx context.Context, sources []uint32, bound float64) partialResult {
	pr := newPartialResult()

	q := newBucketQueue(bound, 64)
	seeds := make([]bucketEntry, 0, len(sources))
	for _, s := range sources {
		if _, ok := pr.dist[s]; !ok {
			pr.dist[s] = 0
			pr.hasPred[s] = false
			seeds = append(seeds, bucketEntry{node: s, dist: 0})
		}
	}
	q.BatchPrepend(seeds)

	finalized := make(map[uint32]bool)

	for !q.Empty() {
		select {
		case <-ctx.Done():
			return pr
		default:
		}

		batch := q.Pull(1)
		for _, e := range batch {
			if finalized[e.node] {
				continue
			}
			if d, ok := pr.dist[e.node]; !ok || d < e.dist {
				continue
			}
			finalized[e.node] = true
			pr.visited++

			for _, edge := range g.adjacency[e.node] {
				if edge.To == e.node {
					continue
				}
				nd := pr.dist[e.node] + edge.Weight
				if nd > bound {
					continue
				}
				if cur, ok := pr.dist[edge.To]; !ok || nd < cur {
					pr.dist[edge.To] = nd
					pr.pred[edge.To] = e.node
					pr.hasPred[edge.To] = true
					q.Insert(edge.To, nd)
				}
			}
		}
	}

	return pr
}

// ReconstructPath walks predecessors from target back to a source,
// returning the path in source-to-target order. Returns false if target
// was never reached.
func ReconstructPath(r Result, target uint32) ([]uint32, bool) {
	if _, ok := r.Distances[target]; !ok {
		return nil, false
	}
	path := []uint32{target}
	cur := target
	for r.HasPred[cur] {
		cur = r.Predecessors[cur]
		path = append(path, cur)
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
