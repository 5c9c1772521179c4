package search

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	cerrors "github.com/agrama-dev/hybridcore/internal/errors"
	"github.com/agrama-dev/hybridcore/internal/pool"
	"github.com/agrama-dev/hybridcore/internal/telemetry"
	"github.com/agrama-dev/hybridcore/internal/token"
)

// ResultCache is the capability the planner needs from the result cache.
// internal/cache.Cache[RankedResult] satisfies it.
type ResultCache interface {
	Get(fingerprint string) ([]RankedResult, bool)
	Put(fingerprint string, results []RankedResult)
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithCache attaches a result cache. Without one, every query is computed
// fresh.
func WithCache(c ResultCache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithTelemetry attaches a stats collector. Without one, telemetry calls
// are no-ops.
func WithTelemetry(c *telemetry.Collector) EngineOption {
	return func(e *Engine) { e.telemetry = c }
}

// Engine is the hybrid query planner: it owns no index state itself,
// operating instead over the capability-set interfaces so tests (and
// alternate backends) can supply a deterministic stub.
type Engine struct {
	lexical LexicalIndex
	vector  VectorIndex
	graph   GraphIndex
	paths   PathResolver

	cache     ResultCache
	telemetry *telemetry.Collector
}

// NewEngine builds an Engine over the three sub-search capability sets
// and a path resolver for result metadata.
func NewEngine(lex LexicalIndex, vec VectorIndex, gr GraphIndex, paths PathResolver, opts ...EngineOption) *Engine {
	e := &Engine{lexical: lex, vector: vec, graph: gr, paths: paths}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) validate(q HybridQuery) error {
	if q.Text == "" {
		return cerrors.New(cerrors.InvalidArgument, "empty query text")
	}
	if q.K <= 0 {
		return cerrors.New(cerrors.InvalidArgument, "k must be positive")
	}
	if q.Hops < 0 {
		return cerrors.New(cerrors.InvalidArgument, "hops must be non-negative")
	}
	sum := q.Weights.Alpha + q.Weights.Beta + q.Weights.Gamma
	if sum < 0.99 || sum > 1.01 {
		return cerrors.New(cerrors.InvalidArgument, "weights must sum to 1.0")
	}
	if q.Weights.Alpha < 0 || q.Weights.Beta < 0 || q.Weights.Gamma < 0 {
		return cerrors.New(cerrors.InvalidArgument, "weights must be non-negative")
	}
	return nil
}

// route decides which of the three sub-searches to run given the query's
// routing preference, supplied signal (embedding/seeds), and weight
// thresholds (0.1 under an explicit preference, 0.05 under auto-routing).
func (e *Engine) route(q HybridQuery) (runLexical, runSemantic, runGraph bool) {
	hasEmbedding := len(q.Embedding) > 0
	hasSeeds := len(q.Seeds) > 0

	switch q.Routing {
	case RoutePreferExact:
		runLexical = true
		runSemantic = hasEmbedding && q.Weights.Beta > weightThresholdPreferred
		runGraph = hasSeeds && q.Weights.Gamma > weightThresholdPreferred
	case RoutePreferSemantic:
		runSemantic = hasEmbedding
		runLexical = q.Weights.Alpha > weightThresholdPreferred
		runGraph = hasSeeds && q.Weights.Gamma > weightThresholdPreferred
	case RoutePreferRelated:
		runGraph = hasSeeds
		runLexical = q.Weights.Alpha > weightThresholdPreferred
		runSemantic = hasEmbedding && q.Weights.Beta > weightThresholdPreferred
	default:
		runLexical = q.Weights.Alpha >= weightThresholdAuto
		runSemantic = hasEmbedding && q.Weights.Beta >= weightThresholdAuto
		runGraph = hasSeeds && q.Weights.Gamma >= weightThresholdAuto
	}
	return
}

// Search executes q against the enabled sub-searches, fuses their
// results, and returns the top q.K ranked results. On a cache hit, the
// cached results are returned directly. On a deadline, partial fused
// results are still returned alongside a DeadlineExceeded error.
func (e *Engine) Search(ctx context.Context, q HybridQuery) ([]RankedResult, error) {
	start := time.Now()
	arena := pool.AcquireArena()
	defer pool.ReleaseArena(arena)

	if err := e.validate(q); err != nil {
		return nil, err
	}

	if !q.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, q.Deadline)
		defer cancel()
	}

	fp := fingerprintKey(q)
	if e.cache != nil {
		if cached, ok := e.cache.Get(fp); ok {
			e.recordTelemetry(telemetry.QueryStats{CombinedCount: len(cached), CacheHit: true}, start)
			return cached, nil
		}
	}

	runLex, runSem, runGraph := e.route(q)

	var timings telemetry.ComponentTimings
	var graphBound float64

	g, gctx := errgroup.WithContext(ctx)

	if runLex {
		g.Go(func() error {
			t0 := time.Now()
			tokens := token.Tokenize(q.Text)
			results, err := e.lexical.Search(gctx, tokens, q.K*2)
			timings.Lexical = time.Since(t0)
			if err != nil {
				return err
			}
			for _, r := range results {
				arena.Lexical = append(arena.Lexical, pool.ScoredID{ID: r.DocID, Score: r.Score})
				arena.Terms[r.DocID] = r.MatchedTerms
			}
			return nil
		})
	}

	if runSem {
		g.Go(func() error {
			t0 := time.Now()
			results, err := e.vector.Search(gctx, q.Embedding, q.K*2, 0)
			timings.Semantic = time.Since(t0)
			if err != nil {
				return err
			}
			for _, r := range results {
				arena.Semantic = append(arena.Semantic, pool.ScoredID{ID: r.ID, Score: float64(r.Score)})
			}
			return nil
		})
	}

	if runGraph {
		g.Go(func() error {
			t0 := time.Now()
			graphBound = graphBoundForHops(q.Hops)
			result, err := e.graph.SSSP(gctx, q.Seeds, graphBound)
			timings.Graph = time.Since(t0)
			if err != nil {
				return err
			}
			for id, d := range result.Distances {
				arena.Graph = append(arena.Graph, pool.ScoredID{ID: id, Score: d})
			}
			return nil
		})
	}

	waitErr := g.Wait()
	if waitErr != nil && ctx.Err() == nil {
		// A sub-search failed for a reason other than a canceled or expired
		// context: short-circuit instead of fusing around the hole, per the
		// all-or-nothing error contract.
		return nil, waitErr
	}

	fuseStart := time.Now()
	fused := e.fuse(q.Weights, arena, graphBound)
	timings.Fusion = time.Since(fuseStart)

	if len(fused) > q.K {
		fused = fused[:q.K]
	}
	for i := range fused {
		if e.paths != nil {
			if p, ok := e.paths.Path(fused[i].DocID); ok {
				fused[i].Path = p
			}
		}
	}

	e.recordTelemetry(telemetry.QueryStats{
		Timings:       timings,
		LexicalCount:  len(arena.Lexical),
		SemanticCount: len(arena.Semantic),
		GraphCount:    len(arena.Graph),
		CombinedCount: len(fused),
	}, start)

	if ctx.Err() != nil {
		return fused, cerrors.Wrap(cerrors.DeadlineExceeded, "hybrid search deadline exceeded", ctx.Err())
	}

	if e.cache != nil {
		e.cache.Put(fp, fused)
	}

	return fused, nil
}

func (e *Engine) recordTelemetry(q telemetry.QueryStats, start time.Time) {
	if e.telemetry == nil {
		return
	}
	e.telemetry.Record(q, time.Since(start))
}

// graphBoundForHops converts a hop count into a distance bound, assuming
// a unit edge weight: callers wanting a different typical edge weight
// should pre-scale Hops accordingly.
func graphBoundForHops(hops int) float64 {
	if hops <= 0 {
		hops = 1
	}
	return float64(hops)
}

// fusionAccum holds one document's per-component scores while fuse folds
// the three sub-search result sets together before normalization.
type fusionAccum struct {
	bm25, sem, graphDist float64
	hasGraph             bool
	terms                []string
}

// fuse normalizes each component's scores into [0,1] and combines them by
// the weighted linear formula, breaking ties by ascending doc id. It reads
// candidates straight out of the per-query arena the caller acquired, so
// the only allocation here is the fused result slice itself.
func (e *Engine) fuse(w Weights, arena *pool.Arena, graphBound float64) []RankedResult {
	acc := make(map[uint32]*fusionAccum)

	maxLex := 0.0
	for _, h := range arena.Lexical {
		if h.Score > maxLex {
			maxLex = h.Score
		}
	}
	for _, h := range arena.Lexical {
		a := getOrCreate(acc, h.ID)
		if maxLex > 0 {
			a.bm25 = h.Score / maxLex
		}
		a.terms = arena.Terms[h.ID]
	}

	for _, h := range arena.Semantic {
		a := getOrCreate(acc, h.ID)
		s := h.Score
		if s < 0 {
			s = 0
		}
		if s > 1 {
			s = 1
		}
		a.sem = s
	}

	maxDist := 0.0
	for _, h := range arena.Graph {
		if h.Score > maxDist {
			maxDist = h.Score
		}
	}
	if maxDist == 0 {
		maxDist = graphBound
	}
	if maxDist == 0 {
		maxDist = 1
	}
	for _, h := range arena.Graph {
		a := getOrCreate(acc, h.ID)
		a.graphDist = h.Score
		a.hasGraph = true
	}

	results := make([]RankedResult, 0, len(acc))
	for id, a := range acc {
		graphScore := 0.0
		if a.hasGraph {
			graphScore = 1 - a.graphDist/maxDist
			if graphScore < 0 {
				graphScore = 0
			}
		}
		r := RankedResult{
			DocID:            id,
			BM25:             a.bm25,
			Semantic:         a.sem,
			Graph:            graphScore,
			Combined:         w.Alpha*a.bm25 + w.Beta*a.sem + w.Gamma*graphScore,
			MatchedTerms:     a.terms,
			GraphDistance:    a.graphDist,
			HasGraphDistance: a.hasGraph,
		}
		if !r.HasGraphDistance {
			r.GraphDistance = math.Inf(1)
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Combined != results[j].Combined {
			return results[i].Combined > results[j].Combined
		}
		return results[i].DocID < results[j].DocID
	})

	return results
}

func getOrCreate(m map[uint32]*fusionAccum, id uint32) *fusionAccum {
	a, ok := m[id]
	if !ok {
		a = &fusionAccum{}
		m[id] = a
	}
	return a
}
