// Package engine is the hybrid retrieval core's public surface: a single
// entry point (AddDocument, AddEdge, Clear, Search, Stats, CacheStats)
// composing the lexical, vector, and graph indexes behind the hybrid
// planner plus a document registry for path/kind lookups.
//
// It follows a fan-out composition struct, with a sync.RWMutex guarding
// the document registry (each index carries its own lock), and a
// compile-time interface assertion.
package engine

import (
	"context"
	"strconv"
	"sync"

	"github.com/agrama-dev/hybridcore/config"
	"github.com/agrama-dev/hybridcore/internal/cache"
	cerrors "github.com/agrama-dev/hybridcore/internal/errors"
	"github.com/agrama-dev/hybridcore/internal/graph"
	"github.com/agrama-dev/hybridcore/internal/lexical"
	"github.com/agrama-dev/hybridcore/internal/telemetry"
	"github.com/agrama-dev/hybridcore/internal/token"
	"github.com/agrama-dev/hybridcore/internal/vector"
	"github.com/agrama-dev/hybridcore/search"
)

// Engine is the hybrid retrieval core. It owns the lexical, vector, and
// graph indexes, the result cache, the telemetry collector, and the
// document registry (id -> path/kind) the planner needs to populate
// RankedResult.Path. The zero value is not usable; construct with New.
type Engine struct {
	cfg config.Config

	mu       sync.RWMutex
	docPaths map[uint32]string
	docKinds map[uint32]token.Kind

	lexical *lexical.Index
	vector  *vector.Index
	graph   *graph.Graph

	cache     *cache.Cache[search.RankedResult]
	telemetry *telemetry.Collector
	planner   *search.Engine
}

// New builds an Engine from cfg. cfg.EmbeddingDim fixes the dimensionality
// the vector index enforces on every AddDocument call carrying an
// embedding.
func New(cfg config.Config) *Engine {
	e := &Engine{
		cfg:       cfg,
		docPaths:  make(map[uint32]string),
		docKinds:  make(map[uint32]token.Kind),
		lexical:   lexical.New(cfg.LexicalConfig()),
		vector:    vector.New(cfg.VectorConfig()),
		graph:     graph.New(),
		telemetry: telemetry.New(),
	}
	capacity, ttl := cfg.CacheOptions()
	e.cache = cache.New[search.RankedResult](capacity, ttl, search.CloneRankedResult)
	e.planner = search.NewEngine(e.lexical, e.vector, e.graph, e,
		search.WithCache(e.cache), search.WithTelemetry(e.telemetry))
	return e
}

// Path implements search.PathResolver, letting the planner resolve a doc id
// to its ingested path without coupling the planner package to the
// registry that owns the mapping.
func (e *Engine) Path(id uint32) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.docPaths[id]
	return p, ok
}

// AddDocument ingests one document into the lexical and (if embedding is
// non-nil) vector indexes. kind, if non-nil, overrides the tokenizer's
// content-kind inference. Re-adding an existing id is an InvalidArgument
// error: every index here is append-only.
func (e *Engine) AddDocument(id uint32, path string, text []byte, embedding []float32, kind *token.Kind) error {
	e.mu.Lock()
	if _, exists := e.docPaths[id]; exists {
		e.mu.Unlock()
		return cerrors.New(cerrors.InvalidArgument, "document id already exists")
	}
	e.mu.Unlock()

	// Validate every index mutation up front, so a rejected call leaves
	// both indexes and the document registry untouched (ingestion is
	// all-or-nothing per document id).
	if embedding != nil && len(embedding) != e.cfg.EmbeddingDim {
		return cerrors.New(cerrors.InvalidArgument, "embedding dimension mismatch").
			WithDetail("expected", itoa(e.cfg.EmbeddingDim)).WithDetail("got", itoa(len(embedding)))
	}

	tokens := token.Tokenize(string(text))
	k := token.InferKind(string(text))
	if kind != nil {
		k = *kind
	}

	if err := e.lexical.AddDocument(id, tokens, toLexicalKind(k)); err != nil {
		return err
	}

	if embedding != nil {
		if err := e.vector.Add(id, embedding); err != nil {
			return err
		}
	}

	e.mu.Lock()
	e.docPaths[id] = path
	e.docKinds[id] = k
	e.mu.Unlock()

	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func toLexicalKind(k token.Kind) lexical.ContentKind {
	switch k {
	case token.KindFunction:
		return lexical.KindFunction
	case token.KindType:
		return lexical.KindType
	case token.KindVariable:
		return lexical.KindVariable
	case token.KindComment:
		return lexical.KindComment
	default:
		return lexical.KindMixed
	}
}

// AddEdge adds a directed, weighted edge to the graph index.
func (e *Engine) AddEdge(from, to uint32, weight float32) error {
	return e.graph.AddEdge(from, to, float64(weight))
}

// Clear resets every index and the document registry to empty. The result
// cache and telemetry are also cleared, since any cached result may
// reference documents that no longer exist.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docPaths = make(map[uint32]string)
	e.docKinds = make(map[uint32]token.Kind)
	e.lexical.Clear()
	e.vector.Clear()
	e.graph.Clear()
	e.cache.Clear()
	e.telemetry.Reset()
}

// Query mirrors search.HybridQuery at the public boundary.
type Query = search.HybridQuery

// Result mirrors search.RankedResult at the public boundary.
type Result = search.RankedResult

// Search executes q against the enabled sub-searches (routed by q's
// routing preference and weights), fuses their
// results, and returns the top q.K ranked results. If q.Weights is the
// zero value, the engine's configured default fusion weights are used.
func (e *Engine) Search(ctx context.Context, q Query) ([]Result, error) {
	if q.Weights == (search.Weights{}) {
		q.Weights = e.cfg.DefaultWeights()
	}
	return e.planner.Search(ctx, q)
}

// Stats returns a read-only snapshot of engine-wide query telemetry.
func (e *Engine) Stats() telemetry.Snapshot {
	return e.telemetry.Snapshot()
}

// CacheStatsView is the public shape of the result cache's hit/miss/entry
// counters.
type CacheStatsView struct {
	Hits    int64
	Misses  int64
	Entries int
	HitRate float64
}

// CacheStats returns the result cache's current counters.
func (e *Engine) CacheStats() CacheStatsView {
	s := e.cache.Stats()
	return CacheStatsView{Hits: s.Hits, Misses: s.Misses, Entries: s.Entries, HitRate: s.HitRate()}
}

// DocCount returns the number of documents currently registered.
func (e *Engine) DocCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docPaths)
}

var _ search.PathResolver = (*Engine)(nil)
