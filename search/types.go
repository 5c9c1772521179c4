// Package search implements the hybrid query planner: it routes a
// HybridQuery to the enabled sub-searches (lexical, semantic, graph),
// dispatches them concurrently, normalizes each component's scores, and
// fuses them by a weighted linear combination into ranked results.
package search

import (
	"context"
	"time"

	"github.com/agrama-dev/hybridcore/internal/graph"
	"github.com/agrama-dev/hybridcore/internal/lexical"
	"github.com/agrama-dev/hybridcore/internal/vector"
)

// Weights are the fusion coefficients applied to each component's
// normalized score: combined = alpha*bm25' + beta*sem' + gamma*graph'.
type Weights struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// DefaultWeights returns alpha=0.4, beta=0.4, gamma=0.2.
func DefaultWeights() Weights {
	return Weights{Alpha: 0.4, Beta: 0.4, Gamma: 0.2}
}

// RoutingPreference steers which sub-searches the planner favors when a
// query supplies signal for more than one.
type RoutingPreference int

const (
	RouteAuto RoutingPreference = iota
	RoutePreferExact
	RoutePreferSemantic
	RoutePreferRelated
)

// weightThresholdAuto and weightThresholdPreferred are the minimum
// fusion weight a sub-search's coefficient must carry before the planner
// bothers running it, under RouteAuto and under an explicit preference
// respectively.
const (
	weightThresholdAuto      = 0.05
	weightThresholdPreferred = 0.1
)

// HybridQuery is a single request to the hybrid planner.
type HybridQuery struct {
	// Text is the lexical query string. Required non-empty.
	Text string

	// Embedding is the query vector for semantic search. Nil skips it.
	Embedding []float32

	// Seeds are the graph source node ids for structural search. Empty
	// skips it.
	Seeds []uint32

	// K is the number of ranked results to return. Required positive.
	K int

	// Hops bounds the graph search's path length (used directly as the
	// distance bound, i.e. assuming unit edge weight; values <= 0 become 1).
	Hops int

	Weights Weights
	Routing RoutingPreference

	// Deadline, if non-zero, bounds how long Search may run.
	Deadline time.Time
}

// RankedResult is one fused, ranked hit.
type RankedResult struct {
	DocID    uint32
	Path     string
	BM25     float64
	Semantic float64
	Graph    float64
	Combined float64

	MatchedTerms []string

	GraphDistance    float64
	HasGraphDistance bool
}

func cloneRankedResult(r RankedResult) RankedResult {
	terms := make([]string, len(r.MatchedTerms))
	copy(terms, r.MatchedTerms)
	r.MatchedTerms = terms
	return r
}

// PathResolver resolves a document id to its path, used to populate
// RankedResult.Path without coupling this package to the document
// registry that owns that mapping.
type PathResolver interface {
	Path(id uint32) (string, bool)
}

// LexicalIndex is the capability set the planner needs from a BM25-style
// index. internal/lexical.Index satisfies it.
type LexicalIndex interface {
	Search(ctx context.Context, tokens []string, k int) ([]lexical.Result, error)
}

// VectorIndex is the capability set the planner needs from an ANN index.
// internal/vector.Index satisfies it.
type VectorIndex interface {
	Search(ctx context.Context, query []float32, k, ef int) ([]vector.Result, error)
}

// GraphIndex is the capability set the planner needs from the structural
// index. internal/graph.Graph satisfies it.
type GraphIndex interface {
	SSSP(ctx context.Context, sources []uint32, bound float64) (graph.Result, error)
}
