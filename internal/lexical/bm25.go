// Package lexical implements the BM25 inverted index: term postings, a
// document-frequency map, a running average document length, and
// content-kind-weighted scoring.
package lexical

import (
	"context"
	"math"
	"sort"
	"sync"

	cerrors "github.com/agrama-dev/hybridcore/internal/errors"
	"github.com/agrama-dev/hybridcore/internal/pool"
)

// ContentKind classifies a document's content for the BM25 weight
// multiplier table.
type ContentKind uint8

const (
	KindMixed ContentKind = iota
	KindFunction
	KindType
	KindVariable
	KindComment
)

// DefaultKindWeights is the content-kind weight multiplier table.
func DefaultKindWeights() map[ContentKind]float64 {
	return map[ContentKind]float64{
		KindFunction: 3.0,
		KindType:     2.5,
		KindVariable: 2.0,
		KindComment:  1.0,
		KindMixed:    1.0,
	}
}

// Config holds the BM25 tuning parameters.
type Config struct {
	K1          float64
	B           float64
	KindWeights map[ContentKind]float64
}

// DefaultConfig returns k1=1.2, b=0.75 with the default kind weight table.
func DefaultConfig() Config {
	return Config{K1: 1.2, B: 0.75, KindWeights: DefaultKindWeights()}
}

type posting struct {
	docID uint32
	freq  int
}

// Result is a single scored document from Search.
type Result struct {
	DocID        uint32
	Score        float64
	MatchedTerms []string
}

// Stats is a snapshot of index-wide corpus statistics.
type Stats struct {
	DocCount    int
	TermCount   int
	AvgDocLen   float64
	TotalTokens int
}

// Index is the hand-rolled BM25 inverted index.
type Index struct {
	mu sync.RWMutex

	cfg Config

	postings map[string][]posting
	df       map[string]int
	docLen   map[uint32]int
	docKind  map[uint32]ContentKind

	totalTokens int
}

// New creates an empty Index.
func New(cfg Config) *Index {
	if cfg.KindWeights == nil {
		cfg.KindWeights = DefaultKindWeights()
	}
	return &Index{
		cfg:      cfg,
		postings: make(map[string][]posting),
		df:       make(map[string]int),
		docLen:   make(map[uint32]int),
		docKind:  make(map[uint32]ContentKind),
	}
}

// AddDocument indexes tokens under docID with the given content kind.
// Re-adding an existing docID is a caller error (InvalidArgument): the
// index has no update-in-place path, only append-only ingestion.
func (ix *Index) AddDocument(docID uint32, tokens []string, kind ContentKind) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.docLen[docID]; exists {
		return cerrors.New(cerrors.InvalidArgument, "document id already indexed").
			WithDetail("doc_id", itoa(docID))
	}

	counts := pool.GetPostingScratch()
	defer pool.PutPostingScratch(counts)

	for _, t := range tokens {
		counts[t]++
	}

	for term, freq := range counts {
		if _, ok := ix.postings[term]; !ok {
			ix.df[term] = 0
		}
		ix.postings[term] = append(ix.postings[term], posting{docID: docID, freq: freq})
		ix.df[term]++
	}

	ix.docLen[docID] = len(tokens)
	ix.docKind[docID] = kind
	ix.totalTokens += len(tokens)

	return nil
}

func (ix *Index) avgDocLenLocked() float64 {
	if len(ix.docLen) == 0 {
		return 0
	}
	return float64(ix.totalTokens) / float64(len(ix.docLen))
}

// idf computes the BM25 IDF term using the log(1+x) smoothing variant,
// which stays positive for every df in [0, n] (unlike the classic
// log((n-df+0.5)/(df+0.5)) form, which goes negative once a term occurs
// in more than half the corpus). df(t)=0 is the only term that scores
// zero, matching "s = 0 iff none of the query terms occur".
func (ix *Index) idf(term string) float64 {
	n := float64(len(ix.docLen))
	df := float64(ix.df[term])
	if df == 0 {
		return 0
	}
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// Search scores every document containing at least one query token and
// returns the top k by combined BM25 score, ties broken by ascending
// doc id.
func (ix *Index) Search(ctx context.Context, queryTokens []string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, cerrors.New(cerrors.InvalidArgument, "k must be positive")
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	avgdl := ix.avgDocLenLocked()
	scores := make(map[uint32]float64)
	matched := make(map[uint32][]string)

	for _, term := range dedupe(queryTokens) {
		select {
		case <-ctx.Done():
			return topK(scores, matched, k), cerrors.Wrap(cerrors.DeadlineExceeded, "bm25 search deadline exceeded", ctx.Err())
		default:
		}

		plist, ok := ix.postings[term]
		if !ok {
			continue
		}
		idf := ix.idf(term)
		if idf == 0 {
			continue
		}
		for _, p := range plist {
			dl := float64(ix.docLen[p.docID])
			f := float64(p.freq)
			tf := (f * (ix.cfg.K1 + 1)) / (f + ix.cfg.K1*(1-ix.cfg.B+ix.cfg.B*dl/avgdl))
			weight := ix.cfg.KindWeights[ix.docKind[p.docID]]
			if weight == 0 {
				weight = 1.0
			}
			scores[p.docID] += idf * tf * weight
			matched[p.docID] = append(matched[p.docID], term)
		}
	}

	return topK(scores, matched, k), nil
}

func topK(scores map[uint32]float64, matched map[uint32][]string, k int) []Result {
	results := make([]Result, 0, len(scores))
	for id, score := range scores {
		results = append(results, Result{DocID: id, Score: score, MatchedTerms: matched[id]})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Stats returns a snapshot of index-wide corpus statistics.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return Stats{
		DocCount:    len(ix.docLen),
		TermCount:   len(ix.postings),
		AvgDocLen:   ix.avgDocLenLocked(),
		TotalTokens: ix.totalTokens,
	}
}

// DocumentFrequency returns df(t), the number of documents containing
// term t. Exposed so callers (and tests) can assert the BM25 invariant
// directly against the corpus.
func (ix *Index) DocumentFrequency(term string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.df[term]
}

// Clear removes all indexed documents, resetting the index to empty.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.postings = make(map[string][]posting)
	ix.df = make(map[string]int)
	ix.docLen = make(map[uint32]int)
	ix.docKind = make(map[uint32]ContentKind)
	ix.totalTokens = 0
}

func itoa(id uint32) string {
	if id == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = byte('0' + id%10)
		id /= 10
	}
	return string(buf[i:])
}
