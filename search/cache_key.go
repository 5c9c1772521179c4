package search

import "github.com/agrama-dev/hybridcore/internal/cache"

// fingerprintKey hashes every input of q that affects its result set into
// a single result-cache key.
func fingerprintKey(q HybridQuery) string {
	return cache.Fingerprint(q.Text, q.Embedding, q.Seeds, q.K, q.Hops, q.Weights.Alpha, q.Weights.Beta, q.Weights.Gamma)
}

// CloneRankedResult deep-copies r, for use as the clone function of a
// cache.Cache[RankedResult].
func CloneRankedResult(r RankedResult) RankedResult {
	return cloneRankedResult(r)
}
