package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <dir>",
		Short: "Ingest dir and print query telemetry and cache counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			out, _ := newOutput(cmd)

			e := newEngineForDemo()
			n, err := ingestDir(cmd.Context(), e, args[0])
			if err != nil {
				return err
			}
			out.Statusf("", "indexed %d documents from %s", n, args[0])

			snap := e.Stats()
			out.Status("", fmt.Sprintf("searches: total=%d cache_hits=%d cache_misses=%d avg_response=%s",
				snap.TotalSearches, snap.CacheHits, snap.CacheMisses, snap.AvgResponseTime))
			out.Status("", fmt.Sprintf("last query: lexical=%d semantic=%d graph=%d combined=%d cache_hit=%v",
				snap.LastQuery.LexicalCount, snap.LastQuery.SemanticCount, snap.LastQuery.GraphCount,
				snap.LastQuery.CombinedCount, snap.LastQuery.CacheHit))
			out.Status("", fmt.Sprintf("last query timings: lexical=%s semantic=%s graph=%s fusion=%s",
				snap.LastQuery.Timings.Lexical, snap.LastQuery.Timings.Semantic,
				snap.LastQuery.Timings.Graph, snap.LastQuery.Timings.Fusion))

			cacheStats := e.CacheStats()
			out.Status("", fmt.Sprintf("cache: hits=%d misses=%d entries=%d hit_rate=%.4f",
				cacheStats.Hits, cacheStats.Misses, cacheStats.Entries, cacheStats.HitRate))

			return nil
		},
	}
	return cmd
}
