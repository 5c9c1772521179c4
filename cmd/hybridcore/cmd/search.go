package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrama-dev/hybridcore/pkg/engine"
	"github.com/agrama-dev/hybridcore/search"
)

type searchOptions struct {
	k      int
	hops   int
	alpha  float64
	beta   float64
	gamma  float64
	seeds  []uint32
	format string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <dir> <query>",
		Short: "Ingest dir then run a hybrid query against it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			out, _ := newOutput(cmd)

			dir := args[0]
			query := strings.Join(args[1:], " ")

			e := newEngineForDemo()
			if _, err := ingestDir(cmd.Context(), e, dir); err != nil {
				return err
			}

			results, err := e.Search(cmd.Context(), engine.Query{
				Text:    query,
				K:       opts.k,
				Hops:    opts.hops,
				Seeds:   opts.seeds,
				Weights: search.Weights{Alpha: opts.alpha, Beta: opts.beta, Gamma: opts.gamma},
			})
			if err != nil {
				out.Errorf("search failed: %v", err)
				return err
			}

			if opts.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for i, r := range results {
				out.Result(i+1, r.Path, r.Combined, r.BM25, r.Semantic, r.Graph, r.MatchedTerms)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.k, "k", "k", 10, "maximum results to return")
	cmd.Flags().IntVar(&opts.hops, "hops", 2, "graph search hop bound")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0.4, "lexical fusion weight")
	cmd.Flags().Float64Var(&opts.beta, "beta", 0.4, "semantic fusion weight")
	cmd.Flags().Float64Var(&opts.gamma, "gamma", 0.2, "graph fusion weight")
	cmd.Flags().Uint32SliceVar(&opts.seeds, "seeds", nil, "graph source document ids (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json")

	return cmd
}
