package cmd

import (
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Index every .go file under dir and print corpus statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			out, _ := newOutput(cmd)
			e := newEngineForDemo()

			n, err := ingestDir(cmd.Context(), e, args[0])
			if err != nil {
				return err
			}

			out.Successf("indexed %d documents from %s", n, args[0])
			out.Statusf("", "doc count: %d", e.DocCount())
			return nil
		},
	}
	return cmd
}
