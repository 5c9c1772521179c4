package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newAddEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-edge <dir> <from> <to> <weight>",
		Short: "Ingest dir then add one directed graph edge between two document ids",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			out, _ := newOutput(cmd)

			from, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return err
			}
			to, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return err
			}
			weight, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return err
			}

			e := newEngineForDemo()
			n, err := ingestDir(cmd.Context(), e, args[0])
			if err != nil {
				return err
			}
			out.Statusf("", "indexed %d documents from %s", n, args[0])

			if err := e.AddEdge(uint32(from), uint32(to), float32(weight)); err != nil {
				out.Errorf("add edge failed: %v", err)
				return err
			}

			out.Successf("added edge %d -> %d (weight %.4f)", from, to, weight)
			return nil
		},
	}
	return cmd
}
