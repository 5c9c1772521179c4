// Command hybridcore is a demonstration and inspection CLI over the hybrid
// retrieval core (pkg/engine): a cobra harness exercising ingest,
// add-edge, search, and stats against an in-process engine built fresh on
// every invocation. It does not expose a JSON-RPC/tool surface and does not
// persist the index across runs.
package main

import (
	"fmt"
	"os"

	"github.com/agrama-dev/hybridcore/cmd/hybridcore/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
