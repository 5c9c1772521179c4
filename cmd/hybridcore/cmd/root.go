// Package cmd provides the hybridcore CLI's cobra commands.
package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/agrama-dev/hybridcore/config"
	"github.com/agrama-dev/hybridcore/internal/chunk"
	"github.com/agrama-dev/hybridcore/internal/logging"
	"github.com/agrama-dev/hybridcore/internal/output"
	"github.com/agrama-dev/hybridcore/pkg/engine"
	"github.com/agrama-dev/hybridcore/pkg/version"
)

var debugMode bool

// NewRootCmd builds the hybridcore root command and wires every
// subcommand under it.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hybridcore",
		Short:   "Inspect the triple hybrid retrieval core over a directory of Go source",
		Version: version.Version,
	}
	cmd.SetVersionTemplate("hybridcore version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug-level logging to stderr")

	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newAddEdgeCmd())
	cmd.AddCommand(newStatsCmd())
	return cmd
}

// setupLogging installs the invocation's logger (tagged with a per-run
// trace id, for correlating log lines from the same command) as the slog
// default, returning it for commands that want to log directly.
func setupLogging() *slog.Logger {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}
	logger := logging.New(cfg).With(slog.String("trace_id", uuid.NewString()))
	slog.SetDefault(logger)
	return logger
}

// newOutput returns a Writer for cmd's stdout, isatty-aware purely as a
// hook for callers that want to branch on interactive vs piped output
// (output.Writer itself prints uncolored text with emoji status icons).
func newOutput(cmd *cobra.Command) (*output.Writer, bool) {
	interactive := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd())
	}
	return output.New(cmd.OutOrStdout()), interactive
}

// ingestDir walks dir for .go files and indexes each top-level declaration
// as a document in e. Parsed chunk lists are cached by the file's content
// hash for the duration of this call, so files with identical content
// under dir are parsed once; the cache is not kept between calls.
func ingestDir(ctx context.Context, e *engine.Engine, dir string) (int, error) {
	parseCache, err := lru.New[string, []chunk.Document](256)
	if err != nil {
		return 0, fmt.Errorf("build parse cache: %w", err)
	}

	var nextID uint32
	count := 0

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "vendor" || name == "node_modules" || name == "_examples" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		sum := sha256.Sum256(data)
		key := hex.EncodeToString(sum[:])

		docs, ok := parseCache.Get(key)
		if !ok {
			docs, err = chunk.ChunkFile(ctx, path, data)
			if err != nil {
				return fmt.Errorf("chunk %s: %w", path, err)
			}
			parseCache.Add(key, docs)
		}

		for _, doc := range docs {
			nextID++
			if err := e.AddDocument(nextID, doc.Path, []byte(doc.Text), nil, nil); err != nil {
				return fmt.Errorf("add document %s: %w", doc.Path, err)
			}
			count++
		}
		return nil
	})
	if walkErr != nil {
		return count, walkErr
	}
	return count, nil
}

// newEngineForDemo builds an Engine sized for a demonstration run: no
// embedding dimension is configured since this CLI never generates or
// supplies embeddings, only lexical and structural indexing.
func newEngineForDemo() *engine.Engine {
	return engine.New(config.DefaultConfig(0))
}
