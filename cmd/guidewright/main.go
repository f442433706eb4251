// Guidewright: the MineWright crew-manual toolkit.
//
// It serves the guide corpus (docs/agent-guides) to AI agents over MCP
// and audits the manuals for the defects prose can actually have:
// broken catalog entries, dead anchors, unclosed fences, leftover
// template placeholders, and scoring tables that don't add up.
//
// Usage:
//
//	guidewright serve           # Start MCP server (stdio transport)
//	guidewright lint            # Audit the corpus, exit 1 on errors
//	guidewright index rebuild   # Rebuild the search index
//	guidewright index search    # Query the search index
//	guidewright update          # Update to the latest version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags.
	configPath string
	verbose    bool

	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "guidewright",
	Short: "Guidewright — serve and audit the MineWright crew manuals",
	Long: `Guidewright serves the MineWright guide corpus to AI agents over MCP
and audits the manuals for structural defects.

The corpus is a directory of Markdown how-to guides cataloged by
GUIDE_INDEX.md. Guidewright never rewrites guide content: the audit
flags problems and leaves the fix to the author.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// All logging goes to stderr: stdout belongs to the MCP stdio
		// transport (and to lint/search output).
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to guidewright.yaml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
