package main

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/minewright/guidewright/internal/server"
	"github.com/minewright/guidewright/internal/updater"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the Guidewright MCP server on the stdio transport.

The server exposes the guide corpus as tools (guide_list, guide_get,
guide_search, guide_audit, corpus_reindex), resources, and prompts.
When watching is enabled, guide edits are reindexed automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := server.New(configPath, logger)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		// Background version check — prints to stderr so it doesn't
		// interfere with MCP's stdio transport on stdout.
		go checkForUpdates()

		return mcpserver.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// checkForUpdates runs a best-effort version check and prints a notice
// to stderr when a newer release exists.
func checkForUpdates() {
	result := updater.CheckVersion(server.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"guidewright %s is available (running %s) — run 'guidewright update'\n",
			result.LatestVersion, result.CurrentVersion)
	}
}
