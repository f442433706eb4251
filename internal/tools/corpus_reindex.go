package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ReindexTool handles the corpus_reindex MCP tool.
// It resynchronizes the search index with the guides on disk. Rebuilds
// are incremental — guides whose content hash is unchanged are skipped.
type ReindexTool struct {
	deps *Deps
}

// NewReindexTool creates a ReindexTool with its dependencies.
func NewReindexTool(deps *Deps) *ReindexTool {
	return &ReindexTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *ReindexTool) Definition() mcp.Tool {
	return mcp.NewTool("corpus_reindex",
		mcp.WithDescription(
			"Rebuild the full-text search index from the guides on disk. "+
				"Run this after editing guides when the file watcher is disabled, "+
				"or when guide_search returns stale results.",
		),
	)
}

// Handle processes the corpus_reindex tool call.
func (t *ReindexTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.deps.Index == nil {
		return mcp.NewToolResultError("the search index is unavailable — nothing to rebuild"), nil
	}

	c, err := t.deps.LoadCorpus()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := t.deps.Index.Rebuild(c)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reindex failed: %v", err)), nil
	}

	t.deps.Logger.Info("corpus reindexed",
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("removed", stats.Removed))

	return mcp.NewToolResultText(fmt.Sprintf(
		"Reindex complete: %d guides indexed (%d sections), %d unchanged, %d removed.",
		stats.Indexed, stats.Sections, stats.Skipped, stats.Removed,
	)), nil
}
