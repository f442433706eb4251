package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/minewright/guidewright/internal/index"
)

// SearchTool handles the guide_search MCP tool.
// It runs full-text search over guide sections via the SQLite index.
type SearchTool struct {
	deps *Deps
}

// NewSearchTool creates a SearchTool with its dependencies.
func NewSearchTool(deps *Deps) *SearchTool {
	return &SearchTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("guide_search",
		mcp.WithDescription(
			"Full-text search across every crew manual, section by section. "+
				"Returns the matching sections with guide, heading, and a snippet. "+
				"Follow up with guide_get to read a whole matching section.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms, e.g. 'drowned trident drop rate'. Plain words — operators are quoted away."),
		),
		mcp.WithString("guide",
			mcp.Description("Optional guide file name to restrict the search to, e.g. 'BEE_HOWTO.md'."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return. Defaults to 10."),
		),
	)
}

// Handle processes the guide_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.deps.Index == nil {
		return mcp.NewToolResultError(
			"the search index is unavailable — use guide_list and guide_get to browse guides directly",
		), nil
	}

	query := req.GetString("query", "")
	guideFilter := req.GetString("guide", "")
	limit := int(req.GetFloat("limit", 10))

	results, err := t.deps.Index.Search(query, index.SearchOptions{
		Guide: guideFilter,
		Limit: limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No sections match %q. Try broader terms, or run corpus_reindex if guides changed recently.",
			query,
		)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Search: %q (%d results)\n\n", query, len(results))
	for i, r := range results {
		fmt.Fprintf(&sb, "## %d. %s — %s\n", i+1, r.GuideTitle, r.Heading)
		fmt.Fprintf(&sb, "_%s:%d_\n\n", r.GuidePath, r.StartLine)
		fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(r.Snippet))
	}
	sb.WriteString("Use guide_get with the guide and section heading to read the full section.\n")

	return mcp.NewToolResultText(sb.String()), nil
}
