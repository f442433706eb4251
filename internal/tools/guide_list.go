package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListTool handles the guide_list MCP tool.
// It presents the catalog view of the corpus: every guide, its title,
// its one-line description, and whether GUIDE_INDEX.md lists it.
type ListTool struct {
	deps *Deps
}

// NewListTool creates a ListTool with its dependencies.
func NewListTool(deps *Deps) *ListTool {
	return &ListTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("guide_list",
		mcp.WithDescription(
			"List every crew manual in the guide corpus with its title and "+
				"catalog description. Use this first to see which guides exist "+
				"before reading or searching them.",
		),
		mcp.WithString("detail_level",
			mcp.Description(
				"Level of detail: "+
					"'summary' (file names only — minimal tokens), "+
					"'standard' (table with titles and descriptions), "+
					"'full' (adds catalog status, sizes, and load errors). "+
					"Defaults to 'standard'.",
			),
			mcp.Enum(DetailSummary, DetailStandard, DetailFull),
		),
	)
}

// Handle processes the guide_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	detailLevel := req.GetString("detail_level", DetailStandard)

	c, err := t.deps.LoadCorpus()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(c.Order) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No guides found under %s. Check the corpus root in guidewright.yaml.", t.deps.Root,
		)), nil
	}

	var sb strings.Builder

	switch detailLevel {
	case DetailSummary:
		for _, path := range c.Order {
			fmt.Fprintf(&sb, "%s\n", path)
		}

	case DetailFull:
		fmt.Fprintf(&sb, "# Guide Corpus: %s\n\n", t.deps.Root)
		sb.WriteString("| Guide | Title | Listed | Size | Description |\n")
		sb.WriteString("|-------|-------|--------|------|-------------|\n")
		for _, path := range c.Order {
			g := c.Guides[path]
			listed := "✅"
			if !c.Listed(path) {
				listed = "⬜"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %d B | %s |\n",
				path, g.Title, listed, g.Size, c.Description(path))
		}
		if c.IndexMissing {
			fmt.Fprintf(&sb, "\n⚠️ The catalog file %s is missing — 'Listed' cannot be verified.\n", c.IndexFile)
		}
		for _, le := range c.LoadErrors {
			fmt.Fprintf(&sb, "\n⚠️ Failed to load %s: %v\n", le.Path, le.Err)
		}

	default:
		fmt.Fprintf(&sb, "# Guide Corpus (%d guides)\n\n", len(c.Order))
		sb.WriteString("| Guide | Title | Description |\n")
		sb.WriteString("|-------|-------|-------------|\n")
		for _, path := range c.Order {
			g := c.Guides[path]
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", path, g.Title, c.Description(path))
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
