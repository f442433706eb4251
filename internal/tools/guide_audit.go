package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/minewright/guidewright/internal/lint"
)

// AuditTool handles the guide_audit MCP tool.
// It runs the structural audit over the corpus and reports findings —
// the audit flags problems, it never edits guide content.
type AuditTool struct {
	deps *Deps
}

// NewAuditTool creates an AuditTool with its dependencies.
func NewAuditTool(deps *Deps) *AuditTool {
	return &AuditTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AuditTool) Definition() mcp.Tool {
	return mcp.NewTool("guide_audit",
		mcp.WithDescription(
			"Audit the guide corpus: catalog consistency (every GUIDE_INDEX.md "+
				"entry resolves to a file and vice versa), anchor and cross-link "+
				"resolution, unclosed code fences, unresolved {{placeholders}}, "+
				"and scoring-table arithmetic. Findings are flagged, never fixed.",
		),
		mcp.WithString("rules",
			mcp.Description(
				"Optional comma-separated rule ID prefixes to restrict the audit, "+
					"e.g. 'index/' or 'anchor/,link/'. Empty runs everything.",
			),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default) or 'text' (one grep-friendly line per finding)."),
			mcp.Enum("markdown", "text"),
		),
	)
}

// Handle processes the guide_audit tool call.
func (t *AuditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "markdown")
	prefixes := splitPrefixes(req.GetString("rules", ""))

	c, err := t.deps.LoadCorpus()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	engine := lint.NewEngine(t.deps.LintOptions())
	report := engine.Run(c, prefixes...)

	if format == "text" {
		return mcp.NewToolResultText(lint.RenderText(report)), nil
	}

	rendered, err := lint.RenderMarkdown(report)
	if err != nil {
		return nil, fmt.Errorf("rendering audit report: %w", err)
	}
	return mcp.NewToolResultText(rendered), nil
}

// splitPrefixes parses the comma-separated rules parameter.
func splitPrefixes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var prefixes []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}
