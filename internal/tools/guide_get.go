package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/minewright/guidewright/internal/markdown"
)

// standardSectionLimit caps section content at the standard detail level.
const standardSectionLimit = 2000

// GetTool handles the guide_get MCP tool.
// It reads one crew manual, whole or a single section.
type GetTool struct {
	deps *Deps
}

// NewGetTool creates a GetTool with its dependencies.
func NewGetTool(deps *Deps) *GetTool {
	return &GetTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("guide_get",
		mcp.WithDescription(
			"Read a crew manual from the guide corpus. "+
				"Pass 'section' to read only one section — by anchor slug "+
				"('1-finding-bees') or exact heading text ('1. Finding Bees'). "+
				"Use guide_list first to see which guides exist.",
		),
		mcp.WithString("guide",
			mcp.Required(),
			mcp.Description("Guide file name relative to the corpus root, e.g. 'BEE_HOWTO.md'."),
		),
		mcp.WithString("section",
			mcp.Description(
				"Optional section reference: a heading slug or the exact heading text. "+
					"Leave empty to read the whole guide.",
			),
		),
		mcp.WithString("detail_level",
			mcp.Description(
				"Level of detail: "+
					"'summary' (title + table of contents only), "+
					"'standard' (content, long sections truncated), "+
					"'full' (complete untruncated content). "+
					"Defaults to 'standard'.",
			),
			mcp.Enum(DetailSummary, DetailStandard, DetailFull),
		),
	)
}

// Handle processes the guide_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	guidePath := req.GetString("guide", "")
	if guidePath == "" {
		return mcp.NewToolResultError("guide is required — pass a guide file name like 'BEE_HOWTO.md'"), nil
	}
	sectionRef := req.GetString("section", "")
	detailLevel := req.GetString("detail_level", DetailStandard)

	c, err := t.deps.LoadCorpus()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g := c.Guide(guidePath)
	if g == nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"guide %q not found — run guide_list to see available guides", guidePath,
		)), nil
	}

	doc := markdown.Scan(g.Body)

	if detailLevel == DetailSummary && sectionRef == "" {
		return t.buildOutline(g.Path, g.Title, doc), nil
	}

	if sectionRef != "" {
		sec := doc.SectionByRef(sectionRef)
		if sec == nil {
			return mcp.NewToolResultError(fmt.Sprintf(
				"section %q not found in %s — available sections:\n%s",
				sectionRef, guidePath, sectionList(doc),
			)), nil
		}
		content := sec.Content
		if detailLevel != DetailFull {
			content = truncate(content, standardSectionLimit)
		}
		return mcp.NewToolResultText(content), nil
	}

	content := g.Body
	if detailLevel == DetailStandard && len(content) > 4*standardSectionLimit {
		content = truncate(content, 4*standardSectionLimit) +
			"\n\n_(truncated — use detail_level='full' for the complete guide)_"
	}
	return mcp.NewToolResultText(content), nil
}

// buildOutline returns title plus table of contents, minimal tokens.
func (t *GetTool) buildOutline(path, title string, doc *markdown.Document) *mcp.CallToolResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (%s)\n\n", title, path)
	for _, h := range doc.Headings {
		indent := strings.Repeat("  ", h.Level-1)
		fmt.Fprintf(&sb, "%s- %s (#%s)\n", indent, h.Text, h.Slug)
	}
	return mcp.NewToolResultText(sb.String())
}

// sectionList names every addressable section for error messages.
func sectionList(doc *markdown.Document) string {
	var sb strings.Builder
	for _, h := range doc.Headings {
		fmt.Fprintf(&sb, "- %s (slug: %s)\n", h.Text, h.Slug)
	}
	return sb.String()
}
