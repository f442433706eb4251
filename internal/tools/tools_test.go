package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/minewright/guidewright/internal/config"
	"github.com/minewright/guidewright/internal/index"
)

// --- Test helpers ---

const beeGuide = `# Bee Keeping HOWTO

## Table of Contents

- [1. Finding Bees](#1-finding-bees)
- [2. Breeding](#2-breeding)

## 1. Finding Bees

Bees spawn near flowers in plains and flower forests. Bring shears and
a campfire before you approach the nest.

## 2. Breeding

Feed two adult bees flowers to breed them. Any small flower works.
`

const guideIndex = `# Guide Index

- [Bee Keeping HOWTO](BEE_HOWTO.md) — finding, breeding, and harvesting bees
`

// newTestDeps lays out a corpus on disk and builds the tool dependency
// set. withIndex controls whether the search index is available.
func newTestDeps(t *testing.T, files map[string]string, withIndex bool) *Deps {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup: mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: write %s: %v", name, err)
		}
	}

	cfg := config.Default()
	cfg.Corpus.Root = root

	var idx *index.Store
	if withIndex {
		s, err := index.New(index.Config{DataDir: t.TempDir(), MaxSearchResults: 20})
		if err != nil {
			t.Fatalf("setup: index: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		idx = s
	}

	return NewDeps(cfg, root, idx, zap.NewNop())
}

func defaultFiles() map[string]string {
	return map[string]string{
		"GUIDE_INDEX.md": guideIndex,
		"BEE_HOWTO.md":   beeGuide,
	}
}

func callTool(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	return result
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- ListTool ---

func TestListTool_Standard(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewListTool(deps)

	result := callTool(t, tool.Handle, nil)
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "BEE_HOWTO.md") {
		t.Error("listing should name the guide file")
	}
	if !strings.Contains(text, "Bee Keeping HOWTO") {
		t.Error("listing should include the guide title")
	}
	if !strings.Contains(text, "finding, breeding, and harvesting bees") {
		t.Error("listing should include the catalog description")
	}
}

func TestListTool_Summary(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewListTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{"detail_level": "summary"})
	text := getResultText(result)
	if strings.TrimSpace(text) != "BEE_HOWTO.md" {
		t.Errorf("summary should list file names only, got:\n%s", text)
	}
}

func TestListTool_FullMarksUnlisted(t *testing.T) {
	files := defaultFiles()
	files["DROWNED_FARM.md"] = "# Drowned Farming\n\nBuild over a river biome.\n"
	deps := newTestDeps(t, files, false)
	tool := NewListTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{"detail_level": "full"})
	text := getResultText(result)
	if !strings.Contains(text, "⬜") {
		t.Errorf("full listing should mark the uncataloged guide, got:\n%s", text)
	}
}

func TestListTool_EmptyCorpus(t *testing.T) {
	deps := newTestDeps(t, map[string]string{}, false)
	tool := NewListTool(deps)

	result := callTool(t, tool.Handle, nil)
	if isErrorResult(result) {
		t.Fatalf("empty corpus should not be a tool error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "No guides found") {
		t.Error("empty corpus should be stated plainly")
	}
}

// --- GetTool ---

func TestGetTool_WholeGuide(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewGetTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{"guide": "BEE_HOWTO.md"})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "Feed two adult bees") {
		t.Error("whole-guide read should include body content")
	}
}

func TestGetTool_SectionBySlug(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewGetTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{
		"guide":   "BEE_HOWTO.md",
		"section": "1-finding-bees",
	})
	text := getResultText(result)
	if !strings.Contains(text, "Bring shears") {
		t.Errorf("section read should return section content, got:\n%s", text)
	}
	if strings.Contains(text, "Feed two adult bees") {
		t.Error("section read should not include other sections")
	}
}

func TestGetTool_SectionByHeadingText(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewGetTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{
		"guide":   "BEE_HOWTO.md",
		"section": "2. Breeding",
	})
	if !strings.Contains(getResultText(result), "Feed two adult bees") {
		t.Error("section lookup by exact heading text should work")
	}
}

func TestGetTool_SummaryOutline(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewGetTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{
		"guide":        "BEE_HOWTO.md",
		"detail_level": "summary",
	})
	text := getResultText(result)
	if !strings.Contains(text, "#1-finding-bees") {
		t.Errorf("outline should list anchor slugs, got:\n%s", text)
	}
	if strings.Contains(text, "Bring shears") {
		t.Error("outline should not include body content")
	}
}

func TestGetTool_MissingGuide(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewGetTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{"guide": "NETHER_HOWTO.md"})
	if !isErrorResult(result) {
		t.Fatal("expected a tool error for a missing guide")
	}
}

func TestGetTool_MissingSectionListsAlternatives(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewGetTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{
		"guide":   "BEE_HOWTO.md",
		"section": "nope",
	})
	if !isErrorResult(result) {
		t.Fatal("expected a tool error for a missing section")
	}
	if !strings.Contains(getResultText(result), "1-finding-bees") {
		t.Error("the error should list available section slugs")
	}
}

func TestGetTool_GuideRequired(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewGetTool(deps)

	result := callTool(t, tool.Handle, nil)
	if !isErrorResult(result) {
		t.Fatal("expected a tool error when guide is missing")
	}
}

// --- SearchTool ---

func TestSearchTool_FindsSection(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), true)
	reindex := NewReindexTool(deps)
	if r := callTool(t, reindex.Handle, nil); isErrorResult(r) {
		t.Fatalf("reindex: %s", getResultText(r))
	}

	tool := NewSearchTool(deps)
	result := callTool(t, tool.Handle, map[string]interface{}{"query": "campfire shears"})
	text := getResultText(result)
	if !strings.Contains(text, "1. Finding Bees") {
		t.Errorf("search should surface the matching section heading, got:\n%s", text)
	}
	if !strings.Contains(text, "BEE_HOWTO.md") {
		t.Error("search results should name the guide")
	}
}

func TestSearchTool_NoMatches(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), true)
	reindex := NewReindexTool(deps)
	callTool(t, reindex.Handle, nil)

	tool := NewSearchTool(deps)
	result := callTool(t, tool.Handle, map[string]interface{}{"query": "zombified piglin bartering"})
	if isErrorResult(result) {
		t.Fatal("no matches is not a tool error")
	}
	if !strings.Contains(getResultText(result), "No sections match") {
		t.Error("empty result should be stated plainly")
	}
}

func TestSearchTool_IndexUnavailable(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewSearchTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{"query": "bees"})
	if !isErrorResult(result) {
		t.Fatal("expected a tool error when the index is unavailable")
	}
	if !strings.Contains(getResultText(result), "guide_list") {
		t.Error("the error should point at the fallback tools")
	}
}

// --- AuditTool ---

func TestAuditTool_CleanCorpus(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewAuditTool(deps)

	result := callTool(t, tool.Handle, nil)
	text := getResultText(result)
	if !strings.Contains(text, "✅") {
		t.Errorf("clean corpus should report success, got:\n%s", text)
	}
}

func TestAuditTool_BrokenAnchor(t *testing.T) {
	files := defaultFiles()
	files["BEE_HOWTO.md"] = "# Bees\n\n- [Setup](#does-not-exist)\n"
	deps := newTestDeps(t, files, false)
	tool := NewAuditTool(deps)

	result := callTool(t, tool.Handle, nil)
	text := getResultText(result)
	if !strings.Contains(text, "anchor/unresolved") {
		t.Errorf("audit should flag the broken anchor, got:\n%s", text)
	}
}

func TestAuditTool_TextFormat(t *testing.T) {
	files := defaultFiles()
	files["BEE_HOWTO.md"] = "# Bees\n\n- [Setup](#does-not-exist)\n"
	deps := newTestDeps(t, files, false)
	tool := NewAuditTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{"format": "text"})
	text := getResultText(result)
	if !strings.Contains(text, "BEE_HOWTO.md:3 error anchor/unresolved") {
		t.Errorf("text format should be one finding per line, got:\n%s", text)
	}
}

func TestAuditTool_RulePrefixFilter(t *testing.T) {
	files := map[string]string{
		// No catalog file, plus a broken anchor: two different rule families.
		"BEE_HOWTO.md": "# Bees\n\n- [Setup](#does-not-exist)\n",
	}
	deps := newTestDeps(t, files, false)
	tool := NewAuditTool(deps)

	result := callTool(t, tool.Handle, map[string]interface{}{"rules": "anchor/"})
	text := getResultText(result)
	if !strings.Contains(text, "anchor/unresolved") {
		t.Error("filtered audit should still run anchor rules")
	}
	if strings.Contains(text, "index/catalog-missing") {
		t.Error("filtered audit should skip index rules")
	}
}

func TestAuditTool_HonorsConfigDisable(t *testing.T) {
	files := defaultFiles()
	files["BEE_HOWTO.md"] = "# Bees\n\n- [Setup](#does-not-exist)\n"
	deps := newTestDeps(t, files, false)
	deps.Cfg.Lint.Disable = []string{"anchor/unresolved"}
	tool := NewAuditTool(deps)

	result := callTool(t, tool.Handle, nil)
	if strings.Contains(getResultText(result), "anchor/unresolved") {
		t.Error("disabled rule should not appear in the report")
	}
}

// --- ReindexTool ---

func TestReindexTool_ReportsStats(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), true)
	tool := NewReindexTool(deps)

	result := callTool(t, tool.Handle, nil)
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", getResultText(result))
	}
	text := getResultText(result)
	if !strings.Contains(text, "1 guides indexed") {
		t.Errorf("reindex should report indexed count, got:\n%s", text)
	}
}

func TestReindexTool_IndexUnavailable(t *testing.T) {
	deps := newTestDeps(t, defaultFiles(), false)
	tool := NewReindexTool(deps)

	result := callTool(t, tool.Handle, nil)
	if !isErrorResult(result) {
		t.Fatal("expected a tool error when the index is unavailable")
	}
}
