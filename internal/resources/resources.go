// Package resources implements MCP resource handlers for the guide corpus.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (guidewright://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/minewright/guidewright/internal/index"
	"github.com/minewright/guidewright/internal/tools"
)

// Handler manages the guide corpus resource endpoints.
type Handler struct {
	deps *tools.Deps
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(deps *tools.Deps) *Handler {
	return &Handler{deps: deps}
}

// catalogEntry is one guide in the corpus index resource.
type catalogEntry struct {
	File        string `json:"file"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Listed      bool   `json:"listed"`
	ID          string `json:"id"`
}

// CorpusIndexResource returns the MCP resource definition for the catalog.
func (h *Handler) CorpusIndexResource() mcp.Resource {
	return mcp.NewResource(
		"guidewright://corpus/index",
		"Guide Corpus Index",
		mcp.WithResourceDescription("Every crew manual in the corpus: file, title, catalog description"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCorpusIndex returns the catalog as JSON.
func (h *Handler) HandleCorpusIndex(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	c, err := h.deps.LoadCorpus()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	entries := make([]catalogEntry, 0, len(c.Order))
	for _, path := range c.Order {
		g := c.Guides[path]
		entries = append(entries, catalogEntry{
			File:        path,
			Title:       g.Title,
			Description: c.Description(path),
			Listed:      c.Listed(path),
			ID:          g.ID,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling corpus index: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// health is the corpus health resource payload.
type health struct {
	Guides         int          `json:"guides"`
	CatalogMissing bool         `json:"catalog_missing"`
	LoadErrors     []string     `json:"load_errors,omitempty"`
	IndexAvailable bool         `json:"index_available"`
	IndexStats     *index.Stats `json:"index_stats,omitempty"`
}

// HealthResource returns the MCP resource definition for corpus health.
func (h *Handler) HealthResource() mcp.Resource {
	return mcp.NewResource(
		"guidewright://corpus/health",
		"Guide Corpus Health",
		mcp.WithResourceDescription("Corpus load state, catalog presence, and search index statistics"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleHealth returns the corpus health snapshot as JSON.
func (h *Handler) HandleHealth(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	c, err := h.deps.LoadCorpus()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	status := health{
		Guides:         len(c.Order),
		CatalogMissing: c.IndexMissing,
		IndexAvailable: h.deps.Index != nil,
	}
	for _, le := range c.LoadErrors {
		status.LoadErrors = append(status.LoadErrors, le.Error())
	}
	if h.deps.Index != nil {
		if st, err := h.deps.Index.Stats(); err == nil {
			status.IndexStats = &st
		}
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling health: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
