// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it loads the configuration, opens the
// corpus and the search index, and injects them into the tools, prompts,
// and resources. No business logic lives here — only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/minewright/guidewright/internal/config"
	"github.com/minewright/guidewright/internal/index"
	"github.com/minewright/guidewright/internal/prompts"
	"github.com/minewright/guidewright/internal/resources"
	"github.com/minewright/guidewright/internal/tools"
	"github.com/minewright/guidewright/internal/watch"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
//
// The returned cleanup function stops the watcher and closes the index
// database; it must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even when a subsystem failed to start.
func New(configPath string, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Load configuration and resolve the corpus root ---

	cfg, usedPath, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, noop, fmt.Errorf("loading configuration: %w", err)
	}
	root := cfg.ResolveRoot(usedPath)

	// Fail fast when the corpus root does not exist: an MCP server with
	// no guides to serve helps nobody.
	deps := tools.NewDeps(cfg, root, nil, logger)
	if _, err := deps.LoadCorpus(); err != nil {
		return nil, noop, err
	}

	// --- Open the search index ---
	//
	// The index is an independent subsystem: when it fails, listing,
	// reading, and auditing keep working. guide_search and
	// corpus_reindex tell the caller the index is unavailable.

	cleanup := noop
	idx, idxErr := index.New(index.Config{
		DataDir:          cfg.Index.DataDir,
		MaxSearchResults: cfg.Index.MaxSearchResults,
	})
	if idxErr != nil {
		logger.Warn("search index disabled", zap.Error(idxErr))
	} else {
		deps.Index = idx

		// Bring the index up to date with the guides on disk.
		if c, err := deps.LoadCorpus(); err == nil {
			if stats, err := idx.Rebuild(c); err != nil {
				logger.Warn("initial reindex failed", zap.Error(err))
			} else {
				logger.Info("corpus indexed",
					zap.Int("indexed", stats.Indexed),
					zap.Int("skipped", stats.Skipped))
			}
		}

		watchCancel := startWatcher(cfg, deps, logger)
		cleanup = func() {
			watchCancel()
			if err := idx.Close(); err != nil {
				logger.Warn("index close", zap.Error(err))
			}
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"guidewright",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	listTool := tools.NewListTool(deps)
	s.AddTool(listTool.Definition(), listTool.Handle)

	getTool := tools.NewGetTool(deps)
	s.AddTool(getTool.Definition(), getTool.Handle)

	searchTool := tools.NewSearchTool(deps)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	auditTool := tools.NewAuditTool(deps)
	s.AddTool(auditTool.Definition(), auditTool.Handle)

	reindexTool := tools.NewReindexTool(deps)
	s.AddTool(reindexTool.Definition(), reindexTool.Handle)

	// --- Register prompts ---

	briefingPrompt := prompts.NewCrewBriefingPrompt()
	s.AddPrompt(briefingPrompt.Definition(), briefingPrompt.Handle)

	auditPrompt := prompts.NewAuditReviewPrompt()
	s.AddPrompt(auditPrompt.Definition(), auditPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(deps)
	s.AddResource(resourceHandler.CorpusIndexResource(), resourceHandler.HandleCorpusIndex)
	s.AddResource(resourceHandler.HealthResource(), resourceHandler.HandleHealth)

	return s, cleanup, nil
}

// noop is the default cleanup when no subsystem needs shutdown.
func noop() {}

// startWatcher begins live reindexing when enabled. Watcher failures
// never block the server — stale search results are survivable,
// a dead server is not.
func startWatcher(cfg *config.Config, deps *tools.Deps, logger *zap.Logger) context.CancelFunc {
	if !cfg.Watch.Enabled {
		return func() {}
	}

	w, err := watch.New(watch.Config{
		Root:     deps.Root,
		Debounce: cfg.Watch.Debounce(),
		Logger:   logger,
	})
	if err != nil {
		logger.Warn("corpus watcher disabled", zap.Error(err))
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	err = w.Start(ctx, func(ctx context.Context) {
		c, err := deps.LoadCorpus()
		if err != nil {
			logger.Warn("reload after change failed", zap.Error(err))
			return
		}
		stats, err := deps.Index.Rebuild(c)
		if err != nil {
			logger.Warn("reindex after change failed", zap.Error(err))
			return
		}
		logger.Info("reindexed after change",
			zap.Int("indexed", stats.Indexed),
			zap.Int("removed", stats.Removed))
	})
	if err != nil {
		logger.Warn("corpus watcher disabled", zap.Error(err))
		cancel()
		_ = w.Close()
		return func() {}
	}

	return func() {
		cancel()
		_ = w.Close()
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use the guide corpus effectively.
func serverInstructions() string {
	return `You have access to Guidewright, the MCP server for the MineWright
crew manuals — the Minecraft how-to guides the crew works from
(BEE_HOWTO.md, DROWNED_FARM.md, and the rest of the corpus).

## WHEN TO USE THE GUIDES

Consult the corpus BEFORE answering any question about how the crew
should do something in the world: farming, building, redstone, mob
mechanics, resource runs. The manuals are the source of truth — they
encode the crew's tested procedures, not generic game knowledge.

## TOOLS

- guide_list: see every manual with its catalog description. Start here.
- guide_get: read a manual, whole or one section (by anchor slug or
  exact heading text). Use detail_level='summary' for a table of
  contents first, then read only the sections you need.
- guide_search: full-text search across every section. Best entry point
  when you know the topic but not the guide.
- guide_audit: structural audit of the corpus — catalog consistency,
  anchors, links, fences, placeholders, table arithmetic.
- corpus_reindex: rebuild the search index after editing guides.

## PROGRESSIVE DISCLOSURE

Context is a finite resource. Orient with guide_list or a
guide_get summary outline, search for the specific topic, then read
only the matching sections in full.

## AUDITING RULES

The audit FLAGS problems, it never fixes them. When a scoring table's
total disagrees with the sum of its cells, report both numbers — never
silently pick one. Rewriting guide content means guessing the author's
intent; leave the decision to the user.

## CITE YOUR SOURCES

When you answer from a manual, name the guide file and section. When
the manuals do not cover a question, say so plainly instead of filling
the gap with general knowledge — the crew treats guide citations as
load-bearing.`
}
