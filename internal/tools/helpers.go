// Package tools implements the MCP tools for the guide corpus: listing,
// reading, searching, and auditing the crew manuals.
//
// Tools are STORAGE-free: every call reloads the corpus from disk, so
// guides edited between calls are always current. The search index is
// the only stateful dependency, and every tool degrades gracefully when
// it is unavailable.
package tools

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/minewright/guidewright/internal/config"
	"github.com/minewright/guidewright/internal/corpus"
	"github.com/minewright/guidewright/internal/index"
	"github.com/minewright/guidewright/internal/lint"
)

// Detail levels shared by read-heavy tools (progressive disclosure:
// fetch the minimum first, drill deeper only when needed).
const (
	DetailSummary  = "summary"
	DetailStandard = "standard"
	DetailFull     = "full"
)

// Deps carries the shared subsystems every tool operates on.
type Deps struct {
	// Cfg is the loaded guidewright configuration.
	Cfg *config.Config
	// Root is the resolved corpus directory.
	Root string
	// Index is the search index, nil when the subsystem failed to start.
	Index *index.Store
	// Logger is never nil (zap.NewNop when unset).
	Logger *zap.Logger
}

// NewDeps normalizes the dependency set.
func NewDeps(cfg *config.Config, root string, idx *index.Store, logger *zap.Logger) *Deps {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deps{Cfg: cfg, Root: root, Index: idx, Logger: logger}
}

// LoadCorpus reads the corpus fresh from disk.
func (d *Deps) LoadCorpus() (*corpus.Corpus, error) {
	c, err := corpus.Load(d.Root, corpus.LoadOptions{
		IndexFile: d.Cfg.Corpus.IndexFile,
		Include:   d.Cfg.Corpus.Include,
		Exclude:   d.Cfg.Corpus.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("loading corpus from %s: %w", d.Root, err)
	}
	return c, nil
}

// LintOptions translates the config's lint section into engine options.
// Severity strings were validated at config load time.
func (d *Deps) LintOptions() lint.Options {
	opts := lint.Options{Disable: d.Cfg.Lint.Disable}
	if len(d.Cfg.Lint.Severity) > 0 {
		opts.Severity = make(map[string]lint.Severity, len(d.Cfg.Lint.Severity))
		for rule, s := range d.Cfg.Lint.Severity {
			sev, err := lint.ParseSeverity(s)
			if err != nil {
				continue
			}
			opts.Severity[rule] = sev
		}
	}
	return opts
}

// truncate shortens s to max runes, appending an ellipsis marker.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
