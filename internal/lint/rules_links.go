package lint

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minewright/guidewright/internal/markdown"
)

// anchorRule checks in-file anchors: every "#fragment" link (TOC
// entries, mostly) must resolve to a heading slug in the same guide.
type anchorRule struct{}

func (anchorRule) ID() string { return "anchor/unresolved" }
func (anchorRule) Description() string {
	return "in-file anchor link does not match any heading slug"
}
func (anchorRule) Severity() Severity { return SeverityError }

func (anchorRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		for _, l := range t.Doc.Links {
			if l.Kind != markdown.LinkAnchor {
				continue
			}
			if resolvesAnchor(t.Doc, l.Fragment) {
				continue
			}
			findings = append(findings, Finding{
				File:    t.Guide.Path,
				Line:    l.Line,
				Message: fmt.Sprintf("anchor #%s matches no heading in this guide", l.Fragment),
			})
		}
	}
	return findings
}

// linkTargetRule checks that relative links point at files that exist,
// either as guides in the corpus or as plain files under the root
// (code examples, diagrams).
type linkTargetRule struct{}

func (linkTargetRule) ID() string          { return "link/missing-target" }
func (linkTargetRule) Description() string { return "relative link target does not exist" }
func (linkTargetRule) Severity() Severity  { return SeverityError }

func (linkTargetRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		for _, l := range t.Doc.Links {
			if l.Kind != markdown.LinkRelative || l.Path == "" {
				continue
			}
			target := resolveRelative(t.Guide.Path, l.Path)
			if ctx.Corpus.Guide(target) != nil {
				continue
			}
			if _, err := os.Stat(filepath.Join(ctx.Corpus.Root, filepath.FromSlash(target))); err == nil {
				continue
			}
			findings = append(findings, Finding{
				File:    t.Guide.Path,
				Line:    l.Line,
				Message: fmt.Sprintf("link target %s does not exist", l.Path),
			})
		}
	}
	return findings
}

// linkFragmentRule checks fragments on cross-guide links: the target
// guide must contain a heading with the referenced slug. Only runs for
// targets that are guides in the corpus — missing files are already
// covered by link/missing-target.
type linkFragmentRule struct{}

func (linkFragmentRule) ID() string { return "link/unresolved-fragment" }
func (linkFragmentRule) Description() string {
	return "cross-guide link fragment matches no heading in the target guide"
}
func (linkFragmentRule) Severity() Severity { return SeverityError }

func (linkFragmentRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		for _, l := range t.Doc.Links {
			if l.Kind != markdown.LinkRelative || l.Fragment == "" {
				continue
			}
			target := resolveRelative(t.Guide.Path, l.Path)
			doc := ctx.Doc(target)
			if doc == nil {
				continue
			}
			if resolvesAnchor(doc, l.Fragment) {
				continue
			}
			findings = append(findings, Finding{
				File:    t.Guide.Path,
				Line:    l.Line,
				Message: fmt.Sprintf("%s has no heading matching #%s", target, l.Fragment),
			})
		}
	}
	return findings
}

// resolvesAnchor matches a fragment against a document's heading slugs.
// Exact match first; a lowercased retry forgives hand-written anchors
// with original casing ("#Finding-Bees").
func resolvesAnchor(doc *markdown.Document, fragment string) bool {
	if doc.HasAnchor(fragment) {
		return true
	}
	return doc.HasAnchor(strings.ToLower(fragment))
}

// resolveRelative resolves a link destination against the linking
// guide's directory, returning a slash path relative to the corpus root.
func resolveRelative(from, dest string) string {
	return path.Join(path.Dir(from), dest)
}
