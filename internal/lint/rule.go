package lint

import (
	"strings"

	"github.com/minewright/guidewright/internal/corpus"
	"github.com/minewright/guidewright/internal/markdown"
)

// Target pairs a loaded guide with its structural scan.
type Target struct {
	Guide *corpus.Guide
	Doc   *markdown.Document
}

// Context is what rules check against: the corpus plus every guide's
// structural scan, built once per run.
type Context struct {
	Corpus  *corpus.Corpus
	Targets []Target

	docs map[string]*markdown.Document
}

// NewContext scans every guide in the corpus.
func NewContext(c *corpus.Corpus) *Context {
	ctx := &Context{
		Corpus: c,
		docs:   make(map[string]*markdown.Document, len(c.Order)),
	}
	for _, path := range c.Order {
		g := c.Guides[path]
		doc := markdown.Scan(g.Body)
		ctx.Targets = append(ctx.Targets, Target{Guide: g, Doc: doc})
		ctx.docs[path] = doc
	}
	return ctx
}

// Doc returns the scan for a guide path, or nil.
func (ctx *Context) Doc(path string) *markdown.Document {
	return ctx.docs[path]
}

// Rule is one audit check. Rules are stateless; Check runs over the
// whole context so cross-file rules (index, links) see everything.
type Rule interface {
	ID() string
	Description() string
	Severity() Severity
	Check(ctx *Context) []Finding
}

// DefaultRules returns the full rule set in stable order.
func DefaultRules() []Rule {
	return []Rule{
		unreadableRule{},
		catalogMissingRule{},
		indexMissingFileRule{},
		indexUnlistedGuideRule{},
		indexDuplicateEntryRule{},
		unclosedFenceRule{},
		malformedTableRule{},
		headingJumpRule{},
		anchorRule{},
		linkTargetRule{},
		linkFragmentRule{},
		placeholderRule{},
		tableArithmeticRule{},
	}
}

// Options configure an audit engine.
type Options struct {
	// Disable lists rule IDs to skip.
	Disable []string
	// Severity overrides the default severity per rule ID.
	Severity map[string]Severity
}

// Engine runs a rule set over a corpus.
type Engine struct {
	rules    []Rule
	disabled map[string]bool
	override map[string]Severity
}

// NewEngine builds an engine over the default rules.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		rules:    DefaultRules(),
		disabled: make(map[string]bool, len(opts.Disable)),
		override: opts.Severity,
	}
	for _, id := range opts.Disable {
		e.disabled[id] = true
	}
	return e
}

// Rules returns the active rules, honoring disables and an optional
// set of ID prefixes ("index/", "link/...") to restrict the run.
func (e *Engine) Rules(prefixes ...string) []Rule {
	var active []Rule
	for _, r := range e.rules {
		if e.disabled[r.ID()] {
			continue
		}
		if len(prefixes) > 0 && !matchesAny(r.ID(), prefixes) {
			continue
		}
		active = append(active, r)
	}
	return active
}

// Run audits the corpus and returns the report. Optional prefixes
// restrict the run to matching rule IDs.
func (e *Engine) Run(c *corpus.Corpus, prefixes ...string) *Report {
	ctx := NewContext(c)
	report := &Report{GuidesChecked: len(ctx.Targets)}

	for _, rule := range e.Rules(prefixes...) {
		findings := rule.Check(ctx)
		sev := rule.Severity()
		if o, ok := e.override[rule.ID()]; ok {
			sev = o
		}
		for i := range findings {
			findings[i].Rule = rule.ID()
			findings[i].Severity = sev
		}
		report.Findings = append(report.Findings, findings...)
	}

	report.finalize()
	return report
}

func matchesAny(id string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(id, strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}
