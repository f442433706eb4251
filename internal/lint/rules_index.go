package lint

import "fmt"

// unreadableRule reports guides that failed to load at all.
type unreadableRule struct{}

func (unreadableRule) ID() string          { return "corpus/unreadable" }
func (unreadableRule) Description() string { return "guide file could not be read or parsed" }
func (unreadableRule) Severity() Severity  { return SeverityError }

func (unreadableRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, le := range ctx.Corpus.LoadErrors {
		findings = append(findings, Finding{
			File:    le.Path,
			Message: fmt.Sprintf("could not load guide: %v", le.Err),
		})
	}
	return findings
}

// catalogMissingRule reports a corpus without its GUIDE_INDEX.md.
type catalogMissingRule struct{}

func (catalogMissingRule) ID() string          { return "index/catalog-missing" }
func (catalogMissingRule) Description() string { return "the guide catalog file does not exist" }
func (catalogMissingRule) Severity() Severity  { return SeverityError }

func (catalogMissingRule) Check(ctx *Context) []Finding {
	if !ctx.Corpus.IndexMissing {
		return nil
	}
	return []Finding{{
		File:    ctx.Corpus.IndexFile,
		Message: "guide catalog not found — every corpus needs its index",
	}}
}

// indexMissingFileRule checks that every catalog entry points at an
// existing guide. This is the first verifiable property of the corpus:
// a listed manual the crew cannot open is worse than an unlisted one.
type indexMissingFileRule struct{}

func (indexMissingFileRule) ID() string { return "index/missing-file" }
func (indexMissingFileRule) Description() string {
	return "catalog entry references a guide file that does not exist"
}
func (indexMissingFileRule) Severity() Severity { return SeverityError }

func (indexMissingFileRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, e := range ctx.Corpus.Index {
		if ctx.Corpus.Guide(e.File) != nil {
			continue
		}
		findings = append(findings, Finding{
			File:    ctx.Corpus.IndexFile,
			Line:    e.Line,
			Message: fmt.Sprintf("entry %q links to %s, which does not exist", e.Title, e.File),
		})
	}
	return findings
}

// indexUnlistedGuideRule flags guides the catalog forgot.
type indexUnlistedGuideRule struct{}

func (indexUnlistedGuideRule) ID() string { return "index/unlisted-guide" }
func (indexUnlistedGuideRule) Description() string {
	return "guide file exists but is not listed in the catalog"
}
func (indexUnlistedGuideRule) Severity() Severity { return SeverityWarning }

func (indexUnlistedGuideRule) Check(ctx *Context) []Finding {
	if ctx.Corpus.IndexMissing {
		return nil // the catalog-missing error already covers this
	}
	var findings []Finding
	for _, t := range ctx.Targets {
		if ctx.Corpus.Listed(t.Guide.Path) {
			continue
		}
		findings = append(findings, Finding{
			File:    t.Guide.Path,
			Message: fmt.Sprintf("%q is not listed in %s", t.Guide.Title, ctx.Corpus.IndexFile),
		})
	}
	return findings
}

// indexDuplicateEntryRule flags a guide listed more than once.
type indexDuplicateEntryRule struct{}

func (indexDuplicateEntryRule) ID() string { return "index/duplicate-entry" }
func (indexDuplicateEntryRule) Description() string {
	return "the same guide file is listed more than once in the catalog"
}
func (indexDuplicateEntryRule) Severity() Severity { return SeverityWarning }

func (indexDuplicateEntryRule) Check(ctx *Context) []Finding {
	seen := make(map[string]int)
	var findings []Finding
	for _, e := range ctx.Corpus.Index {
		if first, ok := seen[e.File]; ok {
			findings = append(findings, Finding{
				File:    ctx.Corpus.IndexFile,
				Line:    e.Line,
				Message: fmt.Sprintf("%s already listed on line %d", e.File, first),
			})
			continue
		}
		seen[e.File] = e.Line
	}
	return findings
}
