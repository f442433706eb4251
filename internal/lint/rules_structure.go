package lint

import "fmt"

// unclosedFenceRule reports fenced code blocks that never close. An
// unclosed fence swallows the rest of the document, so every check
// after it is unreliable.
type unclosedFenceRule struct{}

func (unclosedFenceRule) ID() string          { return "structure/unclosed-fence" }
func (unclosedFenceRule) Description() string { return "fenced code block is never closed" }
func (unclosedFenceRule) Severity() Severity  { return SeverityError }

func (unclosedFenceRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		for _, f := range t.Doc.Fences {
			if f.Closed {
				continue
			}
			findings = append(findings, Finding{
				File:    t.Guide.Path,
				Line:    f.StartLine,
				Message: fmt.Sprintf("code fence opened with %q is never closed", f.Marker),
			})
		}
	}
	return findings
}

// malformedTableRule flags body rows whose cell count differs from the
// header row.
type malformedTableRule struct{}

func (malformedTableRule) ID() string { return "structure/malformed-table" }
func (malformedTableRule) Description() string {
	return "table row has a different cell count than the header"
}
func (malformedTableRule) Severity() Severity { return SeverityWarning }

func (malformedTableRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		for _, tbl := range t.Doc.Tables {
			want := len(tbl.Header)
			for _, row := range tbl.Rows {
				if len(row.Cells) == want {
					continue
				}
				findings = append(findings, Finding{
					File:    t.Guide.Path,
					Line:    row.Line,
					Message: fmt.Sprintf("row has %d cells, header has %d", len(row.Cells), want),
				})
			}
		}
	}
	return findings
}

// headingJumpRule flags heading levels that skip (## followed by ####).
// Skipped levels break TOC generation and outline navigation.
type headingJumpRule struct{}

func (headingJumpRule) ID() string          { return "structure/heading-jump" }
func (headingJumpRule) Description() string { return "heading level increases by more than one" }
func (headingJumpRule) Severity() Severity  { return SeverityInfo }

func (headingJumpRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, t := range ctx.Targets {
		prev := 0
		for _, h := range t.Doc.Headings {
			if prev > 0 && h.Level > prev+1 {
				findings = append(findings, Finding{
					File:    t.Guide.Path,
					Line:    h.Line,
					Message: fmt.Sprintf("heading jumps from level %d to %d", prev, h.Level),
				})
			}
			prev = h.Level
		}
	}
	return findings
}
