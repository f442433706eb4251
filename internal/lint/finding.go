// Package lint implements the structural audit of the guide corpus.
//
// The audit covers exactly what prose admits of verification: catalog
// consistency, Markdown well-formedness, anchor and cross-link
// resolution, unresolved placeholders, and the internal arithmetic of
// scoring tables. Findings are FLAGGED, never fixed — rewriting guide
// content would mean guessing author intent.
package lint

import (
	"fmt"
	"sort"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity validates a severity string (for config overrides).
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityError, SeverityWarning, SeverityInfo:
		return Severity(s), nil
	default:
		return "", fmt.Errorf("invalid severity %q: must be one of: error, warning, info", s)
	}
}

// Finding is one audit result.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	// File is the guide path relative to the corpus root, or the
	// catalog file name for index findings.
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d %s %s: %s", f.File, f.Line, f.Severity, f.Rule, f.Message)
	}
	return fmt.Sprintf("%s %s %s: %s", f.File, f.Severity, f.Rule, f.Message)
}

// Report is the outcome of one audit run.
type Report struct {
	Findings      []Finding        `json:"findings"`
	GuidesChecked int              `json:"guides_checked"`
	Counts        map[Severity]int `json:"counts"`
}

// HasErrors reports whether any error-severity finding exists.
func (r *Report) HasErrors() bool {
	return r.Counts[SeverityError] > 0
}

// Summary is a one-line human summary ("3 errors, 1 warning, 0 info").
func (r *Report) Summary() string {
	return fmt.Sprintf("%d errors, %d warnings, %d info across %d guides",
		r.Counts[SeverityError], r.Counts[SeverityWarning], r.Counts[SeverityInfo],
		r.GuidesChecked)
}

// finalize sorts findings deterministically and tallies counts.
func (r *Report) finalize() {
	sort.Slice(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Rule < b.Rule
	})

	r.Counts = map[Severity]int{
		SeverityError:   0,
		SeverityWarning: 0,
		SeverityInfo:    0,
	}
	for _, f := range r.Findings {
		r.Counts[f.Severity]++
	}
}
