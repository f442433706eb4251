package lint

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// reportTemplate is parsed once at init; the template is embedded, so
// a parse failure is a programming error.
var reportTemplate = template.Must(
	template.ParseFS(templateFS, "templates/report.md.tmpl"),
)

// RenderText renders the report one finding per line, grep-friendly:
//
//	BEE_HOWTO.md:12 error anchor/unresolved: anchor #setup matches no heading
func RenderText(r *Report) string {
	var b strings.Builder
	for _, f := range r.Findings {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	b.WriteString(r.Summary())
	b.WriteByte('\n')
	return b.String()
}

// RenderMarkdown renders the report as a Markdown document, suitable
// for returning to an agent or posting on a review.
func RenderMarkdown(r *Report) (string, error) {
	var b strings.Builder
	data := struct{ Report *Report }{Report: r}
	if err := reportTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering audit report: %w", err)
	}
	return b.String(), nil
}
