// Package markdown implements a structural scan of guide documents.
//
// It is deliberately NOT a rendering parser: the audit rules only need
// the document's skeleton — headings, links, tables, code fences — with
// line numbers attached. Everything inside a fenced code block is opaque
// (crew dialogue scripts and illustrative pseudocode live there, and none
// of it should trip the structural checks).
package markdown

// Heading is an ATX heading with its GitHub-style anchor slug.
type Heading struct {
	Level int    // 1-6
	Text  string // heading text without the # prefix
	Line  int    // 1-based line number
	Slug  string // deduped anchor slug ("1-finding-bees", "setup-1", ...)
}

// LinkKind classifies a link destination.
type LinkKind int

const (
	// LinkExternal has a scheme (https://, mailto:, ...). Not audited.
	LinkExternal LinkKind = iota
	// LinkAnchor points to a heading in the same document ("#setup").
	LinkAnchor
	// LinkRelative points to another file, optionally with a fragment
	// ("BEE_HOWTO.md#1-finding-bees").
	LinkRelative
)

// Link is an inline Markdown link found outside code fences.
type Link struct {
	Text     string
	Dest     string // the raw destination as written
	Line     int
	Kind     LinkKind
	Path     string // file part for LinkRelative, "" otherwise
	Fragment string // fragment without '#', "" when absent
}

// Row is one body row of a pipe table.
type Row struct {
	Line  int
	Cells []string
}

// Table is a pipe table: a header row, an alignment row, and body rows.
type Table struct {
	Line   int // line of the header row
	Header []string
	Rows   []Row
}

// Fence is a fenced code block (``` or ~~~).
type Fence struct {
	Marker    string // the opening fence characters, e.g. "```"
	Info      string // info string after the fence ("java", "text", ...)
	StartLine int
	EndLine   int // 0 when unclosed
	Closed    bool
}

// Placeholder is an unresolved {{...}} template marker outside code fences.
type Placeholder struct {
	Line int
	Text string
}

// Section is a heading plus everything up to the next heading. The
// preamble before the first heading is a section with Level 0.
type Section struct {
	Heading   string
	Level     int
	StartLine int
	Content   string
}

// Document is the structural view of one guide.
type Document struct {
	Headings     []Heading
	Links        []Link
	Tables       []Table
	Fences       []Fence
	Placeholders []Placeholder
	Sections     []Section

	slugs map[string]bool
}

// HasAnchor reports whether a heading with the given slug exists.
func (d *Document) HasAnchor(slug string) bool {
	return d.slugs[slug]
}

// SectionByRef finds a section by heading slug or exact heading text.
// Returns nil when no section matches.
func (d *Document) SectionByRef(ref string) *Section {
	for _, h := range d.Headings {
		if h.Slug != ref && h.Text != ref {
			continue
		}
		// Headings and sections line up except for the preamble,
		// so locate the section by start line.
		for j := range d.Sections {
			if d.Sections[j].StartLine == h.Line {
				return &d.Sections[j]
			}
		}
	}
	return nil
}
