package markdown

import (
	"regexp"
	"strings"
)

var (
	// linkRe matches inline links and images. Group 1 distinguishes
	// images (leading '!'), group 2 is the text, group 3 the destination.
	linkRe = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^()\s]+)(?:\s+"[^"]*")?\)`)

	// placeholderRe matches unresolved {{...}} template markers.
	placeholderRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)

	// alignCellRe matches one cell of a table alignment row: ---, :--, --:, :-:.
	alignCellRe = regexp.MustCompile(`^:?-+:?$`)
)

// Scan builds the structural view of a guide body.
func Scan(content string) *Document {
	lines := strings.Split(content, "\n")
	doc := &Document{slugs: make(map[string]bool)}

	inFence := scanFences(lines, doc)
	scanHeadings(lines, inFence, doc)
	scanTables(lines, inFence, doc)
	scanInline(lines, inFence, doc)
	scanSections(lines, inFence, doc)

	return doc
}

// scanFences records fenced code blocks and returns a per-line flag
// marking lines that belong to a fence (including the fence lines
// themselves). A fence closes only on a run of the same marker at
// least as long as the opening run, with nothing else on the line.
func scanFences(lines []string, doc *Document) []bool {
	inFence := make([]bool, len(lines))
	open := -1 // index into doc.Fences, -1 when outside

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if open >= 0 {
			inFence[i] = true
			f := &doc.Fences[open]
			if isClosingFence(trimmed, f.Marker) {
				f.EndLine = i + 1
				f.Closed = true
				open = -1
			}
			continue
		}

		if marker, info, ok := openingFence(trimmed); ok {
			doc.Fences = append(doc.Fences, Fence{
				Marker:    marker,
				Info:      info,
				StartLine: i + 1,
			})
			open = len(doc.Fences) - 1
			inFence[i] = true
		}
	}

	return inFence
}

// openingFence parses a fence opener: a run of at least three backticks
// or tildes, optionally followed by an info string.
func openingFence(trimmed string) (marker, info string, ok bool) {
	if !strings.HasPrefix(trimmed, "```") && !strings.HasPrefix(trimmed, "~~~") {
		return "", "", false
	}
	ch := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	return trimmed[:n], strings.TrimSpace(trimmed[n:]), true
}

// isClosingFence reports whether a line closes a fence opened with marker.
func isClosingFence(trimmed, marker string) bool {
	if !strings.HasPrefix(trimmed, marker) {
		return false
	}
	rest := strings.TrimLeft(trimmed, string(marker[0]))
	return strings.TrimSpace(rest) == ""
}

func scanHeadings(lines []string, inFence []bool, doc *Document) {
	slugs := newSlugger()
	for i, line := range lines {
		if inFence[i] {
			continue
		}
		level, text, ok := parseHeading(line)
		if !ok {
			continue
		}
		slug := slugs.slug(text)
		doc.Headings = append(doc.Headings, Heading{
			Level: level,
			Text:  text,
			Line:  i + 1,
			Slug:  slug,
		})
		doc.slugs[slug] = true
	}
}

// parseHeading recognizes an ATX heading: one to six #'s followed by a
// space (or end of line), after at most three spaces of indentation.
func parseHeading(line string) (level int, text string, ok bool) {
	s := line
	for i := 0; i < 3 && strings.HasPrefix(s, " "); i++ {
		s = s[1:]
	}
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, "", false
	}
	rest := s[n:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	text = strings.TrimSpace(rest)
	// Strip an optional closing sequence ("## Title ##").
	if idx := strings.LastIndexByte(text, ' '); idx >= 0 && strings.Trim(text[idx+1:], "#") == "" {
		text = strings.TrimSpace(text[:idx])
	}
	return n, text, true
}

func scanTables(lines []string, inFence []bool, doc *Document) {
	for i := 1; i < len(lines); i++ {
		if inFence[i] || inFence[i-1] {
			continue
		}
		if !isAlignmentRow(lines[i]) || !strings.Contains(lines[i-1], "|") {
			continue
		}

		table := Table{
			Line:   i, // header row is the line above the alignment row
			Header: splitRow(lines[i-1]),
		}

		// Consume body rows until a non-row line.
		j := i + 1
		for j < len(lines) && !inFence[j] && isTableRow(lines[j]) {
			table.Rows = append(table.Rows, Row{
				Line:  j + 1,
				Cells: splitRow(lines[j]),
			})
			j++
		}

		doc.Tables = append(doc.Tables, table)
		i = j - 1
	}
}

// isAlignmentRow recognizes the delimiter row under a table header:
// | --- | :-: | --- |
func isAlignmentRow(line string) bool {
	if !strings.Contains(line, "|") || !strings.Contains(line, "-") {
		return false
	}
	cells := splitRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !alignCellRe.MatchString(c) {
			return false
		}
	}
	return true
}

// isTableRow is a loose check: any non-blank line with a pipe continues
// the table.
func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && strings.Contains(trimmed, "|")
}

// splitRow splits a pipe-table row into trimmed cells, honoring
// escaped pipes (\|) inside cell content.
func splitRow(line string) []string {
	const esc = "\x00"
	s := strings.ReplaceAll(strings.TrimSpace(line), `\|`, esc)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")

	parts := strings.Split(s, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(strings.ReplaceAll(p, esc, "|"))
	}
	return cells
}

// scanInline extracts links and placeholders from lines outside fences.
func scanInline(lines []string, inFence []bool, doc *Document) {
	for i, line := range lines {
		if inFence[i] {
			continue
		}

		for _, m := range linkRe.FindAllStringSubmatch(line, -1) {
			if m[1] == "!" {
				continue // images are not navigation links
			}
			doc.Links = append(doc.Links, classifyLink(m[2], m[3], i+1))
		}

		for _, p := range placeholderRe.FindAllString(line, -1) {
			doc.Placeholders = append(doc.Placeholders, Placeholder{
				Line: i + 1,
				Text: p,
			})
		}
	}
}

func classifyLink(text, dest string, line int) Link {
	l := Link{Text: text, Dest: dest, Line: line}

	switch {
	case strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:"):
		l.Kind = LinkExternal
	case strings.HasPrefix(dest, "#"):
		l.Kind = LinkAnchor
		l.Fragment = dest[1:]
	default:
		l.Kind = LinkRelative
		l.Path = dest
		if idx := strings.IndexByte(dest, '#'); idx >= 0 {
			l.Path = dest[:idx]
			l.Fragment = dest[idx+1:]
		}
	}
	return l
}

// scanSections groups lines into heading-delimited sections. The text
// before the first heading becomes a Level-0 preamble section.
func scanSections(lines []string, inFence []bool, doc *Document) {
	var current Section
	current.StartLine = 1
	var buf []string

	flush := func() {
		content := strings.Join(buf, "\n")
		if strings.TrimSpace(content) != "" {
			current.Content = content
			doc.Sections = append(doc.Sections, current)
		}
	}

	for i, line := range lines {
		if !inFence[i] {
			if level, text, ok := parseHeading(line); ok {
				flush()
				current = Section{Heading: text, Level: level, StartLine: i + 1}
				buf = buf[:0]
				buf = append(buf, line)
				continue
			}
		}
		buf = append(buf, line)
	}
	flush()
}
