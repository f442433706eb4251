package corpus

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// bulletEntryRe matches "- [Title](FILE.md) — description" list entries.
	bulletEntryRe = regexp.MustCompile(`^\s*[-*+]\s+\[([^\]]+)\]\(([^)#\s]+\.md)(?:#[^)]*)?\)\s*(.*)$`)

	// cellLinkRe matches a guide link inside a table cell.
	cellLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)#\s]+\.md)(?:#[^)]*)?\)`)
)

// loadIndex reads and parses the corpus catalog (GUIDE_INDEX.md).
// A missing catalog is not an error here — the audit reports it.
func loadIndex(c *Corpus) error {
	raw, err := os.ReadFile(filepath.Join(c.Root, c.IndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			c.IndexMissing = true
			return nil
		}
		c.LoadErrors = append(c.LoadErrors, LoadError{Path: c.IndexFile, Err: err})
		return nil
	}
	c.Index = ParseIndex(string(raw))
	return nil
}

// ParseIndex extracts catalog entries from GUIDE_INDEX.md content.
// Two layouts are accepted, matching how the index has been written
// over time: bullet lists ("- [Title](FILE.md) — description") and
// tables whose first linked cell targets a guide file.
func ParseIndex(content string) []IndexEntry {
	var entries []IndexEntry
	inFence := false

	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" {
			continue
		}

		if m := bulletEntryRe.FindStringSubmatch(line); m != nil {
			if strings.Contains(m[2], "://") {
				continue // external references are not catalog entries
			}
			entries = append(entries, IndexEntry{
				File:        m[2],
				Title:       m[1],
				Description: trimDescription(m[3]),
				Line:        i + 1,
			})
			continue
		}

		if strings.Contains(trimmed, "|") {
			if e, ok := parseTableEntry(trimmed, i+1); ok {
				entries = append(entries, e)
			}
		}
	}

	return entries
}

// parseTableEntry extracts an entry from a table row: the first cell
// containing a guide link provides file and title, the next non-empty
// cell the description.
func parseTableEntry(line string, lineNo int) (IndexEntry, bool) {
	cells := splitPipeRow(line)

	for idx, cell := range cells {
		m := cellLinkRe.FindStringSubmatch(cell)
		if m == nil || strings.Contains(m[2], "://") {
			continue
		}
		e := IndexEntry{
			File:  m[2],
			Title: m[1],
			Line:  lineNo,
		}
		for _, rest := range cells[idx+1:] {
			if strings.TrimSpace(rest) != "" {
				e.Description = strings.TrimSpace(rest)
				break
			}
		}
		return e, true
	}
	return IndexEntry{}, false
}

// splitPipeRow splits a table row into trimmed cells.
func splitPipeRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// trimDescription strips the separator punctuation between link and
// description ("— desc", "- desc", ": desc").
func trimDescription(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "—–:-")
	return strings.TrimSpace(s)
}
