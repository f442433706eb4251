// Package corpus discovers and loads the MineWright crew-manual corpus:
// the agent-guide Markdown files plus the GUIDE_INDEX.md that catalogs them.
//
// Loading is forgiving — one unreadable or malformed file never fails the
// whole corpus. Problems are attached to the Corpus as LoadErrors and
// surfaced by the audit layer instead.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Guide is one loaded crew manual.
type Guide struct {
	// Path is the file name relative to the corpus root ("BEE_HOWTO.md").
	Path string
	// AbsPath is the absolute location on disk.
	AbsPath string
	// Title is the first H1 heading, or the file name when there is none.
	Title string
	// Frontmatter holds the parsed YAML frontmatter, nil when absent.
	Frontmatter map[string]any
	// Body is the document content with frontmatter stripped.
	Body string
	// ContentHash is the SHA256 of the raw file content.
	ContentHash string
	Size        int64
	ModTime     time.Time
	// ID is a stable identifier for the search index.
	ID string
}

// IndexEntry is one catalog row parsed from GUIDE_INDEX.md.
type IndexEntry struct {
	// File is the linked guide file name as written in the index.
	File string
	// Title is the link text.
	Title string
	// Description is the one-line summary following the link.
	Description string
	// Line is the 1-based line in the index file.
	Line int
}

// LoadError records a file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Corpus is the loaded guide set.
type Corpus struct {
	// Root is the corpus directory.
	Root string
	// IndexFile is the catalog file name (usually "GUIDE_INDEX.md").
	IndexFile string
	// Guides maps relative path to guide, for every discovered file.
	Guides map[string]*Guide
	// Order lists guide paths in deterministic (sorted) order.
	Order []string
	// Index holds the parsed catalog entries.
	Index []IndexEntry
	// IndexMissing is true when the catalog file does not exist.
	IndexMissing bool
	// LoadErrors lists files that failed to load.
	LoadErrors []LoadError
}

// Guide returns the guide for a relative path, or nil.
func (c *Corpus) Guide(path string) *Guide {
	return c.Guides[path]
}

// Listed reports whether a guide path appears in the index.
func (c *Corpus) Listed(path string) bool {
	for _, e := range c.Index {
		if e.File == path {
			return true
		}
	}
	return false
}

// Description returns the index description for a guide path, or "".
func (c *Corpus) Description(path string) string {
	for _, e := range c.Index {
		if e.File == path {
			return e.Description
		}
	}
	return ""
}

// guideID creates a stable identifier from file name and content hash.
// The short hash keeps IDs readable while changing when content changes.
func guideID(path string, hash string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("guide.%s.%s", sanitizeID(base), hash[:12])
}

// sanitizeID makes a string safe for use as an identifier.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// contentHash computes the SHA256 hash of raw file content.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
