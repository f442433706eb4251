package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// LoadOptions control discovery and loading.
type LoadOptions struct {
	// IndexFile is the catalog file name. Default "GUIDE_INDEX.md".
	IndexFile string
	// Include lists doublestar globs relative to the root. Default ["*.md"].
	Include []string
	// Exclude lists globs for files to skip.
	Exclude []string
}

// DefaultLoadOptions returns the conventional corpus layout.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		IndexFile: "GUIDE_INDEX.md",
		Include:   []string{"*.md"},
	}
}

// Load discovers and loads the corpus rooted at root.
func Load(root string, opts LoadOptions) (*Corpus, error) {
	if opts.IndexFile == "" {
		opts.IndexFile = "GUIDE_INDEX.md"
	}
	if len(opts.Include) == 0 {
		opts.Include = []string{"*.md"}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving corpus root: %w", err)
	}
	if info, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("corpus root %s: %w", root, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}

	paths, err := Discover(absRoot, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	c := &Corpus{
		Root:      absRoot,
		IndexFile: opts.IndexFile,
		Guides:    make(map[string]*Guide, len(paths)),
	}

	for _, rel := range paths {
		if rel == opts.IndexFile {
			continue // the catalog is parsed separately, not audited as a guide
		}
		g, err := loadGuide(absRoot, rel)
		if err != nil {
			c.LoadErrors = append(c.LoadErrors, LoadError{Path: rel, Err: err})
			continue
		}
		c.Guides[rel] = g
		c.Order = append(c.Order, rel)
	}
	sort.Strings(c.Order)

	if err := loadIndex(c); err != nil {
		return nil, err
	}

	return c, nil
}

// Discover finds guide files under root matching the include globs and
// not matching any exclude glob. Paths are relative to root, sorted.
func Discover(root string, include, exclude []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)

	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
	match:
		for _, m := range matches {
			for _, ex := range exclude {
				ok, err := doublestar.Match(ex, m)
				if err != nil {
					return nil, fmt.Errorf("exclude glob %q: %w", ex, err)
				}
				if ok {
					continue match
				}
			}
			seen[m] = true
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// loadGuide reads one guide file and splits optional YAML frontmatter.
func loadGuide(root, rel string) (*Guide, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	hash := contentHash(raw)
	g := &Guide{
		Path:        rel,
		AbsPath:     abs,
		ContentHash: hash,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ID:          guideID(rel, hash),
	}

	content := string(raw)
	if strings.HasPrefix(content, "---\n") || strings.HasPrefix(content, "---\r\n") {
		fm, body, err := splitFrontmatter(content)
		if err != nil {
			// Malformed frontmatter is treated as body; the audit layer
			// has nothing to say about it beyond what Markdown rules catch.
			g.Body = content
		} else {
			g.Frontmatter = fm
			g.Body = body
		}
	} else {
		g.Body = content
	}

	g.Title = firstH1(g.Body)
	if g.Title == "" {
		g.Title = rel
	}

	return g, nil
}

// splitFrontmatter separates YAML frontmatter from the document body.
func splitFrontmatter(content string) (map[string]any, string, error) {
	const delim = "---"

	start := len(delim)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	closeIdx := strings.Index(content[start:], "\n"+delim)
	if closeIdx == -1 {
		return nil, content, fmt.Errorf("no closing frontmatter delimiter")
	}

	yamlPart := content[start : start+closeIdx]

	bodyStart := start + closeIdx + 1 + len(delim)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}
	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlPart), &fm); err != nil {
		return nil, content, fmt.Errorf("parse YAML frontmatter: %w", err)
	}
	return fm, body, nil
}

// firstH1 returns the text of the first level-1 heading, skipping
// fenced code blocks.
func firstH1(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
