package markdown

import (
	"strconv"
	"strings"
	"unicode"
)

// slugger produces GitHub-style anchor slugs with duplicate handling:
// the second occurrence of a slug gets a "-1" suffix, the third "-2",
// and so on — matching how GitHub resolves TOC anchors.
type slugger struct {
	seen map[string]int
}

func newSlugger() *slugger {
	return &slugger{seen: make(map[string]int)}
}

// slug returns the deduped anchor slug for a heading text.
func (s *slugger) slug(text string) string {
	base := Slug(text)
	n := s.seen[base]
	s.seen[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// Slug converts heading text to its GitHub anchor form: lowercase,
// punctuation dropped, spaces and hyphens become single hyphens.
// "## 1. Finding Bees" (text "1. Finding Bees") → "1-finding-bees".
func Slug(text string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(dashOrUnderscore(r))
		}
	}
	return b.String()
}

// dashOrUnderscore maps separator runes: GitHub keeps underscores and
// turns spaces into hyphens.
func dashOrUnderscore(r rune) rune {
	if r == '_' {
		return '_'
	}
	return '-'
}
