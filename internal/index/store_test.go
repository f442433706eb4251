package index_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minewright/guidewright/internal/corpus"
	"github.com/minewright/guidewright/internal/index"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *index.Store {
	t.Helper()
	cfg := index.Config{
		DataDir:          t.TempDir(),
		MaxSearchResults: 20,
	}
	s, err := index.New(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeCorpus lays out guide files in a temp directory and loads them.
func writeCorpus(t *testing.T, files map[string]string) (*corpus.Corpus, string) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	c, err := corpus.Load(root, corpus.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return c, root
}

const beeGuide = `# Bee Keeping HOWTO

## Finding Bees

Bees spawn near flowers in plains and flower forests. Bring shears and
a campfire before you approach the nest.

## Breeding

Feed two adult bees flowers to breed them. Any small flower works.
`

const drownedGuide = `# Drowned Farming

## Drop Rates

Drowned drop copper ingots and, rarely, tridents. Build the farm over
a river biome for trident-capable spawns.
`

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_CreatesDBFile(t *testing.T) {
	dir := t.TempDir()
	s, err := index.New(index.Config{DataDir: dir, MaxSearchResults: 20})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(dir, "guides.db")); err != nil {
		t.Fatalf("expected guides.db to exist: %v", err)
	}
}

func TestNew_IdempotentReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := index.Config{DataDir: dir, MaxSearchResults: 20}

	s1, err := index.New(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s1.Close()

	s2, err := index.New(cfg)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	if _, err := s2.Stats(); err != nil {
		t.Fatalf("stats after reopen: %v", err)
	}
}

func TestNew_DefaultsMaxResults(t *testing.T) {
	s, err := index.New(index.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()
}

// ─── Rebuild ─────────────────────────────────────────────────────────────────

func TestRebuild_IndexesGuidesAndSections(t *testing.T) {
	c, _ := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md":  "# Index\n\n- [Bees](BEE_HOWTO.md) — keeping bees\n- [Drowned](DROWNED_FARM.md) — farming drowned\n",
		"BEE_HOWTO.md":    beeGuide,
		"DROWNED_FARM.md": drownedGuide,
	})
	s := newTestStore(t)

	stats, err := s.Rebuild(c)
	if err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}
	if stats.Indexed != 2 {
		t.Errorf("Indexed = %d, want 2", stats.Indexed)
	}
	if stats.Skipped != 0 || stats.Removed != 0 {
		t.Errorf("Skipped/Removed = %d/%d, want 0/0", stats.Skipped, stats.Removed)
	}
	// Bee guide: preamble + 2 sections; drowned: preamble + 1 section.
	if stats.Sections < 4 {
		t.Errorf("Sections = %d, want at least 4", stats.Sections)
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if st.Guides != 2 {
		t.Errorf("Stats.Guides = %d, want 2", st.Guides)
	}
	if st.LastIndexedAt == "" {
		t.Error("Stats.LastIndexedAt is empty after rebuild")
	}
}

func TestRebuild_SkipsUnchangedGuides(t *testing.T) {
	c, _ := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md": "# Index\n\n- [Bees](BEE_HOWTO.md)\n",
		"BEE_HOWTO.md":   beeGuide,
	})
	s := newTestStore(t)

	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("first Rebuild() error: %v", err)
	}
	stats, err := s.Rebuild(c)
	if err != nil {
		t.Fatalf("second Rebuild() error: %v", err)
	}
	if stats.Indexed != 0 {
		t.Errorf("Indexed = %d, want 0 on unchanged corpus", stats.Indexed)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
}

func TestRebuild_ReindexesChangedGuide(t *testing.T) {
	files := map[string]string{
		"GUIDE_INDEX.md": "# Index\n\n- [Bees](BEE_HOWTO.md)\n",
		"BEE_HOWTO.md":   beeGuide,
	}
	c, root := writeCorpus(t, files)
	s := newTestStore(t)

	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("first Rebuild() error: %v", err)
	}

	changed := beeGuide + "\n## Honey Harvest\n\nUse a bottle on a full hive while the campfire smokes it.\n"
	if err := os.WriteFile(filepath.Join(root, "BEE_HOWTO.md"), []byte(changed), 0o644); err != nil {
		t.Fatalf("rewrite guide: %v", err)
	}
	c2, err := corpus.Load(root, corpus.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("reload corpus: %v", err)
	}

	stats, err := s.Rebuild(c2)
	if err != nil {
		t.Fatalf("second Rebuild() error: %v", err)
	}
	if stats.Indexed != 1 {
		t.Errorf("Indexed = %d, want 1 after content change", stats.Indexed)
	}

	results, err := s.Search("honey harvest", index.SearchOptions{})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected new section to be searchable after reindex")
	}
}

func TestRebuild_RemovesDeletedGuides(t *testing.T) {
	c, root := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md":  "# Index\n\n- [Bees](BEE_HOWTO.md)\n- [Drowned](DROWNED_FARM.md)\n",
		"BEE_HOWTO.md":    beeGuide,
		"DROWNED_FARM.md": drownedGuide,
	})
	s := newTestStore(t)

	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("first Rebuild() error: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "DROWNED_FARM.md")); err != nil {
		t.Fatalf("remove guide: %v", err)
	}
	c2, err := corpus.Load(root, corpus.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("reload corpus: %v", err)
	}

	stats, err := s.Rebuild(c2)
	if err != nil {
		t.Fatalf("second Rebuild() error: %v", err)
	}
	if stats.Removed != 1 {
		t.Errorf("Removed = %d, want 1", stats.Removed)
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if st.Guides != 1 {
		t.Errorf("Stats.Guides = %d after removal, want 1", st.Guides)
	}

	results, err := s.Search("trident", index.SearchOptions{})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for deleted guide, want 0", len(results))
	}
}

// ─── Search ──────────────────────────────────────────────────────────────────

func TestSearch_FindsSectionByContent(t *testing.T) {
	c, _ := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md":  "# Index\n\n- [Bees](BEE_HOWTO.md)\n- [Drowned](DROWNED_FARM.md)\n",
		"BEE_HOWTO.md":    beeGuide,
		"DROWNED_FARM.md": drownedGuide,
	})
	s := newTestStore(t)
	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	results, err := s.Search("campfire shears", index.SearchOptions{})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	top := results[0]
	if top.GuidePath != "BEE_HOWTO.md" {
		t.Errorf("top result guide = %q, want BEE_HOWTO.md", top.GuidePath)
	}
	if top.Heading != "Finding Bees" {
		t.Errorf("top result heading = %q, want %q", top.Heading, "Finding Bees")
	}
	if top.GuideTitle != "Bee Keeping HOWTO" {
		t.Errorf("top result title = %q, want %q", top.GuideTitle, "Bee Keeping HOWTO")
	}
	if !strings.Contains(top.Snippet, ">>") {
		t.Errorf("snippet %q has no match markers", top.Snippet)
	}
}

func TestSearch_GuideFilter(t *testing.T) {
	c, _ := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md":  "# Index\n\n- [Bees](BEE_HOWTO.md)\n- [Drowned](DROWNED_FARM.md)\n",
		"BEE_HOWTO.md":    beeGuide,
		"DROWNED_FARM.md": drownedGuide,
	})
	s := newTestStore(t)
	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	// "farm" appears in the drowned guide; filter to the bee guide.
	results, err := s.Search("farm", index.SearchOptions{Guide: "BEE_HOWTO.md"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	for _, r := range results {
		if r.GuidePath != "BEE_HOWTO.md" {
			t.Errorf("filtered search returned %q", r.GuidePath)
		}
	}
}

func TestSearch_EmptyQueryReturnsRecent(t *testing.T) {
	c, _ := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md": "# Index\n\n- [Bees](BEE_HOWTO.md)\n",
		"BEE_HOWTO.md":   beeGuide,
	})
	s := newTestStore(t)
	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	results, err := s.Search("", index.SearchOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("empty query should fall back to recent sections")
	}
	if len(results) > 2 {
		t.Errorf("got %d results, want at most 2", len(results))
	}
}

func TestSearch_QuotesFTSOperators(t *testing.T) {
	c, _ := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md": "# Index\n\n- [Bees](BEE_HOWTO.md)\n",
		"BEE_HOWTO.md":   beeGuide,
	})
	s := newTestStore(t)
	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	// Raw FTS operators and punctuation must not produce a syntax error.
	for _, q := range []string{"bees AND flowers", `"bees`, "NEAR(bees)", "bees-OR-nothing"} {
		if _, err := s.Search(q, index.SearchOptions{}); err != nil {
			t.Errorf("Search(%q) error: %v", q, err)
		}
	}
}

func TestSearch_LimitClamped(t *testing.T) {
	c, _ := writeCorpus(t, map[string]string{
		"GUIDE_INDEX.md": "# Index\n\n- [Bees](BEE_HOWTO.md)\n",
		"BEE_HOWTO.md":   beeGuide,
	})
	s, err := index.New(index.Config{DataDir: t.TempDir(), MaxSearchResults: 1})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()
	if _, err := s.Rebuild(c); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	results, err := s.Search("bees", index.SearchOptions{Limit: 50})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) > 1 {
		t.Errorf("got %d results, want at most MaxSearchResults=1", len(results))
	}
}
