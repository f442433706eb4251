// Package index implements the guide search index.
//
// It uses SQLite with FTS5 full-text search over guide sections, so the
// crew can find "the paragraph about drowned drop rates" without reading
// whole manuals. The index is derivative state: it can be rebuilt from
// the corpus at any time, and Rebuild skips guides whose content hash
// has not changed.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/minewright/guidewright/internal/corpus"
	"github.com/minewright/guidewright/internal/markdown"
)

// Config holds index store configuration.
type Config struct {
	// DataDir is where guides.db lives.
	DataDir string
	// MaxSearchResults caps any single search.
	MaxSearchResults int
}

// DefaultConfig places the index in a .guidewright directory under the
// working tree.
func DefaultConfig() Config {
	return Config{
		DataDir:          ".guidewright",
		MaxSearchResults: 20,
	}
}

// Store is the guide search index backed by SQLite + FTS5.
type Store struct {
	db  *sql.DB
	cfg Config
}

// SearchOptions filter FTS queries.
type SearchOptions struct {
	// Guide restricts results to one guide path.
	Guide string
	// Limit caps the result count (clamped by MaxSearchResults).
	Limit int
}

// SearchResult is one matching guide section.
type SearchResult struct {
	GuidePath  string  `json:"guide_path"`
	GuideTitle string  `json:"guide_title"`
	Heading    string  `json:"heading"`
	Level      int     `json:"level"`
	StartLine  int     `json:"start_line"`
	Snippet    string  `json:"snippet"`
	Rank       float64 `json:"rank"`
}

// RebuildStats reports what a Rebuild did.
type RebuildStats struct {
	Indexed  int `json:"indexed"`
	Skipped  int `json:"skipped"`
	Removed  int `json:"removed"`
	Sections int `json:"sections"`
}

// Stats holds aggregate index statistics.
type Stats struct {
	Guides        int    `json:"guides"`
	Sections      int    `json:"sections"`
	LastIndexedAt string `json:"last_indexed_at,omitempty"`
}

// New opens (or creates) the index database, applies pragmas, and runs
// migrations.
func New(cfg Config) (*Store, error) {
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = DefaultConfig().MaxSearchResults
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("index: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "guides.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("index: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("index: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("index: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS guides (
			id           TEXT PRIMARY KEY,
			path         TEXT NOT NULL UNIQUE,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL,
			mod_time     TEXT,
			indexed_at   TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS sections (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			guide_path TEXT    NOT NULL,
			heading    TEXT    NOT NULL,
			level      INTEGER NOT NULL,
			start_line INTEGER NOT NULL,
			content    TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sections_guide ON sections(guide_path);

		CREATE VIRTUAL TABLE IF NOT EXISTS sections_fts USING fts5(
			heading,
			content,
			guide_path,
			content='sections',
			content_rowid='id'
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS triggers (idempotent via sqlite_master probe).
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='sections_fts_insert'",
	).Scan(&name)
	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER sections_fts_insert AFTER INSERT ON sections BEGIN
				INSERT INTO sections_fts(rowid, heading, content, guide_path)
				VALUES (new.id, new.heading, new.content, new.guide_path);
			END;

			CREATE TRIGGER sections_fts_delete AFTER DELETE ON sections BEGIN
				INSERT INTO sections_fts(sections_fts, rowid, heading, content, guide_path)
				VALUES ('delete', old.id, old.heading, old.content, old.guide_path);
			END;
		`
		if _, err := s.db.Exec(triggers); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}

// Rebuild synchronizes the index with the corpus. Guides whose content
// hash is unchanged are skipped; guides no longer on disk are purged.
func (s *Store) Rebuild(c *corpus.Corpus) (RebuildStats, error) {
	var stats RebuildStats

	existing, err := s.hashesByPath()
	if err != nil {
		return stats, err
	}

	for _, path := range c.Order {
		g := c.Guides[path]
		if existing[path] == g.ContentHash {
			stats.Skipped++
			delete(existing, path)
			continue
		}
		delete(existing, path)

		sections := markdown.Scan(g.Body).Sections
		if err := s.replaceGuide(c, g, sections); err != nil {
			return stats, fmt.Errorf("index guide %s: %w", path, err)
		}
		stats.Indexed++
		stats.Sections += len(sections)
	}

	// Whatever is left in existing was removed from the corpus.
	for path := range existing {
		if err := s.removeGuide(path); err != nil {
			return stats, fmt.Errorf("remove guide %s: %w", path, err)
		}
		stats.Removed++
	}

	return stats, nil
}

// replaceGuide swaps out a guide's row and sections in one transaction.
func (s *Store) replaceGuide(c *corpus.Corpus, g *corpus.Guide, sections []markdown.Section) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM sections WHERE guide_path = ?`, g.Path); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO guides (id, path, title, description, content_hash, mod_time, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			title = excluded.title,
			description = excluded.description,
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			indexed_at = excluded.indexed_at
	`, g.ID, g.Path, g.Title, c.Description(g.Path), g.ContentHash,
		g.ModTime.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	for _, sec := range sections {
		heading := sec.Heading
		if heading == "" {
			heading = g.Title // preamble sections search under the guide title
		}
		if _, err := tx.Exec(`
			INSERT INTO sections (guide_path, heading, level, start_line, content)
			VALUES (?, ?, ?, ?, ?)
		`, g.Path, heading, sec.Level, sec.StartLine, sec.Content); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) removeGuide(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM sections WHERE guide_path = ?`, path); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM guides WHERE path = ?`, path); err != nil {
		return err
	}
	return tx.Commit()
}

// hashesByPath loads the indexed content hash for every guide.
func (s *Store) hashesByPath() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT path, content_hash FROM guides`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

// Search runs an FTS5 query over guide sections. An empty query falls
// back to the most recently indexed sections (no FTS).
func (s *Store) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > s.cfg.MaxSearchResults {
		limit = s.cfg.MaxSearchResults
	}

	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return s.searchRecent(opts, limit)
	}

	sqlStr := `
		SELECT sec.guide_path, g.title, sec.heading, sec.level, sec.start_line,
		       snippet(sections_fts, 1, '>>', '<<', '…', 16),
		       fts.rank
		FROM sections_fts fts
		JOIN sections sec ON sec.id = fts.rowid
		JOIN guides g ON g.path = sec.guide_path
		WHERE sections_fts MATCH ?
	`
	args := []any{ftsQuery}

	if opts.Guide != "" {
		sqlStr += " AND sec.guide_path = ?"
		args = append(args, opts.Guide)
	}

	sqlStr += " ORDER BY fts.rank LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.GuidePath, &r.GuideTitle, &r.Heading,
			&r.Level, &r.StartLine, &r.Snippet, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// searchRecent returns sections of the most recently indexed guides.
func (s *Store) searchRecent(opts SearchOptions, limit int) ([]SearchResult, error) {
	sqlStr := `
		SELECT sec.guide_path, g.title, sec.heading, sec.level, sec.start_line,
		       substr(sec.content, 1, 200)
		FROM sections sec
		JOIN guides g ON g.path = sec.guide_path
	`
	var args []any
	if opts.Guide != "" {
		sqlStr += " WHERE sec.guide_path = ?"
		args = append(args, opts.Guide)
	}
	sqlStr += " ORDER BY g.indexed_at DESC, sec.id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("index: recent sections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.GuidePath, &r.GuideTitle, &r.Heading,
			&r.Level, &r.StartLine, &r.Snippet); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Stats returns aggregate counts for the index.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow(`SELECT count(*) FROM guides`).Scan(&st.Guides); err != nil {
		return st, fmt.Errorf("index: stats: %w", err)
	}
	if err := s.db.QueryRow(`SELECT count(*) FROM sections`).Scan(&st.Sections); err != nil {
		return st, fmt.Errorf("index: stats: %w", err)
	}
	var last sql.NullString
	if err := s.db.QueryRow(`SELECT max(indexed_at) FROM guides`).Scan(&last); err != nil {
		return st, fmt.Errorf("index: stats: %w", err)
	}
	if last.Valid {
		st.LastIndexedAt = last.String
	}
	return st, nil
}

// sanitizeFTS quotes every term so user input cannot inject FTS5
// operators (AND, NEAR, column filters).
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		w = strings.Trim(w, `"`)
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " ")
}
