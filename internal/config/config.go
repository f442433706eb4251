// Package config loads guidewright.yaml, the project-level configuration
// for the guide corpus toolkit. Every field has a sensible default; a
// missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name, looked up by walking
// from the working directory toward the filesystem root.
const FileName = "guidewright.yaml"

// Config is the full guidewright configuration.
type Config struct {
	Corpus CorpusConfig `yaml:"corpus"`
	Index  IndexConfig  `yaml:"index"`
	Watch  WatchConfig  `yaml:"watch"`
	Lint   LintConfig   `yaml:"lint"`
}

// CorpusConfig locates the crew-manual corpus.
type CorpusConfig struct {
	// Root is the corpus directory, relative to the config file (or the
	// working directory when no config file exists).
	Root string `yaml:"root"`
	// IndexFile is the catalog file name inside the corpus root.
	IndexFile string `yaml:"index_file"`
	// Include lists doublestar globs for guide files.
	Include []string `yaml:"include"`
	// Exclude lists globs for files to skip.
	Exclude []string `yaml:"exclude"`
}

// IndexConfig configures the search index.
type IndexConfig struct {
	// DataDir is where the SQLite database lives.
	DataDir string `yaml:"data_dir"`
	// MaxSearchResults caps any single search.
	MaxSearchResults int `yaml:"max_search_results"`
}

// WatchConfig configures live reindexing on corpus changes.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// DebounceMS is how long to wait after the last filesystem event
	// before reindexing. Editors fire bursts of events per save.
	DebounceMS int `yaml:"debounce_ms"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// LintConfig tunes the audit rules.
type LintConfig struct {
	// Disable lists rule IDs to skip entirely.
	Disable []string `yaml:"disable"`
	// Severity overrides per-rule severity ("error", "warning", "info").
	Severity map[string]string `yaml:"severity"`
}

// Default returns the configuration used when no guidewright.yaml exists.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:      "docs/agent-guides",
			IndexFile: "GUIDE_INDEX.md",
			Include:   []string{"*.md"},
		},
		Index: IndexConfig{
			DataDir:          ".guidewright",
			MaxSearchResults: 20,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 500,
		},
	}
}

// Load reads and validates the config file at path. Fields left unset
// in the file keep their defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the config at path, or — when path is empty —
// searches for guidewright.yaml from the working directory upward.
// When no config file exists anywhere, returns defaults.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		found, err := Find()
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Find walks up from the working directory looking for guidewright.yaml.
// Returns "" when no config file is found; the caller falls back to
// defaults. This allows running from any subdirectory of the project.
func Find() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		candidate := filepath.Join(current, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

// Validate checks field values that yaml.Unmarshal cannot.
func (c *Config) Validate() error {
	if c.Corpus.Root == "" {
		return fmt.Errorf("corpus.root must not be empty")
	}
	if c.Corpus.IndexFile == "" {
		return fmt.Errorf("corpus.index_file must not be empty")
	}
	if c.Index.MaxSearchResults <= 0 {
		return fmt.Errorf("index.max_search_results must be positive, got %d", c.Index.MaxSearchResults)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMS)
	}
	for rule, sev := range c.Lint.Severity {
		switch sev {
		case "error", "warning", "info":
		default:
			return fmt.Errorf("lint.severity[%s]: unknown severity %q", rule, sev)
		}
	}
	return nil
}

// ResolveRoot resolves the corpus root against the directory holding
// the config file. With no config file, relative roots stay relative
// to the working directory.
func (c *Config) ResolveRoot(configPath string) string {
	if configPath == "" || filepath.IsAbs(c.Corpus.Root) {
		return c.Corpus.Root
	}
	return filepath.Join(filepath.Dir(configPath), c.Corpus.Root)
}
