package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minewright/guidewright/internal/config"
	"github.com/minewright/guidewright/internal/corpus"
	"github.com/minewright/guidewright/internal/index"
)

var (
	searchGuide string
	searchLimit int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the full-text search index",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index from the guides on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, usedPath, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		root := cfg.ResolveRoot(usedPath)

		c, err := corpus.Load(root, corpus.LoadOptions{
			IndexFile: cfg.Corpus.IndexFile,
			Include:   cfg.Corpus.Include,
			Exclude:   cfg.Corpus.Exclude,
		})
		if err != nil {
			return fmt.Errorf("loading corpus from %s: %w", root, err)
		}

		store, err := openIndex(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		stats, err := store.Rebuild(c)
		if err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}

		fmt.Printf("indexed %d guides (%d sections), %d unchanged, %d removed\n",
			stats.Indexed, stats.Sections, stats.Skipped, stats.Removed)
		return nil
	},
}

var indexSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search guide sections",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}

		store, err := openIndex(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		query := strings.Join(args, " ")
		results, err := store.Search(query, index.SearchOptions{
			Guide: searchGuide,
			Limit: searchLimit,
		})
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		if len(results) == 0 {
			fmt.Printf("no sections match %q\n", query)
			return nil
		}
		for _, r := range results {
			fmt.Printf("%s:%d\t%s — %s\n\t%s\n",
				r.GuidePath, r.StartLine, r.GuideTitle, r.Heading,
				strings.TrimSpace(r.Snippet))
		}
		return nil
	},
}

func init() {
	indexSearchCmd.Flags().StringVar(&searchGuide, "guide", "",
		"restrict the search to one guide file")
	indexSearchCmd.Flags().IntVar(&searchLimit, "limit", 10,
		"maximum results")
	indexCmd.AddCommand(indexRebuildCmd, indexSearchCmd)
	rootCmd.AddCommand(indexCmd)
}

func openIndex(cfg *config.Config) (*index.Store, error) {
	store, err := index.New(index.Config{
		DataDir:          cfg.Index.DataDir,
		MaxSearchResults: cfg.Index.MaxSearchResults,
	})
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	return store, nil
}
