package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minewright/guidewright/internal/config"
	"github.com/minewright/guidewright/internal/corpus"
	"github.com/minewright/guidewright/internal/lint"
)

var (
	lintFormat string
	lintRules  []string
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Audit the guide corpus",
	Long: `Audit the guide corpus and print the findings.

Checks catalog consistency (every GUIDE_INDEX.md entry resolves to a
file and every guide is cataloged), anchor and cross-link resolution,
unclosed code fences, unresolved {{placeholders}}, and the arithmetic
of scoring tables. Findings are flagged, never fixed.

Exits 1 when any error-severity finding exists, so the audit can gate CI.`,
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

		engine := lint.NewEngine(lintOptions(cfg))
		report := engine.Run(c, lintRules...)

		switch lintFormat {
		case "markdown":
			rendered, err := lint.RenderMarkdown(report)
			if err != nil {
				return err
			}
			fmt.Print(rendered)
		default:
			fmt.Print(lint.RenderText(report))
		}

		if report.HasErrors() {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringVar(&lintFormat, "format", "text",
		"output format: text (one finding per line) or markdown")
	lintCmd.Flags().StringSliceVar(&lintRules, "rules", nil,
		"rule ID prefixes to restrict the audit, e.g. --rules index/,anchor/")
	rootCmd.AddCommand(lintCmd)
}

// lintOptions maps the config's lint section onto engine options.
func lintOptions(cfg *config.Config) lint.Options {
	opts := lint.Options{Disable: cfg.Lint.Disable}
	if len(cfg.Lint.Severity) > 0 {
		opts.Severity = make(map[string]lint.Severity, len(cfg.Lint.Severity))
		for rule, s := range cfg.Lint.Severity {
			sev, err := lint.ParseSeverity(s)
			if err != nil {
				continue
			}
			opts.Severity[rule] = sev
		}
	}
	return opts
}
