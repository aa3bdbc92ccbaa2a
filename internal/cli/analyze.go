package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/votelens/votelens/internal/analyze"
	"github.com/votelens/votelens/internal/model"
)

var (
	priorities    []string
	zipCode       string
	outJSON       string
	outMD         string
	outYAML       string
	strategy      string
	taxonomyFile  string
	analyzeTO     time.Duration
	noCache       bool
	noFooter      bool
	enrichEnabled bool
	directoryURLs []string
	llmEnabled    bool
	llmProvider   string
	llmModel      string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a set of priorities and generate a report",
	Long: `Analyze maps each submitted priority to policy terminology, ranks
the matches, detects priorities that pull in opposite directions, and
composes a plain-text summary of what was mapped.

Optionally the summary can be rewritten by an LLM (the mapping scores
are never affected) and mapped terms can be enriched with links to
related organizations from configured directory pages.

Example:
  votelens analyze -p "I want tax cuts for the middle class" -p "tax the rich"
  votelens analyze -p "clean air" --zip 02134 --json analysis.json
  votelens analyze -p "safer streets" --llm --llm-provider openai`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringArrayVarP(&priorities, "priority", "p", nil, "priority statement (repeatable)")
	analyzeCmd.Flags().StringVar(&zipCode, "zip", "", "ZIP code to record on the analysis (not interpreted)")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path ('-' for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outYAML, "yaml", "", "output YAML path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Mapping flags
	analyzeCmd.Flags().StringVar(&strategy, "strategy", "scored", "mapping strategy (scored, keyword)")
	analyzeCmd.Flags().StringVar(&taxonomyFile, "taxonomy", "", "taxonomy YAML file (default: embedded)")
	analyzeCmd.Flags().DurationVar(&analyzeTO, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the statement result cache")

	// Enrichment flags
	analyzeCmd.Flags().BoolVar(&enrichEnabled, "enrich", false, "enable interest-group enrichment")
	analyzeCmd.Flags().StringArrayVar(&directoryURLs, "directory-url", nil, "directory page URL to scan for related organizations (repeatable)")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(priorities) == 0 {
		return fmt.Errorf("at least one --priority is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTO)
	defer cancel()

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Mapping.Strategy = strategy
	cfg.Mapping.TaxonomyFile = taxonomyFile
	cfg.Cache.Enabled = !noCache
	cfg.Enrich.Enabled = enrichEnabled
	cfg.Enrich.DirectoryURLs = directoryURLs
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		if err := applyLLMEnv(cfg); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d priorities\n", len(priorities))
		fmt.Fprintf(os.Stderr, "Strategy: %s\n", strategy)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", !noCache)
	}

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}

	analysis, err := analyzer.AnalyzePriorities(ctx, priorities, zipCode)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		mapped := 0
		for _, m := range analysis.MappedPriorities {
			if !m.Fallback {
				mapped++
			}
		}
		fmt.Fprintf(os.Stderr, "✓ Mapped %d/%d priorities\n", mapped, len(analysis.MappedPriorities))
		fmt.Fprintf(os.Stderr, "✓ Found %d conflicts\n", len(analysis.ConflictingPriorities))
		if analysis.LLM != nil && analysis.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Narrative by %s/%s\n", analysis.LLM.Provider, analysis.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	return renderAnalysis(analysis, cfg.Output.IncludeFooter)
}

// renderAnalysis writes the analysis in every requested format; with no
// output flags set, Markdown goes to stdout
func renderAnalysis(analysis *model.Analysis, includeFooter bool) error {
	renderer := analyze.NewRenderer(includeFooter)

	wrote := false
	if outJSON != "" {
		data, err := renderer.RenderJSON(analysis)
		if err != nil {
			return err
		}
		if outJSON == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
		} else if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		wrote = true
	}

	if outYAML != "" {
		data, err := renderer.RenderYAML(analysis)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outYAML, data, 0644); err != nil {
			return fmt.Errorf("write YAML: %w", err)
		}
		wrote = true
	}

	if outMD != "" {
		if err := os.WriteFile(outMD, []byte(renderer.RenderMarkdown(analysis)), 0644); err != nil {
			return fmt.Errorf("write Markdown: %w", err)
		}
		wrote = true
	}

	if !wrote {
		fmt.Print(renderer.RenderMarkdown(analysis))
	}

	return nil
}
