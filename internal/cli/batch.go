package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/votelens/votelens/internal/analyze"
	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Map many priority statements from a file in parallel",
	Long: `Batch maps priority statements concurrently:
- Read statements from input file (one per line, # comments skipped)
- Map statements in parallel with configurable worker count
- Write one JSON report per statement into the output directory

Example:
  votelens batch priorities.txt
  votelens batch priorities.txt --concurrency 10 --output-dir ./reports
  votelens batch priorities.txt --strategy keyword`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./votelens-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&strategy, "strategy", "scored", "mapping strategy (scored, keyword)")
	batchCmd.Flags().StringVar(&taxonomyFile, "taxonomy", "", "taxonomy YAML file (default: embedded)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Votelens Batch Mapping\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Strategy:     %s\n", strategy)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := model.DefaultConfig()
	cfg.Mapping.Strategy = strategy
	cfg.Mapping.TaxonomyFile = taxonomyFile

	store, err := loadStore(cfg)
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}

	mapper, err := match.NewMapper(strategy, store)
	if err != nil {
		return err
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(mapper, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading statements from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d statements\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Mapping with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	renderer := analyze.NewRenderer(false)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %q: %v\n", result.Statement, result.Error)
			continue
		}

		successCount++

		analyze.Rank(result.Matches)

		data, err := renderer.RenderMatchesJSON(result.Matches)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %q: render failed: %v\n", result.Statement, err)
			continue
		}

		jsonPath := filepath.Join(outputDir, sanitizeFilename(result.Statement)+".json")
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %q: failed to write JSON: %v\n", result.Statement, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %q (%d matches)\n", result.Statement, len(result.Matches))
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d statements\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename sanitizes a statement for use as a filename
func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('-')
		}
	}

	out := sb.String()
	if len(out) > 100 {
		out = out[:100]
	}
	if out == "" {
		out = "statement"
	}
	return out
}
