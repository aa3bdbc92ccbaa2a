package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/votelens/votelens/internal/analyze"
	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
)

var (
	mapStrategy string
	mapJSON     string
	mapTaxonomy string
	showDetails bool
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map <statement>",
	Short: "Map a single priority statement to policy terminology",
	Long: `Map scores one free-text priority statement against every policy
category in the taxonomy and prints the matches with their scores.

Every score is explainable: pass --details to see exactly which
exclusion words, inclusion words, phrases, nuance triggers, and word
bonuses produced it.

Example:
  votelens map "I want tax cuts for the middle class"
  votelens map "clean energy jobs" --details
  votelens map "safer streets" --strategy keyword
  votelens map "affordable housing" --json matches.json`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVar(&mapStrategy, "strategy", "scored", "mapping strategy (scored, keyword)")
	mapCmd.Flags().StringVar(&mapJSON, "json", "", "write results as JSON to this path ('-' for stdout)")
	mapCmd.Flags().StringVar(&mapTaxonomy, "taxonomy", "", "taxonomy YAML file (default: embedded)")
	mapCmd.Flags().BoolVar(&showDetails, "details", false, "show the scoring detail trail per match")
}

func runMap(cmd *cobra.Command, args []string) error {
	statement := args[0]

	cfg := model.DefaultConfig()
	cfg.Mapping.Strategy = mapStrategy
	cfg.Mapping.TaxonomyFile = mapTaxonomy

	store, err := loadStore(cfg)
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}

	mapper, err := match.NewMapper(mapStrategy, store)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Mapping: %s\n", statement)
		fmt.Fprintf(os.Stderr, "Strategy: %s\n", mapStrategy)
		fmt.Fprintf(os.Stderr, "Categories: %d\n\n", store.Len())
	}

	results, err := mapper.MapStatement(statement)
	if err != nil {
		return fmt.Errorf("map statement: %w", err)
	}

	analyze.Rank(results)

	renderer := analyze.NewRenderer(false)

	if mapJSON != "" {
		data, err := renderer.RenderMatchesJSON(results)
		if err != nil {
			return err
		}
		if mapJSON == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(mapJSON, data, 0644); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", mapJSON)
		}
		return nil
	}

	fmt.Print(renderer.RenderMatchesTable(results, showDetails || verbose))
	return nil
}
