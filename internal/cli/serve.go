package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP debug surface",
	Long: `Serve exposes the mapping engine over HTTP for debugging and
integration testing:

  POST /api/terminology  {"input": "..."}        → ranked matches
  POST /api/analyze      {"priorities": [...]}   → full analysis
  GET  /healthz                                  → liveness

Not hardened for public exposure; bind to localhost.

Example:
  votelens serve
  votelens serve --addr :9090 --strategy keyword`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address")
	serveCmd.Flags().StringVar(&strategy, "strategy", "scored", "mapping strategy (scored, keyword)")
	serveCmd.Flags().StringVar(&taxonomyFile, "taxonomy", "", "taxonomy YAML file (default: embedded)")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the statement result cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Mapping.Strategy = strategy
	cfg.Mapping.TaxonomyFile = taxonomyFile
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	store, err := loadStore(cfg)
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}

	mapper, err := match.NewMapper(strategy, store)
	if err != nil {
		return err
	}

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Votelens listening on http://%s\n", serveAddr)
	fmt.Fprintf(os.Stderr, "Strategy: %s, categories: %d\n", strategy, store.Len())

	srv := server.NewServer(mapper, analyzer, verbose)
	return srv.ListenAndServe(ctx, serveAddr)
}
