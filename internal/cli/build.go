package cli

import (
	"fmt"
	"os"

	"github.com/votelens/votelens/internal/analyze"
	"github.com/votelens/votelens/internal/cache"
	"github.com/votelens/votelens/internal/enrich"
	"github.com/votelens/votelens/internal/llm"
	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/taxonomy"
	"github.com/votelens/votelens/internal/worker"
)

// loadStore loads the taxonomy, preferring an operator-supplied file
// over the embedded default
func loadStore(cfg *model.Config) (*taxonomy.Store, error) {
	if cfg.Mapping.TaxonomyFile != "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using taxonomy file: %s\n", cfg.Mapping.TaxonomyFile)
		}
		return taxonomy.LoadFile(cfg.Mapping.TaxonomyFile)
	}
	return taxonomy.Load()
}

// buildCache assembles the configured cache, or nil when disabled
func buildCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.DiskDir != "" {
		return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
	}
	return cache.NewMemoryCache(cfg.Cache.MemoryTTL, 2*cfg.Cache.MemoryTTL)
}

// buildNarrator assembles the LLM narrator, or nil when disabled
func buildNarrator(cfg *model.Config) (*llm.Narrator, error) {
	if cfg.LLM.Provider == "" {
		return nil, nil
	}
	llmConfig := llm.ConfigFromModel(cfg.LLM)
	llmConfig.HTTPProxy = cfg.HTTP.HTTPProxy
	llmConfig.HTTPSProxy = cfg.HTTP.HTTPSProxy
	return llm.NewNarrator(llmConfig)
}

// buildEnricher assembles the interest-group enricher, or nil when
// disabled or unconfigured
func buildEnricher(cfg *model.Config, pageCache cache.Cache) *enrich.Enricher {
	if !cfg.Enrich.Enabled || len(cfg.Enrich.DirectoryURLs) == 0 {
		return nil
	}

	fetcher := enrich.NewFetcher(enrich.FetcherOptions{
		Timeout:    cfg.HTTP.Timeout,
		UserAgent:  cfg.HTTP.UserAgent,
		MaxBytes:   cfg.HTTP.MaxBodyBytes,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		Limiter:    worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst),
		Cache:      pageCache,
		CacheTTL:   cfg.Cache.DiskTTL,
	})

	return enrich.NewEnricher(fetcher, cfg.Enrich.DirectoryURLs, cfg.Enrich.MaxGroups)
}

// buildAnalyzer wires the full analysis pipeline from configuration
func buildAnalyzer(cfg *model.Config) (*analyze.Analyzer, error) {
	store, err := loadStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	mapper, err := match.NewMapper(cfg.Mapping.Strategy, store)
	if err != nil {
		return nil, err
	}

	narrator, err := buildNarrator(cfg)
	if err != nil {
		return nil, err
	}

	resultCache := buildCache(cfg)

	return analyze.NewAnalyzer(analyze.Options{
		Store:    store,
		Mapper:   mapper,
		Strategy: cfg.Mapping.Strategy,
		Cache:    resultCache,
		CacheTTL: cfg.Cache.MemoryTTL,
		Narrator: narrator,
		Enricher: buildEnricher(cfg, resultCache),
		Verbose:  cfg.Output.Verbose,
	}), nil
}

// applyLLMEnv fills the API key and base URL from the environment for
// the configured provider
func applyLLMEnv(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "":
		return nil
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
