package model

import "time"

// Config holds the complete votelens configuration
type Config struct {
	Mapping     MappingConfig     `json:"mapping" yaml:"mapping"`
	HTTP        HTTPConfig        `json:"http" yaml:"http"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency"`
	Enrich      EnrichConfig      `json:"enrich" yaml:"enrich"`
	LLM         LLMConfig         `json:"llm" yaml:"llm"`
	Output      OutputConfig      `json:"output" yaml:"output"`
}

// MappingConfig controls the terminology mapping engine
type MappingConfig struct {
	Strategy     string `json:"strategy" yaml:"strategy"`                               // "scored" or "keyword"
	TaxonomyFile string `json:"taxonomy_file,omitempty" yaml:"taxonomy_file,omitempty"` // Optional override; embedded taxonomy used when empty
}

// HTTPConfig controls outbound HTTP behavior (enrichment fetches)
type HTTPConfig struct {
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent    string        `json:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	HTTPProxy    string        `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty"`
}

// CacheConfig controls statement-result and page caching
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
	DiskDir   string        `json:"disk_dir,omitempty" yaml:"disk_dir,omitempty"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl"`
}

// ConcurrencyConfig controls worker counts and outbound rate limits
type ConcurrencyConfig struct {
	Workers           int     `json:"workers" yaml:"workers"`                       // Batch analysis workers
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"` // Per-domain limit for enrichment fetches
	Burst             int     `json:"burst" yaml:"burst"`
}

// EnrichConfig controls interest-group enrichment
type EnrichConfig struct {
	Enabled       bool     `json:"enabled" yaml:"enabled"`
	DirectoryURLs []string `json:"directory_urls,omitempty" yaml:"directory_urls,omitempty"`
	MaxGroups     int      `json:"max_groups" yaml:"max_groups"` // Per mapped term
}

// LLMConfig controls optional narrative generation
type LLMConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"` // openai, anthropic, ollama, "" = disabled
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey    string `json:"-" yaml:"-"` // Never serialized; read from environment
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout   int    `json:"timeout" yaml:"timeout"` // Seconds
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mapping: MappingConfig{
			Strategy: "scored",
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Votelens/0.1 (+https://github.com/votelens/votelens)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Enrich: EnrichConfig{
			Enabled:   false,
			MaxGroups: 5,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 1000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
