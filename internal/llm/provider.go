package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/votelens/votelens/internal/model"
)

// Provider defines the interface for LLM narrative providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Narrate generates a plain-language narrative for an analysis
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest contains the input for narrative generation
type NarrateRequest struct {
	// Analysis is the aggregated priority analysis to narrate
	Analysis model.Analysis

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// NarrateResponse contains the generated narrative
type NarrateResponse struct {
	// Narrative is the generated text
	Narrative string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}

// BuildPrompt constructs the default narrative prompt. The prompt is
// strictly grounded: the model may only discuss the mapped terms it is
// given and must never invent positions the voter did not express.
func BuildPrompt(analysis model.Analysis) string {
	var b strings.Builder

	b.WriteString(`You are writing a short, neutral summary of a voter's stated priorities.

CRITICAL RULES:
1. ONLY discuss the policy terms listed below. Do not introduce positions the voter did not express.
2. Do not advocate for or against any position. Describe, never persuade.
3. If priorities conflict, note the tension plainly without taking a side.
4. Write 2-4 sentences of plain English addressed to the voter ("You prioritized...").

Mapped priorities:
`)

	for _, mapping := range analysis.MappedPriorities {
		if len(mapping.Matches) == 0 || mapping.Fallback {
			fmt.Fprintf(&b, "- %q: no clear match (needs clarification)\n", mapping.Priority)
			continue
		}
		top := mapping.Matches[0]
		fmt.Fprintf(&b, "- %q -> %s (%s)\n", mapping.Priority, top.StandardTerm, top.PlainEnglish)
	}

	if len(analysis.ConflictingPriorities) > 0 {
		b.WriteString("\nDetected tensions:\n")
		for _, conflict := range analysis.ConflictingPriorities {
			fmt.Fprintf(&b, "- %s\n", conflict.Description)
		}
	}

	return b.String()
}
