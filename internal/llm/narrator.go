package llm

import (
	"context"
	"fmt"

	"github.com/votelens/votelens/internal/model"
)

// Narrator wraps an optional LLM provider for narrative generation.
// The narrative never affects mapping scores; it is generated after
// scoring completes and failures degrade to the deterministic narrative.
type Narrator struct {
	provider Provider
	config   Config
}

// NewNarrator creates a narrator from configuration. A disabled provider
// ("" in config) yields a narrator that reports IsEnabled() == false.
func NewNarrator(config Config) (*Narrator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	return &Narrator{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (n *Narrator) IsEnabled() bool {
	return n.provider != nil
}

// ProviderName returns the configured provider's name, or ""
func (n *Narrator) ProviderName() string {
	if n.provider == nil {
		return ""
	}
	return n.provider.Name()
}

// GenerateNarrative produces a narrative for the analysis. When the
// provider is disabled it returns ("", nil, nil); when the provider is
// unavailable it returns meta with a warning and no narrative so the
// caller can fall back without failing the analysis.
func (n *Narrator) GenerateNarrative(ctx context.Context, analysis model.Analysis) (string, *model.NarrativeMeta, error) {
	if n.provider == nil {
		return "", nil, nil
	}

	if !n.provider.IsAvailable(ctx) {
		return "", &model.NarrativeMeta{
			Enabled:  false,
			Provider: n.provider.Name(),
			Warnings: []string{
				fmt.Sprintf("LLM provider %s is not available; using the deterministic narrative", n.provider.Name()),
			},
		}, nil
	}

	resp, err := n.provider.Narrate(ctx, NarrateRequest{
		Analysis:  analysis,
		Model:     n.config.Model,
		MaxTokens: n.config.MaxTokens,
	})
	if err != nil {
		return "", nil, fmt.Errorf("generate narrative: %w", err)
	}

	meta := &model.NarrativeMeta{
		Enabled:    true,
		Provider:   n.provider.Name(),
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	}

	return resp.Narrative, meta, nil
}
