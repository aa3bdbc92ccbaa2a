package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/votelens/votelens/internal/model"
)

// Renderer formats analyses and match results for output
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new Renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON renders the analysis as indented JSON
func (r *Renderer) RenderJSON(analysis *model.Analysis) ([]byte, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderYAML renders the analysis as YAML
func (r *Renderer) RenderYAML(analysis *model.Analysis) ([]byte, error) {
	data, err := yaml.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return data, nil
}

// RenderMarkdown renders the analysis as a human-readable report
func (r *Renderer) RenderMarkdown(analysis *model.Analysis) string {
	var sb strings.Builder

	sb.WriteString("# Priority Analysis\n\n")
	if analysis.ZipCode != "" {
		sb.WriteString(fmt.Sprintf("ZIP code: %s\n\n", analysis.ZipCode))
	}
	sb.WriteString(fmt.Sprintf("Analyzed: %s\n\n", analysis.AnalyzedAt.Format("2006-01-02 15:04 UTC")))

	sb.WriteString("## Mapped priorities\n\n")
	for _, m := range analysis.MappedPriorities {
		sb.WriteString(fmt.Sprintf("### %s\n\n", m.Priority))
		if m.Fallback {
			sb.WriteString("No policy match; needs clarification.\n\n")
			continue
		}
		for _, match := range m.Matches {
			sb.WriteString(fmt.Sprintf("- **%s** (score %.1f): %s\n", match.StandardTerm, match.Score, match.PlainEnglish))
		}
		sb.WriteString("\n")
	}

	if len(analysis.ConflictingPriorities) > 0 {
		sb.WriteString("## Tensions\n\n")
		for _, c := range analysis.ConflictingPriorities {
			sb.WriteString(fmt.Sprintf("- %s\n", c.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(analysis.Narrative)
	sb.WriteString("\n")

	if len(analysis.InterestGroups) > 0 {
		sb.WriteString("\n## Related organizations\n\n")
		for _, g := range analysis.InterestGroups {
			sb.WriteString(fmt.Sprintf("- [%s](%s) — %s\n", g.Name, g.URL, g.MatchedTerm))
		}
	}

	if r.includeFooter {
		sb.WriteString("\n---\n")
		if analysis.LLM != nil && analysis.LLM.Enabled {
			sb.WriteString(fmt.Sprintf("Narrative generated by %s (%s).\n", analysis.LLM.Provider, analysis.LLM.Model))
		} else {
			sb.WriteString("Narrative composed deterministically from mapped terms.\n")
		}
	}

	return sb.String()
}

// RenderMatchesJSON renders standalone match results as indented JSON
func (r *Renderer) RenderMatchesJSON(results []model.MatchResult) ([]byte, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderMatchesTable renders match results as an aligned text table,
// optionally including each match's detail trail
func (r *Renderer) RenderMatchesTable(results []model.MatchResult, showDetails bool) string {
	if len(results) == 0 {
		return "No matches.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-28s %-36s %7s\n", "CATEGORY", "STANDARD TERM", "SCORE"))
	for _, res := range results {
		sb.WriteString(fmt.Sprintf("%-28s %-36s %7.1f\n", res.Category, res.StandardTerm, res.Score))
		if showDetails {
			for _, d := range res.Details {
				sb.WriteString(fmt.Sprintf("    %s\n", d))
			}
		}
	}
	return sb.String()
}
