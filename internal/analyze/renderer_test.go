package analyze

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/votelens/votelens/internal/model"
)

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		ZipCode:    "02134",
		AnalyzedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		MappedPriorities: []model.PriorityMapping{
			{
				Priority: "clean energy now",
				Strategy: "scored",
				Matches: []model.MatchResult{
					{Category: "climateAction", StandardTerm: "Climate Change Mitigation", PlainEnglish: "I want action on climate change.", Score: 1.4, Details: []string{`phrase match "clean energy": +1.0`}},
				},
			},
			{
				Priority: "something vague",
				Fallback: true,
				Matches: []model.MatchResult{
					{Category: "clarificationNeeded", StandardTerm: "Clarification Needed"},
				},
			},
		},
		ConflictingPriorities: []model.Conflict{
			{First: "climateAction", Second: "fossilFuelJobs", Description: `"Climate Change Mitigation" and "Fossil Fuel Industry Support" pull in opposite directions`},
		},
		Narrative: "Based on your submitted priorities, 1 of 2 mapped to policy areas.",
		InterestGroups: []model.InterestGroup{
			{Name: "Clean Energy Coalition", URL: "https://example.org/cec", MatchedTerm: "Climate Change Mitigation"},
		},
	}
}

func TestRenderer_JSON(t *testing.T) {
	renderer := NewRenderer(false)

	data, err := renderer.RenderJSON(sampleAnalysis())
	if err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{"mappedPriorities", "conflictingPriorities", "analysis", "zip_code"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected JSON key %q", key)
		}
	}
}

func TestRenderer_Markdown(t *testing.T) {
	renderer := NewRenderer(true)

	out := renderer.RenderMarkdown(sampleAnalysis())

	for _, want := range []string{
		"# Priority Analysis",
		"ZIP code: 02134",
		"## Mapped priorities",
		"**Climate Change Mitigation** (score 1.4)",
		"No policy match; needs clarification.",
		"## Tensions",
		"## Summary",
		"Clean Energy Coalition",
		"Narrative composed deterministically",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestRenderer_MarkdownWithoutFooter(t *testing.T) {
	renderer := NewRenderer(false)
	out := renderer.RenderMarkdown(sampleAnalysis())
	if strings.Contains(out, "Narrative composed deterministically") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderer_MatchesTable(t *testing.T) {
	renderer := NewRenderer(false)

	results := []model.MatchResult{
		{Category: "climateAction", StandardTerm: "Climate Change Mitigation", Score: 1.4, Details: []string{`phrase match "clean energy": +1.0`}},
	}

	plain := renderer.RenderMatchesTable(results, false)
	if !strings.Contains(plain, "climateAction") {
		t.Error("Expected category in table output")
	}
	if strings.Contains(plain, "phrase match") {
		t.Error("Expected no details without the flag")
	}

	detailed := renderer.RenderMatchesTable(results, true)
	if !strings.Contains(detailed, "phrase match") {
		t.Error("Expected details with the flag")
	}

	if out := renderer.RenderMatchesTable(nil, false); !strings.Contains(out, "No matches") {
		t.Errorf("Expected empty-result message, got %q", out)
	}
}
