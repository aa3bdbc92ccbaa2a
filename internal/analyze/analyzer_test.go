package analyze

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/votelens/votelens/internal/cache"
	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/taxonomy"
)

const fixtureTaxonomy = `
categories:
  - key: climateAction
    standard_term: Climate Change Mitigation
    plain_english: I want action on climate change.
    phrases: [climate action, clean energy]
    conflicts_with: [fossilFuelJobs]
  - key: fossilFuelJobs
    standard_term: Fossil Fuel Industry Support
    plain_english: I want to protect fossil fuel jobs.
    phrases: [coal jobs, oil jobs]
  - key: economyAndJobs
    standard_term: Economic Growth
    plain_english: I want a stronger economy.
    phrases: [good jobs]
  - key: healthcareAccess
    standard_term: Healthcare Access
    plain_english: I want affordable healthcare.
    phrases: [affordable healthcare]
fallback:
  key: clarificationNeeded
  standard_term: Clarification Needed
  plain_english: Please clarify what you mean.
`

func fixtureStore(t *testing.T) *taxonomy.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(path, []byte(fixtureTaxonomy), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	store, err := taxonomy.LoadFile(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return store
}

func newTestAnalyzer(t *testing.T, store *taxonomy.Store) *Analyzer {
	t.Helper()
	return NewAnalyzer(Options{
		Store:    store,
		Mapper:   match.NewScoringMapper(store),
		Strategy: match.StrategyScored,
	})
}

func TestAnalyzer_MapsRanksAndDetectsConflicts(t *testing.T) {
	store := fixtureStore(t)
	analyzer := newTestAnalyzer(t, store)

	analysis, err := analyzer.AnalyzePriorities(context.Background(),
		[]string{"clean energy now", "coal jobs matter"}, "02134")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if analysis.ZipCode != "02134" {
		t.Errorf("Expected ZIP code recorded, got %q", analysis.ZipCode)
	}
	if len(analysis.MappedPriorities) != 2 {
		t.Fatalf("Expected 2 mapped priorities, got %d", len(analysis.MappedPriorities))
	}

	first := analysis.MappedPriorities[0]
	if first.Fallback {
		t.Error("Expected a real match for the first priority")
	}
	if first.Matches[0].Category != "climateAction" {
		t.Errorf("Expected top match climateAction, got %q", first.Matches[0].Category)
	}

	// Second priority matches both fossilFuelJobs (phrase) and
	// economyAndJobs (word bonus only); ranking puts the phrase match first
	second := analysis.MappedPriorities[1]
	if len(second.Matches) != 2 {
		t.Fatalf("Expected 2 matches for second priority, got %d", len(second.Matches))
	}
	if second.Matches[0].Category != "fossilFuelJobs" {
		t.Errorf("Expected top match fossilFuelJobs, got %q", second.Matches[0].Category)
	}
	if second.Matches[0].Score <= second.Matches[1].Score {
		t.Errorf("Expected descending scores, got %.2f then %.2f",
			second.Matches[0].Score, second.Matches[1].Score)
	}

	if len(analysis.ConflictingPriorities) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(analysis.ConflictingPriorities))
	}
	conflict := analysis.ConflictingPriorities[0]
	if conflict.First != "climateAction" || conflict.Second != "fossilFuelJobs" {
		t.Errorf("Expected climateAction/fossilFuelJobs conflict, got %s/%s",
			conflict.First, conflict.Second)
	}

	if analysis.Narrative == "" {
		t.Error("Expected a narrative")
	}
}

func TestAnalyzer_KeywordFallbackStrategy(t *testing.T) {
	store := fixtureStore(t)
	analyzer := newTestAnalyzer(t, store)

	// No phrase or token overlap, but the keyword table catches "health"
	analysis, err := analyzer.AnalyzePriorities(context.Background(),
		[]string{"my health matters most"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	mapping := analysis.MappedPriorities[0]
	if mapping.Fallback {
		t.Error("Expected a keyword match, not the fallback category")
	}
	if mapping.Strategy != match.StrategyKeyword {
		t.Errorf("Expected keyword strategy recorded, got %q", mapping.Strategy)
	}
	if mapping.Matches[0].Category != "healthcareAccess" {
		t.Errorf("Expected healthcareAccess, got %q", mapping.Matches[0].Category)
	}
	if mapping.Matches[0].StandardTerm != "Healthcare Access" {
		t.Errorf("Expected display fields resolved, got %q", mapping.Matches[0].StandardTerm)
	}
}

func TestAnalyzer_FallbackCategoryAssigned(t *testing.T) {
	store := fixtureStore(t)
	analyzer := newTestAnalyzer(t, store)

	analysis, err := analyzer.AnalyzePriorities(context.Background(),
		[]string{"xylophone quandary"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	mapping := analysis.MappedPriorities[0]
	if !mapping.Fallback {
		t.Fatal("Expected the fallback category to be assigned")
	}
	if mapping.Matches[0].Category != "clarificationNeeded" {
		t.Errorf("Expected clarificationNeeded, got %q", mapping.Matches[0].Category)
	}
	if mapping.Matches[0].Score != 0 {
		t.Errorf("Expected zero score for fallback, got %.2f", mapping.Matches[0].Score)
	}
}

func TestAnalyzer_NoPriorities(t *testing.T) {
	store := fixtureStore(t)
	analyzer := newTestAnalyzer(t, store)

	for _, input := range [][]string{nil, {}, {"", "   "}} {
		_, err := analyzer.AnalyzePriorities(context.Background(), input, "")
		if err == nil {
			t.Errorf("Expected error for input %v", input)
			continue
		}
		var invalidErr *match.InvalidInputError
		if !errors.As(err, &invalidErr) {
			t.Errorf("Expected InvalidInputError, got %T", err)
		}
	}
}

// countingMapper counts how often MapStatement runs
type countingMapper struct {
	inner match.Mapper
	calls int
}

func (m *countingMapper) MapStatement(statement string) ([]model.MatchResult, error) {
	m.calls++
	return m.inner.MapStatement(statement)
}

func TestAnalyzer_CachesMappings(t *testing.T) {
	store := fixtureStore(t)
	counting := &countingMapper{inner: match.NewScoringMapper(store)}

	analyzer := NewAnalyzer(Options{
		Store:    store,
		Mapper:   counting,
		Strategy: match.StrategyScored,
		Cache:    cache.NewMemoryCache(time.Minute, 5*time.Minute),
		CacheTTL: time.Minute,
	})

	statements := []string{"clean energy now"}
	first, err := analyzer.AnalyzePriorities(context.Background(), statements, "")
	if err != nil {
		t.Fatalf("first analysis failed: %v", err)
	}
	second, err := analyzer.AnalyzePriorities(context.Background(), statements, "")
	if err != nil {
		t.Fatalf("second analysis failed: %v", err)
	}

	if counting.calls != 1 {
		t.Errorf("Expected 1 mapper call with caching, got %d", counting.calls)
	}
	if second.MappedPriorities[0].Matches[0].Category != first.MappedPriorities[0].Matches[0].Category {
		t.Error("Expected cached mapping to match the original")
	}
}

func TestRank(t *testing.T) {
	results := []model.MatchResult{
		{Category: "a", Score: 0.2},
		{Category: "b", Score: 2.4},
		{Category: "c", Score: 0.2},
		{Category: "d", Score: -5.0},
	}

	Rank(results)

	expected := []string{"b", "a", "c", "d"}
	for i, want := range expected {
		if results[i].Category != want {
			t.Errorf("position %d: expected %q, got %q", i, want, results[i].Category)
		}
	}
}

func TestComposeNarrative(t *testing.T) {
	analysis := &model.Analysis{
		MappedPriorities: []model.PriorityMapping{
			{
				Priority: "clean energy now",
				Matches: []model.MatchResult{
					{Category: "climateAction", StandardTerm: "Climate Change Mitigation", PlainEnglish: "I want action on climate change.", Score: 1.4},
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
			{First: "a", Second: "b", Description: `"A" and "B" pull in opposite directions`},
		},
	}

	narrative := ComposeNarrative(analysis)

	for _, want := range []string{
		"1 of 2 mapped",
		"Climate Change Mitigation",
		"needs clarification",
		"in tension",
		"pull in opposite directions",
	} {
		if !strings.Contains(narrative, want) {
			t.Errorf("Expected narrative to contain %q, got:\n%s", want, narrative)
		}
	}
}
