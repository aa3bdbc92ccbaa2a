package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/votelens/votelens/internal/cache"
	"github.com/votelens/votelens/internal/enrich"
	"github.com/votelens/votelens/internal/llm"
	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/taxonomy"
)

// Analyzer runs the full priority analysis: mapping, ranking, fallback
// assignment, conflict detection, narrative, and optional enrichment.
type Analyzer struct {
	store    *taxonomy.Store
	mapper   match.Mapper
	keyword  match.Mapper
	strategy string
	cache    cache.Cache
	cacheTTL time.Duration
	narrator *llm.Narrator
	enricher *enrich.Enricher
	verbose  bool
}

// Options configures an Analyzer. Store and Mapper are required; the
// rest are optional.
type Options struct {
	Store    *taxonomy.Store
	Mapper   match.Mapper
	Strategy string
	Cache    cache.Cache
	CacheTTL time.Duration
	Narrator *llm.Narrator
	Enricher *enrich.Enricher
	Verbose  bool
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{
		store:    opts.Store,
		mapper:   opts.Mapper,
		keyword:  match.NewKeywordMapper(opts.Store),
		strategy: opts.Strategy,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		narrator: opts.Narrator,
		enricher: opts.Enricher,
		verbose:  opts.Verbose,
	}
}

// AnalyzePriorities maps each statement, ranks the matches, detects
// conflicts between mapped categories, and composes a narrative. The
// zipCode is recorded on the analysis but never interpreted.
func (a *Analyzer) AnalyzePriorities(ctx context.Context, statements []string, zipCode string) (*model.Analysis, error) {
	var priorities []string
	for _, s := range statements {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			priorities = append(priorities, trimmed)
		}
	}
	if len(priorities) == 0 {
		return nil, &match.InvalidInputError{Reason: "no priorities provided"}
	}

	analysis := &model.Analysis{
		ZipCode:    zipCode,
		AnalyzedAt: time.Now().UTC(),
	}

	for _, priority := range priorities {
		mapping, err := a.mapPriority(priority)
		if err != nil {
			return nil, fmt.Errorf("map priority %q: %w", priority, err)
		}
		analysis.MappedPriorities = append(analysis.MappedPriorities, *mapping)
	}

	analysis.ConflictingPriorities = a.detectConflicts(analysis.MappedPriorities)
	analysis.Narrative = ComposeNarrative(analysis)

	if a.narrator != nil && a.narrator.IsEnabled() {
		a.applyNarrative(ctx, analysis)
	}

	if a.enricher != nil {
		a.applyEnrichment(ctx, analysis)
	}

	return analysis, nil
}

// mapPriority maps one statement, consulting the result cache first.
// When the primary strategy yields nothing, the keyword mapper gets a
// try; when that also yields nothing, the fallback category is assigned.
func (a *Analyzer) mapPriority(priority string) (*model.PriorityMapping, error) {
	cacheKey := cache.StatementKey(a.strategy + "|" + priority)

	if a.cache != nil {
		if data, ok := a.cache.Get(cacheKey); ok {
			var cached model.PriorityMapping
			if err := json.Unmarshal(data, &cached); err == nil {
				a.logf("cache hit for %q\n", priority)
				return &cached, nil
			}
		}
	}

	mapping := &model.PriorityMapping{
		Priority: priority,
		Strategy: a.strategy,
	}

	matches, err := a.mapper.MapStatement(priority)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		a.logf("no scored match for %q, trying keyword strategy\n", priority)
		kwMatches, err := a.keyword.MapStatement(priority)
		if err != nil {
			return nil, err
		}
		if keywordMatched(kwMatches) {
			matches = kwMatches
			mapping.Strategy = match.StrategyKeyword
		}
	}

	if len(matches) == 0 {
		fallback := a.store.Fallback()
		matches = []model.MatchResult{{
			Category:     fallback.Key,
			StandardTerm: fallback.StandardTerm,
			PlainEnglish: fallback.PlainEnglish,
			Details:      []string{"no match found; statement needs clarification"},
		}}
		mapping.Fallback = true
	}

	Rank(matches)
	mapping.Matches = matches

	if a.cache != nil {
		if data, err := json.Marshal(mapping); err == nil {
			_ = a.cache.Set(cacheKey, data, a.cacheTTL)
		}
	}

	return mapping, nil
}

// detectConflicts finds pairs of top-mapped categories that list each
// other in conflicts_with. Each pair is reported once, in the order the
// priorities were submitted.
func (a *Analyzer) detectConflicts(mappings []model.PriorityMapping) []model.Conflict {
	var topKeys []string
	seen := make(map[string]bool)
	for _, m := range mappings {
		if m.Fallback || len(m.Matches) == 0 {
			continue
		}
		key := m.Matches[0].Category
		if !seen[key] {
			seen[key] = true
			topKeys = append(topKeys, key)
		}
	}

	var conflicts []model.Conflict
	for i := 0; i < len(topKeys); i++ {
		for j := i + 1; j < len(topKeys); j++ {
			first, second := topKeys[i], topKeys[j]
			if !a.inConflict(first, second) {
				continue
			}

			firstCat, _ := a.store.Get(first)
			secondCat, _ := a.store.Get(second)
			conflicts = append(conflicts, model.Conflict{
				First:  first,
				Second: second,
				Description: fmt.Sprintf("%q and %q pull in opposite directions",
					firstCat.StandardTerm, secondCat.StandardTerm),
			})
		}
	}

	return conflicts
}

func (a *Analyzer) inConflict(first, second string) bool {
	firstCat, ok := a.store.Get(first)
	if !ok {
		return false
	}
	secondCat, ok := a.store.Get(second)
	if !ok {
		return false
	}
	return containsKey(firstCat.ConflictsWith, second) || containsKey(secondCat.ConflictsWith, first)
}

// keywordMatched reports whether the keyword strategy produced a real
// hit rather than its generic defaults
func keywordMatched(results []model.MatchResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		for _, d := range r.Details {
			if d == match.DefaultTermDetail {
				return false
			}
		}
	}
	return true
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// applyNarrative replaces the deterministic narrative with an LLM one.
// Failures leave the deterministic narrative in place with a warning.
func (a *Analyzer) applyNarrative(ctx context.Context, analysis *model.Analysis) {
	narrative, meta, err := a.narrator.GenerateNarrative(ctx, *analysis)
	if err != nil {
		a.logf("narrative generation failed: %v\n", err)
		analysis.LLM = &model.NarrativeMeta{
			Enabled:  false,
			Provider: a.narrator.ProviderName(),
			Warnings: []string{fmt.Sprintf("narrative generation failed: %v", err)},
		}
		return
	}

	if narrative != "" {
		analysis.Narrative = narrative
	}
	analysis.LLM = meta
}

// applyEnrichment attaches interest-group links for the mapped terms.
// Enrichment failures never fail the analysis.
func (a *Analyzer) applyEnrichment(ctx context.Context, analysis *model.Analysis) {
	var terms []string
	seen := make(map[string]bool)
	for _, m := range analysis.MappedPriorities {
		if m.Fallback || len(m.Matches) == 0 {
			continue
		}
		term := m.Matches[0].StandardTerm
		if term != "" && !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return
	}

	groups, warnings, err := a.enricher.FindGroups(ctx, terms)
	if err != nil {
		a.logf("enrichment failed: %v\n", err)
		return
	}
	for _, w := range warnings {
		a.logf("enrichment: %s\n", w)
	}

	analysis.InterestGroups = groups
}

func (a *Analyzer) logf(format string, args ...interface{}) {
	if a.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Rank sorts match results by score descending, in place. Ties keep
// taxonomy document order (the order the mapper produced).
func Rank(results []model.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
