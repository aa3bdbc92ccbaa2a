package match

import (
	"strings"

	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/taxonomy"
)

// maxKeywordTerms caps how many distinct terms the keyword strategy returns
const maxKeywordTerms = 3

type keywordEntry struct {
	keyword string
	terms   []string
}

// defaultKeywordTable maps single keywords to policy term keys. Iteration
// order is the table order; the first matches win.
var defaultKeywordTable = []keywordEntry{
	{"tax", []string{"taxCutsForMiddleClass", "taxWealthyMore"}},
	{"climate", []string{"climateAction"}},
	{"environment", []string{"environmentalProtection", "climateAction"}},
	{"pollution", []string{"environmentalProtection"}},
	{"health", []string{"healthcareAccess"}},
	{"school", []string{"publicEducation"}},
	{"education", []string{"publicEducation"}},
	{"crime", []string{"publicSafety"}},
	{"police", []string{"publicSafety"}},
	{"gun", []string{"gunControl", "gunRights"}},
	{"immigration", []string{"immigrationReform"}},
	{"border", []string{"immigrationReform"}},
	{"housing", []string{"housingAffordability"}},
	{"rent", []string{"housingAffordability"}},
	{"abortion", []string{"reproductiveRights"}},
	{"job", []string{"economyAndJobs"}},
	{"wage", []string{"economyAndJobs"}},
	{"economy", []string{"economyAndJobs"}},
	{"freedom", []string{"personalLiberty"}},
	{"liberty", []string{"personalLiberty"}},
}

// defaultKeywordTerms is returned when no keyword matches at all
var defaultKeywordTerms = []string{"economyAndJobs", "healthcareAccess"}

// DefaultTermDetail marks results that came from the generic defaults
// rather than an actual keyword hit
const DefaultTermDetail = "default term (no keyword matched)"

// KeywordMapper is the degraded mapping strategy used inline in the
// priority-submission flow: single-keyword substring matching with no
// scoring, no nuance weighting, and no inclusion/exclusion gating.
type KeywordMapper struct {
	store *taxonomy.Store
	table []keywordEntry
}

// NewKeywordMapper creates the keyword strategy over a taxonomy
func NewKeywordMapper(store *taxonomy.Store) *KeywordMapper {
	return &KeywordMapper{
		store: store,
		table: defaultKeywordTable,
	}
}

// MapStatement accumulates terms for every matching keyword in table
// order, keeping at most maxKeywordTerms distinct terms. When nothing
// matches it returns the generic default terms. Every result carries a
// zero score and a single detail naming the matched keyword.
func (m *KeywordMapper) MapStatement(statement string) ([]model.MatchResult, error) {
	if err := validateStatement(statement); err != nil {
		return nil, err
	}

	input := strings.ToLower(statement)
	seen := make(map[string]bool)
	var results []model.MatchResult

	for _, entry := range m.table {
		if len(results) >= maxKeywordTerms {
			break
		}
		if !strings.Contains(input, entry.keyword) {
			continue
		}
		for _, term := range entry.terms {
			if len(results) >= maxKeywordTerms {
				break
			}
			if seen[term] {
				continue
			}
			seen[term] = true
			results = append(results, m.termResult(term, "keyword match: "+entry.keyword))
		}
	}

	if len(results) == 0 {
		for _, term := range defaultKeywordTerms {
			results = append(results, m.termResult(term, DefaultTermDetail))
		}
	}

	return results, nil
}

// termResult builds a zero-score result, copying display fields from the
// taxonomy when the term key resolves
func (m *KeywordMapper) termResult(key, detail string) model.MatchResult {
	result := model.MatchResult{
		Category: key,
		Details:  []string{detail},
	}
	if cat, ok := m.store.Get(key); ok {
		result.StandardTerm = cat.StandardTerm
		result.PlainEnglish = cat.PlainEnglish
	}
	return result
}
