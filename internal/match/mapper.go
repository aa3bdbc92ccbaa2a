package match

import (
	"fmt"
	"strings"

	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/taxonomy"
)

// Mapper maps one free-text statement onto policy terms. The two
// implementations (ScoringMapper and KeywordMapper) are interchangeable
// strategies behind this contract.
type Mapper interface {
	MapStatement(statement string) ([]model.MatchResult, error)
}

// Strategy names accepted by NewMapper
const (
	StrategyScored  = "scored"
	StrategyKeyword = "keyword"
)

// NewMapper selects a mapping strategy by name
func NewMapper(strategy string, store *taxonomy.Store) (Mapper, error) {
	switch strings.ToLower(strategy) {
	case StrategyScored, "":
		return NewScoringMapper(store), nil
	case StrategyKeyword:
		return NewKeywordMapper(store), nil
	default:
		return nil, fmt.Errorf("unknown mapping strategy: %s (supported: %s, %s)",
			strategy, StrategyScored, StrategyKeyword)
	}
}

// ScoringMapper runs the category scorer across every non-fallback
// category and collects results where any scoring event occurred.
// Results come back in taxonomy document order; ranking is left to
// the caller.
type ScoringMapper struct {
	store  *taxonomy.Store
	scorer *Scorer
}

// NewScoringMapper creates the full scoring strategy over a taxonomy
func NewScoringMapper(store *taxonomy.Store) *ScoringMapper {
	return &ScoringMapper{
		store:  store,
		scorer: NewScorer(store.Triggers()),
	}
}

// MapStatement evaluates the statement against every scorable category.
// A result is kept when its score is non-zero or any detail was recorded
// (an inclusion-word success with no phrase match still counts as a
// scoring event). Blank input fails fast before any category is
// evaluated, so callers can tell "nothing matched" from "bad input".
func (m *ScoringMapper) MapStatement(statement string) ([]model.MatchResult, error) {
	if err := validateStatement(statement); err != nil {
		return nil, err
	}

	var results []model.MatchResult
	for _, cat := range m.store.Categories() {
		result := m.scorer.Score(statement, cat)
		if result.Score != 0 || len(result.Details) > 0 {
			results = append(results, result)
		}
	}

	return results, nil
}

func validateStatement(statement string) error {
	if strings.TrimSpace(statement) == "" {
		return &InvalidInputError{Reason: "statement is empty"}
	}
	return nil
}
