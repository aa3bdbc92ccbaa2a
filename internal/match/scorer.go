package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/votelens/votelens/internal/model"
)

// Scorer computes the match score between one statement and one policy
// category. Pure and deterministic: the same statement and taxonomy
// snapshot always produce an identical result.
type Scorer struct {
	triggers model.NuanceTriggers
}

// NewScorer creates a scorer backed by the shared nuance trigger table
func NewScorer(triggers model.NuanceTriggers) *Scorer {
	if triggers == nil {
		triggers = model.NuanceTriggers{}
	}
	return &Scorer{triggers: triggers}
}

// Score evaluates one (statement, category) pair. Detail entries are
// appended in fixed evaluation order: exclusion checks, the inclusion
// gate, canonical phrase matches, nuance trigger matches, word bonuses.
// Consumers display the details as an explanation trail, so the order
// is part of the contract.
func (s *Scorer) Score(statement string, cat model.PolicyCategory) model.MatchResult {
	input := strings.ToLower(statement)

	result := model.MatchResult{
		Category:     cat.Key,
		StandardTerm: cat.StandardTerm,
		PlainEnglish: cat.PlainEnglish,
	}

	// 1. Exclusion words: each occurrence penalizes independently
	for _, word := range cat.ExclusionWords {
		if strings.Contains(input, strings.ToLower(word)) {
			result.Score -= model.ExclusionPenalty
			result.Details = append(result.Details,
				fmt.Sprintf("exclusion word %q found: -%.1f", word, model.ExclusionPenalty))
		}
	}

	// 2. Inclusion gate: first match satisfies it, none found penalizes once
	if len(cat.InclusionWords) > 0 {
		satisfied := false
		for _, word := range cat.InclusionWords {
			if strings.Contains(input, strings.ToLower(word)) {
				result.Details = append(result.Details,
					fmt.Sprintf("required inclusion word %q found", word))
				satisfied = true
				break
			}
		}
		if !satisfied {
			result.Score -= model.InclusionPenalty
			result.Details = append(result.Details,
				fmt.Sprintf("no inclusion word found (need one of: %s): -%.1f",
					strings.Join(cat.InclusionWords, ", "), model.InclusionPenalty))
		}
	}

	// 3. Canonical phrases: substring containment, uncapped
	for _, phrase := range cat.Phrases {
		if strings.Contains(input, strings.ToLower(phrase)) {
			result.Score += model.PhraseBonus
			result.Details = append(result.Details,
				fmt.Sprintf("phrase match %q: +%.1f", phrase, model.PhraseBonus))
		}
	}

	// 4. Nuance triggers: every firing trigger applies the signal's weight
	// independently, not deduplicated. Signal names are visited in sorted
	// order so reruns are bit-identical.
	for _, name := range sortedNuanceNames(cat.NuanceWeights) {
		weight := cat.NuanceWeights[name]
		for _, trigger := range s.triggers[name] {
			if strings.Contains(input, strings.ToLower(trigger)) {
				result.Score += weight
				result.Details = append(result.Details,
					fmt.Sprintf("nuance trigger %q (%s): %+.1f", trigger, name, weight))
			}
		}
	}

	// 5. Word bonus: exact whitespace-delimited token overlap with the
	// category's phrase vocabulary, distinct from the substring checks
	vocab := phraseTokenSet(cat.Phrases)
	for _, token := range strings.Fields(input) {
		if len(token) > model.MinWordBonusLen && vocab[token] {
			result.Score += model.WordBonus
			result.Details = append(result.Details,
				fmt.Sprintf("word match %q: +%.1f", token, model.WordBonus))
		}
	}

	return result
}

func sortedNuanceNames(weights map[string]float64) []string {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func phraseTokenSet(phrases []string) map[string]bool {
	tokens := make(map[string]bool)
	for _, phrase := range phrases {
		for _, token := range strings.Fields(strings.ToLower(phrase)) {
			tokens[token] = true
		}
	}
	return tokens
}
