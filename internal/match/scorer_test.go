package match

import (
	"math"
	"strings"
	"testing"

	"github.com/votelens/votelens/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorer_MiddleClassTaxCuts(t *testing.T) {
	cat := model.PolicyCategory{
		Key:            "taxCutsForMiddleClass",
		StandardTerm:   "Middle Class Tax Relief",
		PlainEnglish:   "I want lower taxes for middle-class households.",
		Phrases:        []string{"middle class tax cuts"},
		InclusionWords: []string{"middle class"},
		NuanceWeights: map[string]float64{
			"middle_class_support": 0.8,
			"tax_burden_reduction": 0.7,
		},
	}
	triggers := model.NuanceTriggers{
		"middle_class_support": {"middle class"},
		"tax_burden_reduction": {"tax relief"},
	}

	scorer := NewScorer(triggers)
	result := scorer.Score("I want middle class tax cuts", cat)

	// +1.0 phrase, +0.8 nuance (middle_class_support fires, tax_burden_reduction
	// does not), +0.2 each for tokens "middle", "class", "cuts" ("tax" is too short)
	expected := 1.0 + 0.8 + 3*0.2
	if !almostEqual(result.Score, expected) {
		t.Errorf("Expected score %.2f, got %.2f (details: %v)", expected, result.Score, result.Details)
	}

	if len(result.Details) != 6 {
		t.Errorf("Expected 6 detail entries, got %d: %v", len(result.Details), result.Details)
	}

	if result.StandardTerm != cat.StandardTerm || result.PlainEnglish != cat.PlainEnglish {
		t.Error("Expected display fields to be copied from the category")
	}
}

func TestScorer_PrivacyAndAutonomy(t *testing.T) {
	cat := model.PolicyCategory{
		Key:            "personalLiberty",
		StandardTerm:   "Personal Liberty",
		PlainEnglish:   "I want government out of personal decisions.",
		Phrases:        []string{"personal liberty", "individual freedom", "personal autonomy"},
		ExclusionWords: []string{"tax", "income", "money"},
		NuanceWeights: map[string]float64{
			"privacy_and_autonomy": 0.8,
		},
	}
	triggers := model.NuanceTriggers{
		"privacy_and_autonomy": {"privacy", "autonomy"},
	}

	scorer := NewScorer(triggers)
	result := scorer.Score("I value my privacy and autonomy", cat)

	// No exclusion fires, no phrase is a substring, both nuance triggers fire
	// independently (+0.8 each, uncapped), and token "autonomy" earns +0.2
	expected := 0.8 + 0.8 + 0.2
	if !almostEqual(result.Score, expected) {
		t.Errorf("Expected score %.2f, got %.2f (details: %v)", expected, result.Score, result.Details)
	}

	nuanceDetails := 0
	for _, d := range result.Details {
		if strings.Contains(d, "privacy_and_autonomy") {
			nuanceDetails++
		}
	}
	if nuanceDetails != 2 {
		t.Errorf("Expected 2 nuance details (one per firing trigger), got %d", nuanceDetails)
	}
}

func TestScorer_ExclusionPenaltyPerWord(t *testing.T) {
	cat := model.PolicyCategory{
		Key:            "test",
		Phrases:        []string{"something unrelated"},
		ExclusionWords: []string{"tax", "money"},
	}

	scorer := NewScorer(nil)
	result := scorer.Score("my tax money is wasted", cat)

	// Both exclusion words fire independently: -5.0 each
	if !almostEqual(result.Score, -10.0) {
		t.Errorf("Expected score -10.0, got %.2f", result.Score)
	}

	if len(result.Details) != 2 {
		t.Errorf("Expected 2 exclusion details, got %d: %v", len(result.Details), result.Details)
	}
	for _, d := range result.Details {
		if !strings.Contains(d, "exclusion word") || !strings.Contains(d, "-5.0") {
			t.Errorf("Expected exclusion detail naming the word and penalty, got %q", d)
		}
	}
}

func TestScorer_InclusionGate(t *testing.T) {
	cat := model.PolicyCategory{
		Key:            "test",
		Phrases:        []string{"alpha"},
		InclusionWords: []string{"first", "second"},
	}
	scorer := NewScorer(nil)

	// None present: fixed -10.0 penalty, one detail listing all required words
	missed := scorer.Score("nothing relevant here", cat)
	if !almostEqual(missed.Score, -10.0) {
		t.Errorf("Expected -10.0 when no inclusion word found, got %.2f", missed.Score)
	}
	if len(missed.Details) != 1 || !strings.Contains(missed.Details[0], "first, second") {
		t.Errorf("Expected one detail listing required words, got %v", missed.Details)
	}

	// One present: no penalty, scanning stops at first match
	one := scorer.Score("the first thing matters", cat)
	if !almostEqual(one.Score, 0) {
		t.Errorf("Expected 0 when inclusion satisfied and nothing else matches, got %.2f", one.Score)
	}

	// Multiple present: still exactly one inclusion detail, no extra bonus
	both := scorer.Score("first and second both appear", cat)
	if !almostEqual(both.Score, one.Score) {
		t.Errorf("Expected identical score regardless of how many inclusion words appear, got %.2f vs %.2f", both.Score, one.Score)
	}
	inclusionDetails := 0
	for _, d := range both.Details {
		if strings.Contains(d, "inclusion word") {
			inclusionDetails++
		}
	}
	if inclusionDetails != 1 {
		t.Errorf("Expected exactly 1 inclusion detail, got %d", inclusionDetails)
	}
}

func TestScorer_NoGatesScoreIsPhrasesPlusWordBonus(t *testing.T) {
	cat := model.PolicyCategory{
		Key:     "test",
		Phrases: []string{"clean water", "clean air"},
	}

	scorer := NewScorer(nil)
	result := scorer.Score("we need clean water and clean air", cat)

	// 2 phrase matches plus word bonuses for "clean" (twice) and "water"
	// ("air" is too short); no gates, no nuances
	expected := 2*1.0 + 3*0.2
	if !almostEqual(result.Score, expected) {
		t.Errorf("Expected %.2f, got %.2f (details: %v)", expected, result.Score, result.Details)
	}
}

func TestScorer_WordBonusIsExactTokenMatch(t *testing.T) {
	cat := model.PolicyCategory{
		Key:     "test",
		Phrases: []string{"housing costs"},
	}

	scorer := NewScorer(nil)

	// "househunting" contains "housing"? No - and even a containing token must
	// not count: the word bonus is exact token equality, not substring
	result := scorer.Score("housings costly", cat)
	if !almostEqual(result.Score, 0) {
		t.Errorf("Expected 0 for near-miss tokens, got %.2f (details: %v)", result.Score, result.Details)
	}

	exact := scorer.Score("housing is broken", cat)
	if !almostEqual(exact.Score, 0.2) {
		t.Errorf("Expected 0.2 for exact token match, got %.2f", exact.Score)
	}
}

func TestScorer_CaseInsensitive(t *testing.T) {
	cat := model.PolicyCategory{
		Key:     "test",
		Phrases: []string{"Affordable Housing"},
	}

	scorer := NewScorer(nil)
	result := scorer.Score("AFFORDABLE HOUSING NOW", cat)

	// Phrase +1.0 and word bonuses for "affordable" and "housing"
	if !almostEqual(result.Score, 1.0+2*0.2) {
		t.Errorf("Expected case-insensitive matching, got %.2f (details: %v)", result.Score, result.Details)
	}
}

func TestScorer_UnknownNuanceSignalNeverFires(t *testing.T) {
	cat := model.PolicyCategory{
		Key:     "test",
		Phrases: []string{"alpha"},
		NuanceWeights: map[string]float64{
			"signal_with_no_triggers": 0.9,
		},
	}

	scorer := NewScorer(model.NuanceTriggers{})
	result := scorer.Score("alpha", cat)

	// Soft reference: the unknown signal contributes nothing and is not an error
	if !almostEqual(result.Score, 1.0+0.2) {
		t.Errorf("Expected only the phrase and word bonus, got %.2f", result.Score)
	}
}

func TestScorer_NegativeNuanceWeight(t *testing.T) {
	cat := model.PolicyCategory{
		Key:     "test",
		Phrases: []string{"gun control"},
		NuanceWeights: map[string]float64{
			"gun_rights_support": -0.7,
		},
	}
	triggers := model.NuanceTriggers{
		"gun_rights_support": {"second amendment"},
	}

	scorer := NewScorer(triggers)
	result := scorer.Score("gun control respects the second amendment", cat)

	if !almostEqual(result.Score, 1.0-0.7+0.2) { // phrase, negative nuance, token "control"
		t.Errorf("Expected negative weight applied, got %.2f (details: %v)", result.Score, result.Details)
	}

	found := false
	for _, d := range result.Details {
		if strings.Contains(d, "-0.7") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected detail showing signed weight, got %v", result.Details)
	}
}

func TestScorer_DetailOrdering(t *testing.T) {
	cat := model.PolicyCategory{
		Key:            "test",
		Phrases:        []string{"green jobs"},
		InclusionWords: []string{"jobs"},
		ExclusionWords: []string{"coal"},
		NuanceWeights: map[string]float64{
			"climate_urgency": 0.8,
		},
	}
	triggers := model.NuanceTriggers{
		"climate_urgency": {"climate"},
	}

	scorer := NewScorer(triggers)
	result := scorer.Score("coal climate green jobs", cat)

	// Every step fires: exclusion, inclusion, phrase, nuance, word bonus -
	// in exactly that order
	order := []string{"exclusion word", "inclusion word", "phrase match", "nuance trigger", "word match"}
	if len(result.Details) < len(order) {
		t.Fatalf("Expected at least %d details, got %v", len(order), result.Details)
	}

	pos := 0
	for _, prefix := range order {
		if !strings.Contains(result.Details[pos], prefix) {
			t.Errorf("Expected detail %d to be a %q entry, got %q", pos, prefix, result.Details[pos])
		}
		// Skip over consecutive entries of the same kind
		for pos < len(result.Details) && strings.Contains(result.Details[pos], prefix) {
			pos++
		}
	}
}

func TestScorer_Deterministic(t *testing.T) {
	cat := model.PolicyCategory{
		Key:     "test",
		Phrases: []string{"affordable housing"},
		NuanceWeights: map[string]float64{
			"cost_of_living": 0.7,
			"equity_focus":   0.3,
		},
	}
	triggers := model.NuanceTriggers{
		"cost_of_living": {"afford"},
		"equity_focus":   {"fair"},
	}

	scorer := NewScorer(triggers)
	first := scorer.Score("affordable housing should be fair", cat)

	// Nuance weights live in a map; repeated runs must still produce
	// identical detail ordering
	for i := 0; i < 20; i++ {
		again := scorer.Score("affordable housing should be fair", cat)
		if again.Score != first.Score {
			t.Fatalf("Run %d: score changed: %v vs %v", i, again.Score, first.Score)
		}
		if len(again.Details) != len(first.Details) {
			t.Fatalf("Run %d: detail count changed", i)
		}
		for j := range again.Details {
			if again.Details[j] != first.Details[j] {
				t.Fatalf("Run %d: detail %d changed: %q vs %q", i, j, again.Details[j], first.Details[j])
			}
		}
	}
}

func TestScorer_EmptyCategoryDegradesGracefully(t *testing.T) {
	scorer := NewScorer(nil)
	result := scorer.Score("anything at all", model.PolicyCategory{Key: "bare"})

	// Missing optional fields mean "feature absent", never an error
	if result.Score != 0 || len(result.Details) != 0 {
		t.Errorf("Expected zero score and no details for a bare category, got %.2f %v", result.Score, result.Details)
	}
}
