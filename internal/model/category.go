package model

// PolicyCategory represents one formal policy position in the taxonomy
type PolicyCategory struct {
	Key            string             `json:"key" yaml:"key"`                                   // Unique, stable identifier
	StandardTerm   string             `json:"standard_term" yaml:"standard_term"`               // Short formal name (display only)
	PlainEnglish   string             `json:"plain_english" yaml:"plain_english"`               // First-person restatement (display only)
	Phrases        []string           `json:"phrases" yaml:"phrases"`                           // Colloquial phrasings, order preserved
	NuanceWeights  map[string]float64 `json:"nuances,omitempty" yaml:"nuances,omitempty"`       // Nuance signal name -> signed weight
	InclusionWords []string           `json:"inclusion_words,omitempty" yaml:"inclusion_words,omitempty"` // At least one must appear, if set
	ExclusionWords []string           `json:"exclusion_words,omitempty" yaml:"exclusion_words,omitempty"` // Each occurrence penalizes
	ConflictsWith  []string           `json:"conflicts_with,omitempty" yaml:"conflicts_with,omitempty"`   // Keys of opposing categories
}

// NuanceTriggers maps an abstract nuance signal name to its literal trigger
// phrases. Shared across categories, read-only after load.
type NuanceTriggers map[string][]string

// MatchResult is the scoring outcome for one (statement, category) pair.
// Details lists every scoring event in evaluation order: exclusions,
// inclusion gate, phrase matches, nuance matches, word bonuses.
type MatchResult struct {
	Category     string   `json:"category"`
	StandardTerm string   `json:"standardTerm"`
	PlainEnglish string   `json:"plainEnglish"`
	Score        float64  `json:"score"`
	Details      []string `json:"details"`
}

// Fixed scoring constants applied by the category scorer
const (
	ExclusionPenalty = 5.0  // Subtracted per exclusion word found
	InclusionPenalty = 10.0 // Subtracted when no inclusion word is found
	PhraseBonus      = 1.0  // Added per canonical phrase found
	WordBonus        = 0.2  // Added per qualifying shared token
	MinWordBonusLen  = 3    // Tokens must be longer than this to qualify
)
