package model

import "time"

// PriorityMapping is the ranked mapping for a single submitted priority
type PriorityMapping struct {
	Priority string        `json:"priority"`           // The raw statement as submitted
	Matches  []MatchResult `json:"matches"`            // Ranked by score, descending
	Fallback bool          `json:"fallback,omitempty"` // True when nothing matched and the fallback category was assigned
	Strategy string        `json:"strategy,omitempty"` // Mapping strategy that produced the matches
}

// Conflict records a pair of mapped categories that oppose each other
type Conflict struct {
	First       string `json:"first"`  // Category key
	Second      string `json:"second"` // Category key
	Description string `json:"description"`
}

// InterestGroup is an organization link discovered during enrichment
type InterestGroup struct {
	Name        string `json:"name"`                  // Anchor text
	URL         string `json:"url"`                   // Absolute link
	MatchedTerm string `json:"matched_term"`          // Standard term the link matched
	Source      string `json:"source,omitempty"`      // Directory page the link came from
}

// Analysis aggregates the mapping of all submitted priorities
type Analysis struct {
	ZipCode               string            `json:"zip_code,omitempty"` // Recorded, not interpreted
	AnalyzedAt            time.Time         `json:"analyzed_at"`
	MappedPriorities      []PriorityMapping `json:"mappedPriorities"`
	ConflictingPriorities []Conflict        `json:"conflictingPriorities,omitempty"`
	Narrative             string            `json:"analysis"`
	InterestGroups        []InterestGroup   `json:"interest_groups,omitempty"`

	LLM *NarrativeMeta `json:"llm,omitempty"` // Present only when an LLM produced the narrative
}

// NarrativeMeta records how the analysis narrative was generated.
// The narrative never affects any score.
type NarrativeMeta struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}
