// Package types provides type definitions for structured data used throughout the candidate ranker.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Profile is a candidate's structured representation as it enters the index.
type Profile struct {
	ID         string             `json:"id"`
	Name       string             `json:"name,omitempty"`
	Skills     []string           `json:"skills"`
	Experience map[string]float64 `json:"experience,omitempty"` // skill -> years
	Summary    string             `json:"summary,omitempty"`
}

// IndexedProfile is a Profile together with the embedding computed at ingestion.
type IndexedProfile struct {
	Profile
	Embedding []float64 `json:"embedding"`
}

// Query is the per-search representation of a job description.
type Query struct {
	Text      string    `json:"text"`
	Skills    []string  `json:"skills"`
	Embedding []float64 `json:"-"`
}

// SkillCount pairs a skill with the number of profiles that list it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CorpusStats summarizes the indexed corpus.
type CorpusStats struct {
	Candidates            int          `json:"candidates"`
	UniqueSkills          int          `json:"unique_skills"`
	AvgSkillsPerCandidate float64      `json:"avg_skills_per_candidate"`
	TopSkills             []SkillCount `json:"top_skills"`
	CoreSkillPercent      float64      `json:"core_skill_percent"`
	BoosterSkillPercent   float64      `json:"booster_skill_percent"`
}
