package types

// Retrieval methods reported on results.
const (
	MethodHybrid      = "hybrid"
	MethodExact       = "exact"
	MethodApproximate = "approximate"
)

// RetrievalResult is one candidate produced by the retrieval stage.
// Position refers to the candidate's slot in the index, not its ID.
type RetrievalResult struct {
	Position      int     `json:"position"`
	LexicalScore  float64 `json:"lexical_score"`
	SemanticScore float64 `json:"semantic_score"`
	HybridScore   float64 `json:"hybrid_score"`
	Method        string  `json:"method"`
}

// SkillContribution is the share of a match score attributed to one skill, in percent.
type SkillContribution struct {
	Skill        string  `json:"skill"`
	Contribution float64 `json:"contribution"`
}

// HeatMap is a bounded query-by-candidate skill match matrix used for display.
type HeatMap struct {
	Rows  []string    `json:"rows"`
	Cols  []string    `json:"cols"`
	Cells [][]float64 `json:"cells"`
}

// MatchExplanation describes why a candidate matched a query.
type MatchExplanation struct {
	MatchingSkills  []string            `json:"matching_skills"`
	MissingSkills   []string            `json:"missing_skills"`
	TopContributors []SkillContribution `json:"top_contributors"`
	HeatMap         HeatMap             `json:"heat_map"`
	Text            string              `json:"text,omitempty"`
}

// SearchResult is a fully scored and explained candidate.
type SearchResult struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name,omitempty"`
	Skills               []string            `json:"skills"`
	CoreSkills           []string            `json:"core_skills"`
	BoosterSkills        []string            `json:"booster_skills"`
	FinalScore           float64             `json:"final_score"`
	SemanticSimilarity   float64             `json:"semantic_similarity"`
	RetrievalScore       float64             `json:"retrieval_score"`
	SkillOverlapScore    float64             `json:"skill_overlap_score"`
	ExperienceMatchScore float64             `json:"experience_match_score"`
	MatchingSkills       []string            `json:"matching_skills"`
	MissingSkills        []string            `json:"missing_skills"`
	TopContributors      []SkillContribution `json:"top_contributors"`
	SeniorityLevel       string              `json:"seniority_level"`
	SeniorityExplanation string              `json:"seniority_explanation"`
	RetrievalMethod      string              `json:"retrieval_method"`
	Explanation          *MatchExplanation   `json:"explanation,omitempty"`
}

// SearchResponse wraps the results of one search call.
type SearchResponse struct {
	IndexID     string         `json:"index_id"`
	QuerySkills []string       `json:"query_skills"`
	Results     []SearchResult `json:"results"`
	Warnings    []string       `json:"warnings,omitempty"`
}
