package types

// LearningTime is an estimated ramp-up range in weeks.
type LearningTime struct {
	MinWeeks      int `json:"min_weeks"`
	MaxWeeks      int `json:"max_weeks"`
	EstimateWeeks int `json:"estimate_weeks"`
}

// LearnableSkill is a missing skill the candidate could plausibly pick up.
type LearnableSkill struct {
	Skill         string       `json:"skill"`
	Learnability  float64      `json:"learnability"`
	RelatedSkills []string     `json:"related_skills"`
	LearningTime  LearningTime `json:"learning_time"`
	Confidence    float64      `json:"confidence"`
	Reason        string       `json:"reason"`
}

// GraphStats summarizes a skill adjacency graph.
type GraphStats struct {
	TotalSkills    int     `json:"total_skills"`
	TotalEdges     int     `json:"total_edges"`
	TotalProfiles  int     `json:"total_profiles"`
	AvgConnections float64 `json:"avg_connections"`
}
