package recommender

import (
	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// relatedSkillsLimit caps the neighbors reported with a learnability result.
const relatedSkillsLimit = 5

// Learnability is the result of PredictLearnability. Related lists the skills
// that most often co-occur with Skill in the corpus.
type Learnability struct {
	Skill        string             `json:"skill"`
	Score        float64            `json:"learnability"`
	LearningTime types.LearningTime `json:"learning_time"`
	Related      []graph.Neighbor   `json:"related_skills"`
}

// PredictLearnability estimates how easily a candidate knowing known could
// pick up missing, based on co-occurrence in the indexed corpus.
func (s *Service) PredictLearnability(known []string, missing string) (*Learnability, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	target := skills.NormalizeSkill(missing)
	if target == "" {
		return nil, &InputError{Message: "missing skill is empty"}
	}

	score := st.graph.Learnability(skills.NormalizeSkills(known), target)
	return &Learnability{
		Skill:        target,
		Score:        score,
		LearningTime: graph.LearningTime(score),
		Related:      st.graph.Related(target, relatedSkillsLimit),
	}, nil
}

// FindLearnableSkills lists the required skills a candidate lacks but could
// learn, most learnable first.
func (s *Service) FindLearnableSkills(req LearnableRequest) ([]types.LearnableSkill, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, &InputError{Message: "invalid learnable skills request", Cause: err}
	}

	known := skills.NormalizeSkills(req.CandidateSkills)
	if req.CandidateID != "" {
		pos, ok := st.byID[req.CandidateID]
		if !ok {
			return nil, &InputError{Message: "unknown candidate " + req.CandidateID}
		}
		known = st.profiles[pos].Skills
	}

	return st.graph.FindLearnable(known, skills.NormalizeSkills(req.RequiredSkills), req.Threshold, req.TopK), nil
}

// Stats summarizes the indexed corpus.
func (s *Service) Stats() (types.CorpusStats, error) {
	st, err := s.current()
	if err != nil {
		return types.CorpusStats{}, err
	}
	return st.stats, nil
}

// GraphStats summarizes the skill co-occurrence graph.
func (s *Service) GraphStats() (types.GraphStats, error) {
	st, err := s.current()
	if err != nil {
		return types.GraphStats{}, err
	}
	return st.graph.Stats(), nil
}
