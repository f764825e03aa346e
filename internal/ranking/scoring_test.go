package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillOverlap_Unweighted(t *testing.T) {
	score, matching := SkillOverlap([]string{"aws", "python", "go"}, []string{"python", "aws", "java"}, nil)
	assert.InDelta(t, 2.0/3.0, score, 1e-12)
	assert.Equal(t, []string{"aws", "python"}, matching)
}

func TestSkillOverlap_Weighted(t *testing.T) {
	weights := map[string]float64{"python": 1.0, "communication": 0.3}

	score, _ := SkillOverlap([]string{"python", "communication"}, []string{"communication"}, weights)
	assert.InDelta(t, 0.3/1.3, score, 1e-12)

	score, _ = SkillOverlap([]string{"python", "communication"}, []string{"python"}, weights)
	assert.InDelta(t, 1.0/1.3, score, 1e-12)
}

func TestSkillOverlap_EmptyQuery(t *testing.T) {
	score, matching := SkillOverlap(nil, []string{"python"}, nil)
	assert.Equal(t, 0.0, score)
	assert.Empty(t, matching)
}

func TestMissingSkills(t *testing.T) {
	assert.Equal(t, []string{"go"}, MissingSkills([]string{"python", "go"}, []string{"python"}))
	assert.Empty(t, MissingSkills(nil, []string{"python"}))
}

func TestExperienceMatch_Ramp(t *testing.T) {
	exp := map[string]float64{"python": 5, "aws": 2, "go": 10}

	assert.InDelta(t, 1.0, ExperienceMatch(exp, []string{"python"}, 3), 1e-12)
	assert.InDelta(t, 0.4, ExperienceMatch(exp, []string{"aws"}, 3), 1e-12)
	assert.InDelta(t, 0.0, ExperienceMatch(exp, []string{"java"}, 3), 1e-12)
	assert.InDelta(t, (1.0+0.4+0.0)/3, ExperienceMatch(exp, []string{"python", "aws", "java"}, 3), 1e-12)
}

func TestExperienceMatch_DefaultsAndEmpty(t *testing.T) {
	exp := map[string]float64{"python": 2.5}
	assert.InDelta(t, 0.5, ExperienceMatch(exp, []string{"python"}, 0), 1e-12)
	assert.Equal(t, 0.0, ExperienceMatch(nil, []string{"python"}, 3))
	assert.Equal(t, 0.0, ExperienceMatch(exp, nil, 3))
}

func TestFinalScore(t *testing.T) {
	assert.InDelta(t, 0.6*0.8+0.3*0.5+0.1*1.0, FinalScore(0.8, 0.5, 1.0, true), 1e-12)
	assert.Equal(t, 0.8, FinalScore(0.8, 0.5, 1.0, false))
	assert.InDelta(t, 1.0, semanticWeight+overlapWeight+experienceWeight, 1e-12)
}

func TestFinalScore_MonotonicInInputs(t *testing.T) {
	steps := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := 1; i < len(steps); i++ {
		assert.GreaterOrEqual(t, FinalScore(0.5, steps[i], 0.5, true), FinalScore(0.5, steps[i-1], 0.5, true))
		assert.GreaterOrEqual(t, FinalScore(steps[i], 0.5, 0.5, true), FinalScore(steps[i-1], 0.5, 0.5, true))
		assert.GreaterOrEqual(t, FinalScore(steps[i], 0.5, 0.5, false), FinalScore(steps[i-1], 0.5, 0.5, false))
	}
}

func TestScore_ScenarioOverlap(t *testing.T) {
	query := []string{"aws", "python"}

	first := Score(Input{
		QuerySkills:     query,
		CandidateSkills: []string{"aws", "python"},
		Experience:      map[string]float64{"python": 5},
		Similarity:      0.9,
		UseExperience:   true,
		RequiredYears:   3,
	})
	second := Score(Input{
		QuerySkills:     query,
		CandidateSkills: []string{"java"},
		Similarity:      0.2,
		UseExperience:   true,
		RequiredYears:   3,
	})

	assert.Greater(t, first.Overlap, second.Overlap)
	assert.Greater(t, first.Final, second.Final)
	assert.InDelta(t, 0.5, first.Experience, 1e-12)
	assert.Equal(t, LevelMid, first.Seniority)
	assert.Equal(t, []string{"aws", "python"}, second.Missing)
}

func TestScore_WithoutExperienceUsesSemanticOnly(t *testing.T) {
	b := Score(Input{
		QuerySkills:     []string{"python"},
		CandidateSkills: []string{"python"},
		Experience:      map[string]float64{"python": 9},
		Similarity:      0.42,
	})
	assert.Equal(t, 0.42, b.Final)
	assert.Equal(t, 0.0, b.Experience)
	assert.Equal(t, 1.0, b.Overlap)
}
