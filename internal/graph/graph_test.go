package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *SkillGraph {
	return Build([][]string{
		{"python", "django", "postgresql", "docker", "aws"},
		{"python", "flask", "mongodb", "docker", "kubernetes"},
		{"java", "spring boot", "mysql", "docker", "aws"},
		{"python", "tensorflow", "pytorch", "docker", "aws"},
		{"javascript", "react", "node.js", "mongodb", "docker"},
		{"python", "django", "redis", "celery", "aws"},
		{"go", "microservices", "kubernetes", "docker", "gcp"},
		{"python", "fastapi", "postgresql", "docker", "aws", "terraform"},
	})
}

func TestAdjacency(t *testing.T) {
	g := Build([][]string{{"docker", "kubernetes"}, {"docker", "aws"}})

	assert.Equal(t, 1.0, g.Adjacency("docker", "kubernetes"))
	assert.Equal(t, 1.0, g.Adjacency("kubernetes", "docker"))
	assert.Equal(t, 0.0, g.Adjacency("kubernetes", "aws"))
	assert.Equal(t, 0.0, g.Adjacency("docker", "docker"))
	assert.Equal(t, 0.0, g.Adjacency("unknown", "docker"))
}

func TestAdjacency_NormalizedByRarerSkill(t *testing.T) {
	g := sampleGraph()

	// python appears 5 times, django twice, always together.
	assert.Equal(t, 1.0, g.Adjacency("python", "django"))
	assert.Equal(t, 0.0, g.Adjacency("python", "java"))
	assert.InDelta(t, 0.5, g.Adjacency("python", "kubernetes"), 1e-9)
}

func TestBuild_DuplicateSkillsCountOnce(t *testing.T) {
	g := Build([][]string{{"go", "go", "sql"}})

	assert.Equal(t, 1.0, g.Adjacency("go", "sql"))
	stats := g.Stats()
	assert.Equal(t, 2, stats.TotalSkills)
	assert.Equal(t, 1, stats.TotalEdges)
}

func TestRelated(t *testing.T) {
	g := sampleGraph()

	related := g.Related("docker", 3)
	require.Len(t, related, 3)
	for i := 1; i < len(related); i++ {
		assert.GreaterOrEqual(t, related[i-1].Adjacency, related[i].Adjacency)
	}
	assert.Empty(t, g.Related("cobol", 5))
}

func TestLearnability(t *testing.T) {
	g := sampleGraph()

	assert.Equal(t, 0.0, g.Learnability(nil, "kubernetes"))
	assert.Equal(t, 0.0, g.Learnability([]string{"java"}, "kubernetes"))

	score := g.Learnability([]string{"python", "django", "docker", "aws"}, "kubernetes")
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)

	// Unrelated known skills do not dilute the score.
	assert.Equal(t,
		g.Learnability([]string{"docker"}, "kubernetes"),
		g.Learnability([]string{"docker", "java"}, "kubernetes"))
}

func TestLearningTime(t *testing.T) {
	tests := []struct {
		score    float64
		min, max int
	}{
		{0.95, 2, 4},
		{0.8, 2, 4},
		{0.7, 4, 8},
		{0.5, 8, 12},
		{0.25, 12, 16},
		{0.0, 16, 24},
	}
	for _, tt := range tests {
		lt := LearningTime(tt.score)
		assert.Equal(t, tt.min, lt.MinWeeks, "score %v", tt.score)
		assert.Equal(t, tt.max, lt.MaxWeeks, "score %v", tt.score)
		assert.GreaterOrEqual(t, lt.EstimateWeeks, lt.MinWeeks)
		assert.LessOrEqual(t, lt.EstimateWeeks, lt.MaxWeeks)
		assert.Equal(t, lt, LearningTime(tt.score))
	}
}

func TestFindLearnable(t *testing.T) {
	g := Build([][]string{
		{"docker", "kubernetes", "aws"},
		{"docker", "kubernetes"},
		{"docker", "terraform"},
		{"python", "aws"},
	})

	got := g.FindLearnable([]string{"docker", "python"}, []string{"docker", "kubernetes", "terraform", "rust"}, 0.5, 10)

	require.Len(t, got, 2)
	for _, ls := range got {
		assert.NotEqual(t, "docker", ls.Skill)
		assert.NotEqual(t, "rust", ls.Skill)
		assert.GreaterOrEqual(t, ls.Learnability, 0.5)
		assert.Equal(t, []string{"docker"}, ls.RelatedSkills)
		assert.Equal(t, 0.85, ls.Confidence)
		assert.Contains(t, ls.Reason, "docker")
	}
}

func TestFindLearnable_ThresholdAndLimit(t *testing.T) {
	g := sampleGraph()
	candidate := []string{"python", "django", "docker", "aws"}
	required := []string{"python", "kubernetes", "terraform", "golang", "prometheus"}

	all := g.FindLearnable(candidate, required, 0.01, 10)
	for _, ls := range all {
		assert.NotContains(t, []string{"python", "golang", "prometheus"}, ls.Skill)
	}
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Learnability, all[i].Learnability)
	}

	assert.LessOrEqual(t, len(g.FindLearnable(candidate, required, 0.01, 1)), 1)
	assert.Empty(t, g.FindLearnable(candidate, required, 1.01, 10))
}

func TestStats(t *testing.T) {
	g := Build([][]string{{"a", "b", "c"}, {"a", "d"}})

	stats := g.Stats()
	assert.Equal(t, 4, stats.TotalSkills)
	assert.Equal(t, 4, stats.TotalEdges)
	assert.Equal(t, 2, stats.TotalProfiles)
	assert.Equal(t, 1.0, stats.AvgConnections)
}

func TestJSONRoundTrip(t *testing.T) {
	g := sampleGraph()

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skill_frequencies"`)

	var restored SkillGraph
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, g.Stats(), restored.Stats())
	assert.Equal(t, g.Adjacency("docker", "kubernetes"), restored.Adjacency("docker", "kubernetes"))
}

func TestUnmarshalJSON_RejectsAsymmetricEdges(t *testing.T) {
	var g SkillGraph
	err := json.Unmarshal([]byte(`{"adjacency":{"a":{"b":2},"b":{"a":1}},"skill_frequencies":{"a":2,"b":2},"total_profiles":2}`), &g)
	assert.Error(t, err)
}
