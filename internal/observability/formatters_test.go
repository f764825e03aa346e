package observability

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestPrintSearchResponse(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.SearchResponse{
		QuerySkills: []string{"docker", "python"},
		Results: []types.SearchResult{
			{
				ID:              "c-1",
				Name:            "Ada",
				FinalScore:      0.812,
				RetrievalMethod: types.MethodHybrid,
				MatchingSkills:  []string{"python"},
				MissingSkills:   []string{"docker"},
				SeniorityLevel:  "Mid-Level",
			},
		},
		Warnings: []string{"query text is empty"},
	}

	p.PrintSearchResponse(resp)
	output := buf.String()

	assert.Contains(t, output, "SEARCH RESULTS")
	assert.Contains(t, output, "#1  c-1 (Ada)")
	assert.Contains(t, output, "Score: 0.812  [hybrid]")
	assert.Contains(t, output, "Missing:  docker")
	assert.Contains(t, output, "query text is empty")
}

func TestPrintSearchResponse_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := make([]types.SearchResult, 7)
	for i := range results {
		results[i] = types.SearchResult{ID: string(rune('a' + i))}
	}
	p.PrintSearchResponse(&types.SearchResponse{Results: results})

	assert.Contains(t, buf.String(), "... and 2 more candidates")
}

func TestPrintSearchResponse_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSearchResponse(nil)

	assert.Empty(t, buf.String())
}

func TestPrintLearnableSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLearnableSkills([]types.LearnableSkill{
		{
			Skill:         "kubernetes",
			Learnability:  0.9,
			RelatedSkills: []string{"docker"},
			LearningTime:  types.LearningTime{MinWeeks: 2, MaxWeeks: 4, EstimateWeeks: 3},
			Reason:        "Strong skill adjacency with docker",
		},
	})
	output := buf.String()

	assert.Contains(t, output, "LEARNABLE SKILLS")
	assert.Contains(t, output, "kubernetes  90%")
	assert.Contains(t, output, "2-4 weeks (~3)")
	assert.Contains(t, output, "Related: docker")
}

func TestPrintLearnableSkills_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLearnableSkills(nil)

	assert.Empty(t, buf.String())
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStats(
		types.CorpusStats{Candidates: 3, UniqueSkills: 5, TopSkills: []types.SkillCount{{Skill: "go", Count: 3}}},
		types.GraphStats{TotalEdges: 4, AvgConnections: 0.8},
	)
	output := buf.String()

	assert.Contains(t, output, "Candidates:        3")
	assert.Contains(t, output, "go (3)")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := "This is a very long line that should be truncated because it exceeds the box width"
	p.printBox("TEST", long)

	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), "exceeds the box width")
}
