package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_FindsKnownSkills(t *testing.T) {
	e := NewDefaultExtractor()

	got := e.Extract("Python AWS developer")
	assert.Equal(t, []string{"aws", "python"}, got)
}

func TestExtract_WordBoundaries(t *testing.T) {
	e := NewDefaultExtractor()

	got := e.Extract("We use javascript and C++, not Java.")
	assert.Contains(t, got, "javascript")
	assert.Contains(t, got, "c++")
	assert.Contains(t, got, "java")

	got = e.Extract("javascripting")
	assert.NotContains(t, got, "javascript")
	assert.NotContains(t, got, "java")
}

func TestExtract_SynonymsAndMultiWord(t *testing.T) {
	e := NewDefaultExtractor()

	got := e.Extract("Experience with k8s, ReactJS and machine learning")
	assert.Equal(t, []string{"kubernetes", "machine learning", "react"}, got)
}

func TestExtract_EmptyText(t *testing.T) {
	e := NewDefaultExtractor()

	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("   "))
	assert.Empty(t, e.Extract("nothing relevant here"))
}

func TestExtractYears(t *testing.T) {
	e := NewDefaultExtractor()

	got := e.ExtractYears("Python: 5 years. Docker - 3 years. Java (4 years). 6+ years of AWS. Go (18 months)")
	assert.Equal(t, 5.0, got["python"])
	assert.Equal(t, 3.0, got["docker"])
	assert.Equal(t, 4.0, got["java"])
	assert.Equal(t, 6.0, got["aws"])
	assert.Equal(t, 1.0, got["go"])
}

func TestExtractYears_KeepsMaximumAndSkipsUnknown(t *testing.T) {
	e := NewDefaultExtractor()

	got := e.ExtractYears("python: 2 years, python: 7 years, basketweaving: 10 years")
	assert.Equal(t, map[string]float64{"python": 7}, got)
}

func TestExtractYears_MultiWordSkill(t *testing.T) {
	e := NewDefaultExtractor()

	got := e.ExtractYears("Machine Learning: 3 years")
	assert.Equal(t, 3.0, got["machine learning"])
}
