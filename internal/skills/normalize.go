package skills

import (
	"sort"
	"strings"
)

// skillSynonyms maps common skill name variants to canonical names
var skillSynonyms = map[string]string{
	"py":         "python",
	"js":         "javascript",
	"ts":         "typescript",
	"ml":         "machine learning",
	"ai":         "artificial intelligence",
	"dl":         "deep learning",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"node":       "node.js",
	"nodejs":     "node.js",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"angular.js": "angular",
	"angularjs":  "angular",
	"postgres":   "postgresql",
	"mongo":      "mongodb",
	"tf":         "tensorflow",
	"sklearn":    "scikit-learn",
	"cv":         "computer vision",
	"nlp":        "natural language processing",
	"golang":     "go",
	"go lang":    "go",
}

// NormalizeSkill lowercases a skill, collapses whitespace and maps known
// synonyms to their canonical name.
func NormalizeSkill(skill string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(skill)), " ")
	if normalized == "" {
		return ""
	}
	if canonical, ok := skillSynonyms[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSkills normalizes every skill, drops empties and duplicates,
// and returns the result sorted.
func NormalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(skills))
	result := make([]string, 0, len(skills))
	for _, s := range skills {
		n := NormalizeSkill(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}

// NormalizeExperience normalizes the keys of a skill->years map. When two
// variants collapse to the same skill the larger value wins. Non-positive
// entries are dropped.
func NormalizeExperience(exp map[string]float64) map[string]float64 {
	result := make(map[string]float64, len(exp))
	for skill, years := range exp {
		n := NormalizeSkill(skill)
		if n == "" || years <= 0 {
			continue
		}
		if years > result[n] {
			result[n] = years
		}
	}
	return result
}

// Synonyms returns the variant spellings the normalizer recognizes.
func Synonyms() []string {
	keys := make([]string, 0, len(skillSynonyms))
	for k := range skillSynonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
