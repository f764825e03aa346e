// Package ranking combines retrieval similarity, skill overlap and
// experience into a single candidate score and orders candidates by it.
package ranking

import "sort"

// Final score weights. They sum to 1.0.
const (
	semanticWeight   = 0.6
	overlapWeight    = 0.3
	experienceWeight = 0.1
)

// DefaultRequiredYears is the per-skill experience treated as adequate when
// the caller does not specify one.
const DefaultRequiredYears = 3.0

// experienceHeadroom is added to the required years to get the point where
// the experience ramp saturates.
const experienceHeadroom = 2.0

// SkillOverlap returns the share of query skills the candidate has, and the
// matching skills in query order. With weights it is the weighted share
// Σw(matching)/Σw(query); skills missing from weights count as 1.0. With
// nil weights it is the plain set ratio. An empty query scores 0.
func SkillOverlap(query, candidate []string, weights map[string]float64) (float64, []string) {
	matching := []string{}
	if len(query) == 0 {
		return 0.0, matching
	}

	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[s] = struct{}{}
	}

	seen := make(map[string]struct{}, len(query))
	var matchedWeight, totalWeight float64
	for _, s := range query {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}

		w := 1.0
		if weights != nil {
			if v, ok := weights[s]; ok {
				w = v
			}
		}
		totalWeight += w
		if _, ok := have[s]; ok {
			matchedWeight += w
			matching = append(matching, s)
		}
	}

	if totalWeight == 0 {
		return 0.0, matching
	}
	return matchedWeight / totalWeight, matching
}

// MissingSkills returns the query skills the candidate lacks, in query order.
func MissingSkills(query, candidate []string) []string {
	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[s] = struct{}{}
	}
	missing := []string{}
	for _, s := range query {
		if _, ok := have[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// ExperienceMatch averages a per-skill ramp over the required skills:
// 0 years scores 0, requiredYears+2 or more scores 1, and anything between
// is linear. Skills absent from exp score 0.
func ExperienceMatch(exp map[string]float64, required []string, requiredYears float64) float64 {
	if len(required) == 0 || len(exp) == 0 {
		return 0.0
	}
	if requiredYears <= 0 {
		requiredYears = DefaultRequiredYears
	}
	saturation := requiredYears + experienceHeadroom

	var total float64
	for _, skill := range required {
		years := exp[skill]
		switch {
		case years <= 0:
		case years >= saturation:
			total += 1.0
		default:
			total += years / saturation
		}
	}
	return total / float64(len(required))
}

// FinalScore blends the three factors. Without experience scoring the final
// score is the semantic similarity alone.
func FinalScore(semantic, overlap, experience float64, useExperience bool) float64 {
	if !useExperience {
		return semantic
	}
	return semanticWeight*semantic + overlapWeight*overlap + experienceWeight*experience
}

// Input is everything needed to score one candidate against one query.
type Input struct {
	QuerySkills     []string
	CandidateSkills []string
	Experience      map[string]float64
	Similarity      float64
	Weights         map[string]float64 // nil for unweighted overlap
	UseExperience   bool
	RequiredYears   float64
}

// Breakdown is the scored result for one candidate.
type Breakdown struct {
	Final                float64
	Semantic             float64
	Overlap              float64
	Experience           float64
	Matching             []string
	Missing              []string
	Seniority            string
	SeniorityExplanation string
}

// Score computes every factor for in.
func Score(in Input) Breakdown {
	overlap, matching := SkillOverlap(in.QuerySkills, in.CandidateSkills, in.Weights)

	experience := 0.0
	if in.UseExperience {
		experience = ExperienceMatch(in.Experience, in.QuerySkills, in.RequiredYears)
	}

	level, explanation := Seniority(in.Experience)

	return Breakdown{
		Final:                FinalScore(in.Similarity, overlap, experience, in.UseExperience),
		Semantic:             in.Similarity,
		Overlap:              overlap,
		Experience:           experience,
		Matching:             matching,
		Missing:              MissingSkills(in.QuerySkills, in.CandidateSkills),
		Seniority:            level,
		SeniorityExplanation: explanation,
	}
}

// sortSkillsByYears orders skills by years descending, then name.
func sortSkillsByYears(exp map[string]float64) []string {
	skills := make([]string, 0, len(exp))
	for s := range exp {
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool {
		if exp[skills[i]] != exp[skills[j]] {
			return exp[skills[i]] > exp[skills[j]]
		}
		return skills[i] < skills[j]
	})
	return skills
}
