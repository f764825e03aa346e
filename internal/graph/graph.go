// Package graph models skill co-occurrence across the indexed corpus and
// estimates how learnable a missing skill is from the skills a candidate
// already has.
package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// DefaultThreshold is the minimum learnability FindLearnable reports.
	DefaultThreshold = 0.5
	// DefaultTopK caps FindLearnable results.
	DefaultTopK = 10

	relatedCutoff = 0.3
	maxRelated    = 5
)

// SkillGraph is an undirected co-occurrence graph. It is immutable once
// built and safe for concurrent reads.
type SkillGraph struct {
	edges         map[string]map[string]int
	freq          map[string]int
	totalProfiles int
}

// Build counts, for every pair of skills, the number of profiles listing
// both. Duplicate skills within one profile count once.
func Build(profiles [][]string) *SkillGraph {
	g := &SkillGraph{
		edges:         make(map[string]map[string]int),
		freq:          make(map[string]int),
		totalProfiles: len(profiles),
	}
	for _, skills := range profiles {
		uniq := unique(skills)
		for _, s := range uniq {
			g.freq[s]++
		}
		for i, a := range uniq {
			for _, b := range uniq[i+1:] {
				g.link(a, b)
			}
		}
	}
	return g
}

func (g *SkillGraph) link(a, b string) {
	if g.edges[a] == nil {
		g.edges[a] = make(map[string]int)
	}
	if g.edges[b] == nil {
		g.edges[b] = make(map[string]int)
	}
	g.edges[a][b]++
	g.edges[b][a]++
}

// Adjacency is co-occurrence(a, b) / min(freq(a), freq(b)), clipped to 1.
func (g *SkillGraph) Adjacency(a, b string) float64 {
	co := g.edges[a][b]
	if co == 0 {
		return 0
	}
	minFreq := min(g.frequency(a), g.frequency(b))
	return math.Min(float64(co)/float64(minFreq), 1.0)
}

func (g *SkillGraph) frequency(skill string) int {
	if f := g.freq[skill]; f > 0 {
		return f
	}
	return 1
}

// Neighbor is a related skill with its adjacency score.
type Neighbor struct {
	Skill     string  `json:"skill"`
	Adjacency float64 `json:"adjacency"`
}

// Related returns up to k skills co-occurring with skill, highest adjacency
// first.
func (g *SkillGraph) Related(skill string, k int) []Neighbor {
	out := make([]Neighbor, 0, len(g.edges[skill]))
	for other := range g.edges[skill] {
		out = append(out, Neighbor{Skill: other, Adjacency: g.Adjacency(skill, other)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Adjacency != out[j].Adjacency {
			return out[i].Adjacency > out[j].Adjacency
		}
		return out[i].Skill < out[j].Skill
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Learnability is the frequency-weighted mean adjacency between missing and
// each known skill that co-occurs with it. Skills that never co-occur with
// missing do not dilute the score; with none at all the result is 0.
func (g *SkillGraph) Learnability(known []string, missing string) float64 {
	var sum, weight float64
	for _, k := range unique(known) {
		adj := g.Adjacency(k, missing)
		if adj <= 0 {
			continue
		}
		w := float64(g.frequency(k))
		sum += adj * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

// LearningTime maps a learnability score to a ramp-up range in weeks.
func LearningTime(learnability float64) types.LearningTime {
	var lo, hi int
	switch {
	case learnability >= 0.8:
		lo, hi = 2, 4
	case learnability >= 0.6:
		lo, hi = 4, 8
	case learnability >= 0.4:
		lo, hi = 8, 12
	case learnability >= 0.2:
		lo, hi = 12, 16
	default:
		lo, hi = 16, 24
	}
	return types.LearningTime{MinWeeks: lo, MaxWeeks: hi, EstimateWeeks: (lo + hi) / 2}
}

// FindLearnable reports the required skills the candidate lacks but could
// pick up, sorted by learnability. threshold <= 0 and k <= 0 select the
// defaults.
func (g *SkillGraph) FindLearnable(candidate, required []string, threshold float64, k int) []types.LearnableSkill {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if k <= 0 {
		k = DefaultTopK
	}

	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[s] = struct{}{}
	}

	out := []types.LearnableSkill{}
	for _, missing := range unique(required) {
		if _, ok := have[missing]; ok {
			continue
		}
		score := g.Learnability(candidate, missing)
		if score < threshold {
			continue
		}

		related := []string{}
		for _, known := range unique(candidate) {
			if g.Adjacency(known, missing) > relatedCutoff {
				related = append(related, known)
			}
		}

		confidence, reason := assess(score, related)
		if len(related) > maxRelated {
			related = related[:maxRelated]
		}
		out = append(out, types.LearnableSkill{
			Skill:         missing,
			Learnability:  math.Round(score*1000) / 1000,
			RelatedSkills: related,
			LearningTime:  LearningTime(score),
			Confidence:    confidence,
			Reason:        reason,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Learnability != out[j].Learnability {
			return out[i].Learnability > out[j].Learnability
		}
		return out[i].Skill < out[j].Skill
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func assess(score float64, related []string) (float64, string) {
	switch {
	case score >= 0.7:
		return 0.85, "Strong skill adjacency with " + joinFirst(related, 3)
	case score >= 0.5:
		return 0.65, "Moderate skill transfer from " + joinFirst(related, 3)
	default:
		if len(related) == 0 {
			return 0.45, "Some overlap with existing skills"
		}
		return 0.45, "Some overlap with " + joinFirst(related, 2)
	}
}

func joinFirst(skills []string, n int) string {
	return strings.Join(skills[:min(len(skills), n)], ", ")
}

// Stats summarizes the graph.
func (g *SkillGraph) Stats() types.GraphStats {
	edges := 0
	for _, nbrs := range g.edges {
		edges += len(nbrs)
	}
	edges /= 2

	stats := types.GraphStats{
		TotalSkills:   len(g.freq),
		TotalEdges:    edges,
		TotalProfiles: g.totalProfiles,
	}
	if stats.TotalSkills > 0 {
		stats.AvgConnections = math.Round(float64(edges)/float64(stats.TotalSkills)*100) / 100
	}
	return stats
}

type document struct {
	Adjacency        map[string]map[string]int `json:"adjacency"`
	SkillFrequencies map[string]int            `json:"skill_frequencies"`
	TotalProfiles    int                       `json:"total_profiles"`
}

// MarshalJSON encodes the graph as its adjacency counts, skill frequencies
// and profile total.
func (g *SkillGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{
		Adjacency:        g.edges,
		SkillFrequencies: g.freq,
		TotalProfiles:    g.totalProfiles,
	})
}

// UnmarshalJSON restores a graph written by MarshalJSON. Asymmetric edges
// are rejected.
func (g *SkillGraph) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode skill graph: %w", err)
	}
	for a, nbrs := range doc.Adjacency {
		for b, n := range nbrs {
			if doc.Adjacency[b][a] != n {
				return fmt.Errorf("skill graph edge %q-%q is not symmetric", a, b)
			}
		}
	}
	if doc.Adjacency == nil {
		doc.Adjacency = make(map[string]map[string]int)
	}
	if doc.SkillFrequencies == nil {
		doc.SkillFrequencies = make(map[string]int)
	}
	g.edges = doc.Adjacency
	g.freq = doc.SkillFrequencies
	g.totalProfiles = doc.TotalProfiles
	return nil
}

func unique(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
