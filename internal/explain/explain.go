// Package explain attributes a candidate's match score to individual skills
// and builds display aids for the match.
package explain

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	maxContribution = 100.0
	topContributors = 5
	minOverall      = 0.01
)

// Explainer attributes scores using single-skill embeddings.
type Explainer struct {
	enc embedding.Encoder
}

// New creates an Explainer. enc should already be guarded.
func New(enc embedding.Encoder) *Explainer {
	return &Explainer{enc: enc}
}

// Session explains several candidates against one query vector and
// memoizes each skill's similarity to it. A Session is not safe for
// concurrent use.
type Session struct {
	enc      embedding.Encoder
	queryVec []float64
	sims     map[string]float64
}

// NewSession starts a Session for queryVec.
func (e *Explainer) NewSession(queryVec []float64) *Session {
	return &Session{enc: e.enc, queryVec: queryVec, sims: make(map[string]float64)}
}

// Input describes one query/candidate pair.
type Input struct {
	QuerySkills     []string
	CandidateSkills []string
	CandidateVec    []float64
	FinalScore      float64
}

// Explain builds the explanation for one candidate.
func (s *Session) Explain(ctx context.Context, in Input) (*types.MatchExplanation, error) {
	have := toSet(in.CandidateSkills)
	matching := []string{}
	missing := []string{}
	for _, q := range dedupe(in.QuerySkills) {
		if _, ok := have[q]; ok {
			matching = append(matching, q)
		} else {
			missing = append(missing, q)
		}
	}

	overall := max(embedding.Dot(s.queryVec, in.CandidateVec), minOverall)

	var (
		attributed []string
		base       float64
	)
	if len(matching) > 0 {
		attributed = matching
		base = in.FinalScore * 100 / float64(len(matching))
	} else {
		attributed = dedupe(in.CandidateSkills)
		base = 100
	}

	if err := s.prime(ctx, attributed); err != nil {
		return nil, err
	}

	contributions := make(map[string]float64, len(attributed))
	var total float64
	for _, skill := range attributed {
		c := min(base*s.sims[skill]/overall, maxContribution)
		contributions[skill] = c
		total += c
	}
	// Matching skills the encoder sees as unrelated to the query still
	// share the score evenly.
	if total == 0 && len(matching) > 0 {
		for _, skill := range matching {
			contributions[skill] = base
			total += base
		}
	}
	renormalize(contributions, total, in.FinalScore)

	return &types.MatchExplanation{
		MatchingSkills:  matching,
		MissingSkills:   missing,
		TopContributors: top(contributions, topContributors),
		HeatMap:         HeatMap(in.QuerySkills, in.CandidateSkills),
	}, nil
}

// prime encodes every skill not yet seen in one batch call.
func (s *Session) prime(ctx context.Context, skills []string) error {
	var pending []string
	for _, sk := range skills {
		if _, ok := s.sims[sk]; !ok {
			pending = append(pending, sk)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	vecs, err := s.enc.EncodeBatch(ctx, pending)
	if err != nil {
		return fmt.Errorf("failed to embed skills for explanation: %w", err)
	}
	for i, sk := range pending {
		s.sims[sk] = max(embedding.Dot(vecs[i], s.queryVec), 0)
	}
	return nil
}

// renormalize scales contributions to sum to final*100, capping each at
// 100. A non-positive final score zeroes every contribution.
func renormalize(contributions map[string]float64, total, final float64) {
	if final <= 0 {
		for k := range contributions {
			contributions[k] = 0
		}
		return
	}
	if total <= 0 {
		return
	}
	factor := final * 100 / total
	for k, v := range contributions {
		contributions[k] = min(v*factor, maxContribution)
	}
}

func top(contributions map[string]float64, n int) []types.SkillContribution {
	out := make([]types.SkillContribution, 0, len(contributions))
	for skill, c := range contributions {
		out = append(out, types.SkillContribution{Skill: skill, Contribution: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Contribution != out[j].Contribution {
			return out[i].Contribution > out[j].Contribution
		}
		return out[i].Skill < out[j].Skill
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func toSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[s] = struct{}{}
	}
	return set
}

func dedupe(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
