package recommender

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/candidate-ranker/internal/explain"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/types"
	"go.uber.org/zap"
)

// Search ranks indexed candidates against req.Text. Empty text is not an
// error: the search proceeds with no query skills and reports a warning.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*types.SearchResponse, error) {
	start := time.Now()
	outcome, method := observability.OutcomeOK, ""
	defer func() {
		s.metrics.ObserveSearch(outcome, method, time.Since(start).Seconds())
	}()

	st, err := s.current()
	if err != nil {
		outcome = observability.OutcomeNotReady
		return nil, err
	}
	if err := req.Validate(); err != nil {
		outcome = observability.OutcomeInvalid
		return nil, &InputError{Message: "invalid search request", Cause: err}
	}

	var warnings []string
	querySkills := []string{}
	if strings.TrimSpace(req.Text) == "" {
		inputErr := &InputError{Message: "query text is empty"}
		s.logger.Warn("degrading to an empty skill query", zap.Error(inputErr))
		warnings = append(warnings, inputErr.Error())
	} else {
		querySkills = s.extractor.Extract(req.Text)
		if len(querySkills) == 0 {
			warnings = append(warnings, "no known skills found in query text")
		}
	}

	queryVec, err := s.composer.EmbedQuery(ctx, querySkills)
	if err != nil {
		outcome = observability.OutcomeError
		s.metrics.EncoderFailure("query")
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var weights map[string]float64
	if req.UseSkillWeighting {
		weights = s.classifier.Weights(querySkills)
	}
	requiredYears := req.RequiredYears
	if requiredYears <= 0 {
		requiredYears = ranking.DefaultRequiredYears
	}

	method = st.retriever.Method(len(querySkills) > 0, req.UseSkillWeighting)
	hits, err := st.retriever.Retrieve(querySkills, queryVec, req.TopK*2, req.UseSkillWeighting)
	if err != nil {
		outcome = observability.OutcomeError
		return nil, fmt.Errorf("failed to retrieve candidates: %w", err)
	}

	results := make([]types.SearchResult, 0, len(hits))
	for _, hit := range hits {
		p := st.profiles[hit.Position]
		b := ranking.Score(ranking.Input{
			QuerySkills:     querySkills,
			CandidateSkills: p.Skills,
			Experience:      p.Experience,
			Similarity:      hit.HybridScore,
			Weights:         weights,
			UseExperience:   req.UseExperienceScoring,
			RequiredYears:   requiredYears,
		})
		core, booster := s.classifier.Split(p.Skills)
		results = append(results, types.SearchResult{
			ID:                   p.ID,
			Name:                 p.Name,
			Skills:               p.Skills,
			CoreSkills:           core,
			BoosterSkills:        booster,
			FinalScore:           b.Final,
			SemanticSimilarity:   hit.SemanticScore,
			RetrievalScore:       hit.HybridScore,
			SkillOverlapScore:    b.Overlap,
			ExperienceMatchScore: b.Experience,
			MatchingSkills:       b.Matching,
			MissingSkills:        b.Missing,
			SeniorityLevel:       b.Seniority,
			SeniorityExplanation: b.SeniorityExplanation,
			RetrievalMethod:      hit.Method,
		})
	}

	results = ranking.FilterMin(results, req.MinSimilarity)
	ranking.Rank(results)
	results = ranking.Top(results, req.TopK)

	session := s.explainer.NewSession(queryVec)
	for i := range results {
		r := &results[i]
		exp, err := session.Explain(ctx, explain.Input{
			QuerySkills:     querySkills,
			CandidateSkills: r.Skills,
			CandidateVec:    st.profiles[st.byID[r.ID]].Embedding,
			FinalScore:      r.FinalScore,
		})
		if err != nil {
			outcome = observability.OutcomeError
			s.metrics.EncoderFailure("explain")
			return nil, fmt.Errorf("failed to explain candidate %s: %w", r.ID, err)
		}
		exp.Text = explain.FormatText(exp, r.FinalScore)
		r.TopContributors = exp.TopContributors
		r.Explanation = exp
	}

	s.logger.Debug("search complete",
		zap.String("index_id", st.handle.ID),
		zap.Strings("query_skills", querySkills),
		zap.String("method", method),
		zap.Int("retrieved", len(hits)),
		zap.Int("returned", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &types.SearchResponse{
		IndexID:     st.handle.ID,
		QuerySkills: querySkills,
		Results:     results,
		Warnings:    warnings,
	}, nil
}
