package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/index"
	"github.com/jonathan/candidate-ranker/internal/recommender"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const maxBodyBytes = 1 << 20

// HealthResponse represents the response for /health
type HealthResponse struct {
	Status       string              `json:"status"`
	Ready        bool                `json:"ready"`
	IndexID      string              `json:"index_id,omitempty"`
	IndexSize    int                 `json:"index_size"`
	Capabilities *index.Capabilities `json:"capabilities,omitempty"`
}

// LearnabilityRequest represents the request body for /learnability
type LearnabilityRequest struct {
	KnownSkills  []string `json:"known_skills"`
	MissingSkill string   `json:"missing_skill"`
}

// LearnableSkillsResponse represents the response for /learnable-skills
type LearnableSkillsResponse struct {
	Skills []types.LearnableSkill `json:"skills"`
}

// StatsResponse represents the response for /stats
type StatsResponse struct {
	Corpus types.CorpusStats `json:"corpus"`
	Graph  types.GraphStats  `json:"graph"`
}

// RebuildResponse represents the response for /admin/rebuild
type RebuildResponse struct {
	Handle *recommender.Handle `json:"handle"`
	Source string              `json:"source"`
}

// handleHealth reports liveness plus the state of the active index.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h := s.svc.Handle(); h != nil {
		resp.Ready = true
		resp.IndexID = h.ID
		resp.IndexSize = h.Size
		caps := h.Capabilities
		resp.Capabilities = &caps
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSearch ranks the indexed candidates against a query.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req := recommender.DefaultSearchRequest()
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.svc.Search(r.Context(), req)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleLearnability scores how learnable one missing skill is.
func (s *Server) handleLearnability(w http.ResponseWriter, r *http.Request) {
	var req LearnabilityRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.svc.PredictLearnability(req.KnownSkills, req.MissingSkill)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleLearnableSkills lists required skills a candidate could learn.
func (s *Server) handleLearnableSkills(w http.ResponseWriter, r *http.Request) {
	var req recommender.LearnableRequest
	if !s.decode(w, r, &req) {
		return
	}

	found, err := s.svc.FindLearnableSkills(req)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if found == nil {
		found = []types.LearnableSkill{}
	}
	s.jsonResponse(w, http.StatusOK, LearnableSkillsResponse{Skills: found})
}

// handleStats returns corpus and skill graph statistics.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	corpus, err := s.svc.Stats()
	if err != nil {
		s.handleError(w, err)
		return
	}
	graphStats, err := s.svc.GraphStats()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, StatsResponse{Corpus: corpus, Graph: graphStats})
}

// handleRebuild rebuilds the index from the profile store, or from the
// currently indexed profiles when no store is configured.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	source := "store"
	var profiles []types.Profile
	if s.source != nil {
		loaded, err := s.source.ListProfiles(r.Context())
		if err != nil {
			s.logger.Error("failed to load profiles", zap.Error(err))
			s.errorResponse(w, http.StatusBadGateway, "failed to load profiles: "+err.Error())
			return
		}
		profiles = loaded
	} else {
		source = "index"
		profiles = s.svc.Profiles()
		if len(profiles) == 0 {
			s.errorResponse(w, http.StatusServiceUnavailable, "no profile store configured and no index to rebuild")
			return
		}
	}

	handle, err := s.svc.BuildIndex(r.Context(), profiles)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, RebuildResponse{Handle: handle, Source: source})
}

// decode reads a JSON body into dst, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.handleError(w, &ErrBadRequest{Message: "invalid request body", Cause: err})
		return false
	}
	return true
}

// handleError maps err to a status code and writes it.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
