package recommender

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/index"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/retrieval"
	"github.com/jonathan/candidate-ranker/internal/skills"
	"go.uber.org/zap"
)

// Defaults applied by DefaultOptions and DefaultSearchRequest.
const (
	DefaultTopK                 = 5
	DefaultWorkers              = 8
	DefaultApproximateMinCorpus = 1000
	embedBatchSize              = 32
)

// Options controls how indexes are built and queried.
type Options struct {
	Hybrid               bool
	LexicalBackend       string
	PrefilterTopN        int
	Approximate          bool
	ApproximateMinCorpus int
	Trees                int
	Workers              int
	Mode                 embedding.Mode
}

// DefaultOptions returns hybrid BM25 retrieval with the approximate index
// enabled for large corpora.
func DefaultOptions() Options {
	return Options{
		Hybrid:               true,
		LexicalBackend:       index.BackendBM25,
		PrefilterTopN:        retrieval.DefaultPrefilterTopN,
		Approximate:          true,
		ApproximateMinCorpus: DefaultApproximateMinCorpus,
		Trees:                index.DefaultTrees,
		Workers:              DefaultWorkers,
		Mode:                 embedding.ModeSkills,
	}
}

// Dependencies are the collaborators a Service is assembled from. Only
// Encoder is required.
type Dependencies struct {
	Encoder        embedding.Encoder
	Cache          embedding.Cache // nil disables embedding caching
	EncoderTimeout time.Duration
	Classifier     *skills.Classifier
	Extractor      *skills.Extractor
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// SearchRequest is one ranking query.
type SearchRequest struct {
	Text                 string  `json:"text"`
	TopK                 int     `json:"top_k" validate:"min=1,max=100"`
	MinSimilarity        float64 `json:"min_similarity" validate:"min=0,max=1"`
	UseExperienceScoring bool    `json:"use_experience_scoring"`
	UseSkillWeighting    bool    `json:"use_skill_weighting"`
	RequiredYears        float64 `json:"required_years" validate:"min=0,max=50"`
}

// DefaultSearchRequest returns a request with every option at its default.
// Decode JSON into it to keep defaults for omitted fields.
func DefaultSearchRequest() SearchRequest {
	return SearchRequest{
		TopK:                 DefaultTopK,
		UseExperienceScoring: true,
		UseSkillWeighting:    true,
		RequiredYears:        ranking.DefaultRequiredYears,
	}
}

// Validate validates the SearchRequest using the validator.
func (r *SearchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// LearnableRequest asks which required skills a candidate could learn.
// CandidateID, when set, takes the known skills from the indexed profile.
type LearnableRequest struct {
	CandidateID     string   `json:"candidate_id,omitempty"`
	CandidateSkills []string `json:"candidate_skills,omitempty"`
	RequiredSkills  []string `json:"required_skills" validate:"required,min=1"`
	Threshold       float64  `json:"threshold" validate:"min=0,max=1"`
	TopK            int      `json:"top_k" validate:"min=0,max=100"`
}

// Validate validates the LearnableRequest using the validator.
func (r *LearnableRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Handle identifies one built index.
type Handle struct {
	ID             string             `json:"id"`
	Size           int                `json:"size"`
	BuiltAt        time.Time          `json:"built_at"`
	EncoderVersion string             `json:"encoder_version"`
	Dimension      int                `json:"dimension"`
	Capabilities   index.Capabilities `json:"capabilities"`
}
