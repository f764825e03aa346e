// Package recommender assembles extraction, embedding, retrieval, scoring,
// explanation and the skill graph into one ranking service.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/explain"
	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/index"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/retrieval"
	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const topSkillsInStats = 10

// Service ranks candidates against job descriptions. Searches read an
// immutable state and never block; rebuilds are serialized and publish a new
// state with one atomic store.
type Service struct {
	opts       Options
	encoder    embedding.Encoder
	composer   *embedding.Composer
	classifier *skills.Classifier
	extractor  *skills.Extractor
	explainer  *explain.Explainer
	logger     *zap.Logger
	metrics    *observability.Metrics

	mu    sync.Mutex // serializes rebuilds
	state atomic.Pointer[state]
}

// state is one fully built, read-only index generation.
type state struct {
	handle    *Handle
	profiles  []types.IndexedProfile
	byID      map[string]int
	retriever *retrieval.Retriever
	graph     *graph.SkillGraph
	stats     types.CorpusStats
}

// New assembles a Service. The encoder is wrapped with the optional cache
// and then the Guard, so every vector the service sees has been validated.
func New(opts Options, deps Dependencies) (*Service, error) {
	if deps.Encoder == nil {
		return nil, &ConfigurationError{Message: "an encoder is required"}
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.ApproximateMinCorpus <= 0 {
		opts.ApproximateMinCorpus = DefaultApproximateMinCorpus
	}

	var enc embedding.Encoder = deps.Encoder
	if deps.Cache != nil {
		enc = embedding.NewCached(enc, deps.Cache)
	}
	enc = embedding.NewGuard(enc, deps.EncoderTimeout)

	composer, err := embedding.NewComposer(enc, opts.Mode)
	if err != nil {
		return nil, &ConfigurationError{Message: "invalid embedding mode", Cause: err}
	}

	s := &Service{
		opts:       opts,
		encoder:    enc,
		composer:   composer,
		classifier: deps.Classifier,
		extractor:  deps.Extractor,
		explainer:  explain.New(enc),
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
	if s.classifier == nil {
		s.classifier = skills.NewDefaultClassifier()
	}
	if s.extractor == nil {
		s.extractor = skills.NewDefaultExtractor()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// Handle returns the active index handle, or nil before the first build.
func (s *Service) Handle() *Handle {
	if st := s.state.Load(); st != nil {
		h := *st.handle
		return &h
	}
	return nil
}

// Profiles returns the indexed profiles in corpus order.
func (s *Service) Profiles() []types.Profile {
	st := s.state.Load()
	if st == nil {
		return nil
	}
	out := make([]types.Profile, len(st.profiles))
	for i, p := range st.profiles {
		out[i] = p.Profile
	}
	return out
}

// BuildIndex replaces the whole index with profiles. On any failure the
// previous index stays active.
func (s *Service) BuildIndex(ctx context.Context, profiles []types.Profile) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuild(ctx, profiles)
}

// AddProfiles merges profiles into the current corpus, replacing any with
// the same ID, and rebuilds.
func (s *Service) AddProfiles(ctx context.Context, profiles []types.Profile) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.Profiles()
	pos := make(map[string]int, len(merged))
	for i, p := range merged {
		pos[p.ID] = i
	}
	for _, p := range profiles {
		if i, ok := pos[p.ID]; ok {
			merged[i] = p
			continue
		}
		pos[p.ID] = len(merged)
		merged = append(merged, p)
	}
	return s.rebuild(ctx, merged)
}

// rebuild must be called with s.mu held.
func (s *Service) rebuild(ctx context.Context, profiles []types.Profile) (handle *Handle, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveBuild(len(profiles), time.Since(start).Seconds(), err)
	}()

	normalized, err := s.normalizeProfiles(profiles)
	if err != nil {
		return nil, err
	}

	vecs, err := s.embedAll(ctx, normalized)
	if err != nil {
		s.metrics.EncoderFailure("build")
		s.logger.Error("index build failed", zap.Int("profiles", len(normalized)), zap.Error(err))
		return nil, fmt.Errorf("failed to embed profiles: %w", err)
	}

	indexed := make([]types.IndexedProfile, len(normalized))
	for i, p := range normalized {
		if len(vecs[i]) != s.encoder.Dimension() {
			return nil, &ConfigurationError{
				Message: fmt.Sprintf("profile %s embedded with %d dimensions, encoder declares %d", p.ID, len(vecs[i]), s.encoder.Dimension()),
			}
		}
		indexed[i] = types.IndexedProfile{Profile: p, Embedding: vecs[i]}
	}

	st := s.assemble(indexed, nil, uuid.NewString(), time.Now().UTC())
	s.state.Store(st)

	s.logger.Info("index built",
		zap.String("index_id", st.handle.ID),
		zap.Int("profiles", st.handle.Size),
		zap.Bool("lexical", st.handle.Capabilities.Lexical),
		zap.Bool("approximate", st.handle.Capabilities.Approximate),
		zap.Duration("elapsed", time.Since(start)),
	)
	h := *st.handle
	return &h, nil
}

// embedAll embeds profiles in fixed-size batches on a bounded worker pool.
func (s *Service) embedAll(ctx context.Context, profiles []types.Profile) ([][]float64, error) {
	vecs := make([][]float64, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for start := 0; start < len(profiles); start += embedBatchSize {
		end := min(start+embedBatchSize, len(profiles))
		g.Go(func() error {
			batch, err := s.composer.EmbedProfiles(gctx, profiles[start:end])
			if err != nil {
				return err
			}
			copy(vecs[start:end], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vecs, nil
}

// assemble builds every index over indexed. A nil g rebuilds the skill graph
// from the profiles.
func (s *Service) assemble(indexed []types.IndexedProfile, g *graph.SkillGraph, id string, builtAt time.Time) *state {
	docs := make([][]string, len(indexed))
	vecs := make([][]float64, len(indexed))
	byID := make(map[string]int, len(indexed))
	for i, p := range indexed {
		docs[i] = p.Skills
		vecs[i] = p.Embedding
		byID[p.ID] = i
	}

	caps := index.Capabilities{}
	lexical := s.buildLexical(docs, &caps)

	var angular *index.Angular
	switch {
	case !s.opts.Approximate:
		caps.Notes = append(caps.Notes, "approximate index disabled")
	case len(indexed) < s.opts.ApproximateMinCorpus:
		caps.Notes = append(caps.Notes, fmt.Sprintf("approximate index skipped: %d profiles is below %d", len(indexed), s.opts.ApproximateMinCorpus))
	default:
		angular = index.NewAngular(vecs, s.opts.Trees)
		caps.Approximate = true
	}

	if g == nil {
		g = graph.Build(docs)
	}

	return &state{
		handle: &Handle{
			ID:             id,
			Size:           len(indexed),
			BuiltAt:        builtAt,
			EncoderVersion: s.encoder.Version(),
			Dimension:      s.encoder.Dimension(),
			Capabilities:   caps,
		},
		profiles: indexed,
		byID:     byID,
		retriever: retrieval.New(index.NewExact(vecs), lexical, angular, retrieval.Options{
			Hybrid:        s.opts.Hybrid,
			PrefilterTopN: s.opts.PrefilterTopN,
		}),
		graph: g,
		stats: s.corpusStats(indexed),
	}
}

// buildLexical resolves the lexical capability. A failing bleve index falls
// back to BM25; an unknown backend disables lexical scoring.
func (s *Service) buildLexical(docs [][]string, caps *index.Capabilities) index.Lexical {
	if !s.opts.Hybrid {
		caps.Notes = append(caps.Notes, "hybrid retrieval disabled")
		return nil
	}

	lexical, err := index.NewLexical(s.opts.LexicalBackend, docs)
	if err != nil {
		var unavailable *index.DependencyUnavailable
		if !errors.As(err, &unavailable) {
			unavailable = &index.DependencyUnavailable{Dependency: s.opts.LexicalBackend, Message: "failed to build", Cause: err}
		}
		s.logger.Warn("lexical index unavailable", zap.Error(unavailable))
		caps.Notes = append(caps.Notes, unavailable.Error())

		if s.opts.LexicalBackend != index.BackendBleve {
			return nil
		}
		lexical = index.NewBM25(docs)
		caps.Notes = append(caps.Notes, "falling back to bm25")
	}

	caps.Lexical = true
	caps.LexicalBackend = lexical.Name()
	return lexical
}

// normalizeProfiles canonicalizes skills and experience. Years stated in a
// profile summary fill in skills the experience map does not cover.
func (s *Service) normalizeProfiles(profiles []types.Profile) ([]types.Profile, error) {
	out := make([]types.Profile, len(profiles))
	seen := make(map[string]struct{}, len(profiles))
	for i, p := range profiles {
		if p.ID == "" {
			return nil, &ConfigurationError{Message: fmt.Sprintf("profile at position %d has no id", i)}
		}
		if _, dup := seen[p.ID]; dup {
			return nil, &ConfigurationError{Message: fmt.Sprintf("duplicate profile id %q", p.ID)}
		}
		seen[p.ID] = struct{}{}

		exp := skills.NormalizeExperience(p.Experience)
		for skill, years := range s.extractor.ExtractYears(p.Summary) {
			if _, ok := exp[skill]; !ok {
				exp[skill] = years
			}
		}
		out[i] = types.Profile{
			ID:         p.ID,
			Name:       p.Name,
			Skills:     skills.NormalizeSkills(p.Skills),
			Experience: exp,
			Summary:    p.Summary,
		}
	}
	return out, nil
}

// corpusStats counts skill occurrences across the corpus. The core and
// booster shares are over every occurrence, not unique skills.
func (s *Service) corpusStats(profiles []types.IndexedProfile) types.CorpusStats {
	counts := make(map[string]int)
	var all []string
	for _, p := range profiles {
		all = append(all, p.Skills...)
		for _, skill := range p.Skills {
			counts[skill]++
		}
	}

	top := make([]types.SkillCount, 0, len(counts))
	for skill, n := range counts {
		top = append(top, types.SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Skill < top[j].Skill
	})
	if len(top) > topSkillsInStats {
		top = top[:topSkillsInStats]
	}

	mix := s.classifier.Stats(all)
	stats := types.CorpusStats{
		Candidates:          len(profiles),
		UniqueSkills:        len(counts),
		TopSkills:           top,
		CoreSkillPercent:    mix.CorePercent,
		BoosterSkillPercent: mix.BoosterPercent,
	}
	if len(profiles) > 0 {
		stats.AvgSkillsPerCandidate = float64(mix.Total) / float64(len(profiles))
	}
	return stats
}

// current returns the active state or a ConfigurationError before the first
// build.
func (s *Service) current() (*state, error) {
	st := s.state.Load()
	if st == nil {
		return nil, &ConfigurationError{Message: "index has not been built"}
	}
	return st, nil
}
