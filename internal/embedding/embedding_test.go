package embedding

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEncoder returns a fixed vector (or error) and counts calls.
type stubEncoder struct {
	vec   []float64
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *stubEncoder) Encode(ctx context.Context, _ string) ([]float64, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

func (s *stubEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := s.Encode(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEncoder) Dimension() int  { return 3 }
func (s *stubEncoder) Version() string { return "stub" }

func TestHashingEncoder_DeterministicAndNormalized(t *testing.T) {
	enc := NewHashingEncoder(64)
	ctx := context.Background()

	a, err := enc.Encode(ctx, "python aws")
	require.NoError(t, err)
	b, err := enc.Encode(ctx, "aws python")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.InDelta(t, 1.0, Norm(a), 1e-9)
	assert.InDeltaSlice(t, a, b, 1e-12)
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-9)
}

func TestHashingEncoder_DefaultDimensionAndVersion(t *testing.T) {
	enc := NewHashingEncoder(0)
	assert.Equal(t, DefaultDimension, enc.Dimension())
	assert.Equal(t, "hashing-fnv64a-v2-384", enc.Version())
}

func TestHashingEncoder_VocabularyPairsNeverZero(t *testing.T) {
	enc := NewHashingEncoder(0)
	ctx := context.Background()
	vocab := skills.NewDefaultClassifier().Vocabulary()
	require.NotEmpty(t, vocab)

	for i := range vocab {
		for j := i + 1; j < len(vocab); j++ {
			vec, err := enc.Encode(ctx, ProfileText([]string{vocab[i], vocab[j]}))
			require.NoError(t, err)
			if Norm(vec) == 0 {
				t.Fatalf("zero vector for %q + %q", vocab[i], vocab[j])
			}
		}
	}
}

func TestHashingEncoder_OpposingTokensPassGuard(t *testing.T) {
	g := NewGuard(NewHashingEncoder(0), time.Second)
	for _, text := range []string{"c++ flask", "bash delegation", "gcp tableau"} {
		vec, err := g.Encode(context.Background(), text)
		require.NoError(t, err, text)
		assert.InDelta(t, 1.0, Norm(vec), 1e-9)
	}
}

func TestHashingEncoder_TinyDimension(t *testing.T) {
	vec, err := NewHashingEncoder(1).Encode(context.Background(), "python aws")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, vec)
}

func TestHashingEncoder_EmptyTextRejectedByGuard(t *testing.T) {
	g := NewGuard(NewHashingEncoder(16), time.Second)

	_, err := g.Encode(context.Background(), "   ")
	var ef *EncoderFailure
	require.ErrorAs(t, err, &ef)
}

func TestGuard_RejectsMalformedVectors(t *testing.T) {
	tests := []struct {
		name string
		vec  []float64
	}{
		{"nil", nil},
		{"wrong dimension", []float64{1, 0}},
		{"nan", []float64{math.NaN(), 0, 0}},
		{"inf", []float64{math.Inf(1), 0, 0}},
		{"zero", []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(&stubEncoder{vec: tt.vec}, time.Second)
			vec, err := g.Encode(context.Background(), "x")
			assert.Nil(t, vec)
			var ef *EncoderFailure
			assert.ErrorAs(t, err, &ef)
		})
	}
}

func TestGuard_NormalizesAndCopies(t *testing.T) {
	src := []float64{3, 4, 0}
	g := NewGuard(&stubEncoder{vec: src}, time.Second)

	vec, err := g.Encode(context.Background(), "x")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.6, 0.8, 0}, vec, 1e-12)
	assert.Equal(t, []float64{3, 4, 0}, src)
}

func TestGuard_Timeout(t *testing.T) {
	g := NewGuard(&stubEncoder{vec: []float64{1, 0, 0}, delay: time.Second}, 20*time.Millisecond)

	_, err := g.Encode(context.Background(), "x")
	var ef *EncoderFailure
	require.ErrorAs(t, err, &ef)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestGuard_WrapsEncoderErrors(t *testing.T) {
	cause := errors.New("boom")
	g := NewGuard(&stubEncoder{err: cause}, time.Second)

	_, err := g.EncodeBatch(context.Background(), []string{"a", "b"})
	var ef *EncoderFailure
	require.ErrorAs(t, err, &ef)
	assert.ErrorIs(t, err, cause)
}

func TestCached_ServesRepeatsFromCache(t *testing.T) {
	inner := &stubEncoder{vec: []float64{1, 0, 0}}
	cache := NewMemoryCache(10)
	c := NewCached(inner, cache)
	ctx := context.Background()

	_, err := c.Encode(ctx, "python")
	require.NoError(t, err)
	_, err = c.Encode(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())

	vecs, err := c.EncodeBatch(ctx, []string{"python", "go"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, 2, cache.Len())
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	m := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []float64{1}))
	require.NoError(t, m.Set(ctx, "b", []float64{2}))
	require.NoError(t, m.Set(ctx, "c", []float64{3}))

	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok)
	v, ok, _ := m.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, []float64{3}, v)
}

func TestMemoryCache_GetRefreshesRecency(t *testing.T) {
	m := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []float64{1}))
	require.NoError(t, m.Set(ctx, "b", []float64{2}))
	_, ok, _ := m.Get(ctx, "a")
	require.True(t, ok)
	require.NoError(t, m.Set(ctx, "c", []float64{3}))

	_, ok, _ = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = m.Get(ctx, "b")
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestVectorEncoding(t *testing.T) {
	vec := []float64{0.25, -1.5, 3}
	got, err := decodeVector(encodeVector(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestProfileText(t *testing.T) {
	assert.Equal(t, "no skills", ProfileText(nil))
	assert.Equal(t, "aws python", ProfileText([]string{"aws", "python"}))
}

func TestExperienceText(t *testing.T) {
	assert.Equal(t, "", ExperienceText(nil))
	assert.Equal(t, "aws 2 years python 5.5 years", ExperienceText(map[string]float64{"python": 5.5, "aws": 2}))
}

func TestComposer_SkillsModeMatchesQuery(t *testing.T) {
	enc := NewGuard(NewHashingEncoder(128), time.Second)
	c, err := NewComposer(enc, "")
	require.NoError(t, err)
	assert.Equal(t, ModeSkills, c.Mode())

	ctx := context.Background()
	profiles := []types.Profile{{ID: "1", Skills: []string{"aws", "python"}}}
	vecs, err := c.EmbedProfiles(ctx, profiles)
	require.NoError(t, err)

	q, err := c.EmbedQuery(ctx, []string{"aws", "python"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, Dot(vecs[0], q), 1e-9)
}

func TestComposer_SectionsModeBlendsExperience(t *testing.T) {
	enc := NewGuard(NewHashingEncoder(128), time.Second)
	c, err := NewComposer(enc, ModeSections)
	require.NoError(t, err)

	ctx := context.Background()
	vecs, err := c.EmbedProfiles(ctx, []types.Profile{
		{ID: "1", Skills: []string{"python"}, Experience: map[string]float64{"python": 5}},
		{ID: "2", Skills: []string{"python"}},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, Norm(vecs[0]), 1e-9)
	assert.Less(t, Dot(vecs[0], vecs[1]), 1.0-1e-6)

	q, err := c.EmbedQuery(ctx, []string{"python"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, Dot(vecs[1], q), 1e-9)
}

func TestNewComposer_UnknownMode(t *testing.T) {
	_, err := NewComposer(NewHashingEncoder(8), "weird")
	assert.Error(t, err)
}

func TestNew_Variants(t *testing.T) {
	enc, err := New(context.Background(), Config{Kind: KindHashing, Dimension: 32})
	require.NoError(t, err)
	assert.Equal(t, 32, enc.Dimension())

	_, err = New(context.Background(), Config{Kind: KindOpenAI})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Kind: "bogus"})
	assert.Error(t, err)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, 1.0, Cosine([]float64{2, 0}, []float64{5, 0}), 1e-12)
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 0}))
}
