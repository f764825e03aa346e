package embedding

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Mode selects how a profile is rendered into vectors.
type Mode string

const (
	// ModeSkills embeds the joined skill list.
	ModeSkills Mode = "skills"
	// ModeSections blends a skills vector with an experience vector.
	ModeSections Mode = "sections"
)

const (
	skillsSectionWeight     = 0.6
	experienceSectionWeight = 0.3
)

// Composer produces profile and query vectors from an Encoder.
type Composer struct {
	enc  Encoder
	mode Mode
}

// NewComposer creates a Composer. An empty mode selects ModeSkills.
func NewComposer(enc Encoder, mode Mode) (*Composer, error) {
	switch mode {
	case "":
		mode = ModeSkills
	case ModeSkills, ModeSections:
	default:
		return nil, fmt.Errorf("unknown embedding mode %q", mode)
	}
	return &Composer{enc: enc, mode: mode}, nil
}

// Mode returns the composition mode.
func (c *Composer) Mode() Mode { return c.mode }

// EmbedQuery embeds a query skill set. Queries never carry experience.
func (c *Composer) EmbedQuery(ctx context.Context, skills []string) ([]float64, error) {
	return c.enc.Encode(ctx, ProfileText(skills))
}

// EmbedProfiles embeds a batch of profiles in one encoder round trip per section.
func (c *Composer) EmbedProfiles(ctx context.Context, profiles []types.Profile) ([][]float64, error) {
	texts := make([]string, len(profiles))
	for i, p := range profiles {
		texts[i] = ProfileText(p.Skills)
	}
	skillVecs, err := c.enc.EncodeBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if c.mode == ModeSkills {
		return skillVecs, nil
	}

	var (
		expTexts []string
		expIdx   []int
	)
	for i, p := range profiles {
		if t := ExperienceText(p.Experience); t != "" {
			expTexts = append(expTexts, t)
			expIdx = append(expIdx, i)
		}
	}
	if len(expTexts) == 0 {
		return skillVecs, nil
	}
	expVecs, err := c.enc.EncodeBatch(ctx, expTexts)
	if err != nil {
		return nil, err
	}

	for j, i := range expIdx {
		skillVecs[i] = blend(skillVecs[i], expVecs[j])
	}
	return skillVecs, nil
}

func blend(skillsVec, expVec []float64) []float64 {
	out := make([]float64, len(skillsVec))
	for k := range out {
		out[k] = skillsSectionWeight*skillsVec[k] + experienceSectionWeight*expVec[k]
	}
	return Normalize(out)
}

// ExperienceText renders an experience map as "skill N years" phrases in
// skill order.
func ExperienceText(exp map[string]float64) string {
	if len(exp) == 0 {
		return ""
	}
	keys := make([]string, 0, len(exp))
	for k := range exp {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+strconv.FormatFloat(exp[k], 'f', -1, 64)+" years")
	}
	return strings.Join(parts, " ")
}
