// Package skills provides skill normalization, core/booster classification
// and dictionary-based skill extraction.
package skills

import (
	"sort"
	"strings"
)

// Category is the weight class of a skill.
type Category string

const (
	// CategoryCore marks a primary, requirement-bearing skill (typically technical).
	CategoryCore Category = "core"
	// CategoryBooster marks a supplementary skill (typically interpersonal).
	CategoryBooster Category = "booster"
)

const (
	// CoreWeight is the overlap weight of a core skill.
	CoreWeight = 1.0
	// BoosterWeight is the overlap weight of a booster skill.
	BoosterWeight = 0.3
)

// RuleTable is the static vocabulary a Classifier consults. Exact terms are
// checked before keywords, and core rules before booster rules.
type RuleTable struct {
	CoreTerms       []string
	BoosterTerms    []string
	CoreKeywords    []string
	BoosterKeywords []string
}

// Classifier tags skills as core or booster using a RuleTable.
type Classifier struct {
	core            map[string]struct{}
	booster         map[string]struct{}
	coreKeywords    []string
	boosterKeywords []string
	coreWeight      float64
	boosterWeight   float64
}

// NewClassifier builds a Classifier from rules. Terms are normalized so
// synonyms in the table resolve the same way as input skills.
func NewClassifier(rules RuleTable) *Classifier {
	c := &Classifier{
		core:            toSet(rules.CoreTerms),
		booster:         toSet(rules.BoosterTerms),
		coreKeywords:    lowerAll(rules.CoreKeywords),
		boosterKeywords: lowerAll(rules.BoosterKeywords),
		coreWeight:      CoreWeight,
		boosterWeight:   BoosterWeight,
	}
	return c
}

// NewDefaultClassifier returns a Classifier over DefaultRules.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules())
}

// Classify returns the category of a single skill. Unknown skills are core.
func (c *Classifier) Classify(skill string) Category {
	s := NormalizeSkill(skill)

	if _, ok := c.core[s]; ok {
		return CategoryCore
	}
	if _, ok := c.booster[s]; ok {
		return CategoryBooster
	}
	for _, kw := range c.coreKeywords {
		if strings.Contains(s, kw) {
			return CategoryCore
		}
	}
	for _, kw := range c.boosterKeywords {
		if strings.Contains(s, kw) {
			return CategoryBooster
		}
	}
	return CategoryCore
}

// Weight returns the overlap weight multiplier for a skill.
func (c *Classifier) Weight(skill string) float64 {
	if c.Classify(skill) == CategoryBooster {
		return c.boosterWeight
	}
	return c.coreWeight
}

// Weights returns a weight for every skill, keyed by the skill as given.
func (c *Classifier) Weights(skills []string) map[string]float64 {
	weights := make(map[string]float64, len(skills))
	for _, s := range skills {
		weights[s] = c.Weight(s)
	}
	return weights
}

// Split partitions skills into core and booster lists, preserving order.
func (c *Classifier) Split(skills []string) (core, booster []string) {
	core = []string{}
	booster = []string{}
	for _, s := range skills {
		if c.Classify(s) == CategoryBooster {
			booster = append(booster, s)
		} else {
			core = append(core, s)
		}
	}
	return core, booster
}

// Stats describes the core/booster split of a skill list.
type Stats struct {
	Total          int     `json:"total"`
	CoreCount      int     `json:"core_count"`
	BoosterCount   int     `json:"booster_count"`
	CorePercent    float64 `json:"core_percent"`
	BoosterPercent float64 `json:"booster_percent"`
}

// Stats counts core and booster skills.
func (c *Classifier) Stats(skills []string) Stats {
	core, booster := c.Split(skills)
	st := Stats{
		Total:        len(skills),
		CoreCount:    len(core),
		BoosterCount: len(booster),
	}
	if st.Total > 0 {
		st.CorePercent = float64(st.CoreCount) / float64(st.Total) * 100
		st.BoosterPercent = float64(st.BoosterCount) / float64(st.Total) * 100
	}
	return st
}

// Vocabulary returns every exact term the classifier knows, sorted.
func (c *Classifier) Vocabulary() []string {
	terms := make([]string, 0, len(c.core)+len(c.booster))
	for t := range c.core {
		terms = append(terms, t)
	}
	for t := range c.booster {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if n := NormalizeSkill(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
