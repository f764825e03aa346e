// Package observability provides logging, metrics and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxSkillsWidth bounds joined skill lists inside a box
	maxSkillsWidth = 40
)

// Printer handles formatted output for human-readable CLI mode
type Printer struct {
	out   io.Writer
	title *color.Color
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, title: color.New(color.FgCyan, color.Bold)}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	// Pad before colouring so escape codes do not count toward the width.
	fmt.Fprintf(p.out, "│ %s │\n", p.title.Sprint(fmt.Sprintf("%-*s", boxWidth-4, title)))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSearchResponse outputs the ranked candidates of a search.
func (p *Printer) PrintSearchResponse(resp *types.SearchResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query skills: %s\n", joinSkills(resp.QuerySkills)))
	sb.WriteString(fmt.Sprintf("Candidates:   %d\n", len(resp.Results)))

	count := min(len(resp.Results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := resp.Results[i]
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, r.ID))
		if r.Name != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", r.Name))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Score: %.3f  [%s]\n", r.FinalScore, r.RetrievalMethod))
		sb.WriteString(fmt.Sprintf("    Semantic %.2f  Overlap %.2f  Exp %.2f\n",
			r.SemanticSimilarity, r.SkillOverlapScore, r.ExperienceMatchScore))
		if len(r.MatchingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Matching: %s\n", joinSkills(r.MatchingSkills)))
		}
		if len(r.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing:  %s\n", joinSkills(r.MissingSkills)))
		}
		sb.WriteString(fmt.Sprintf("    Level:    %s", r.SeniorityLevel))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(resp.Results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more candidates", len(resp.Results)-maxItemsToShow))
	}
	for _, w := range resp.Warnings {
		sb.WriteString(fmt.Sprintf("\n⚠ %s", w))
	}

	p.printBox("SEARCH RESULTS", sb.String())
}

// PrintLearnableSkills outputs the missing skills a candidate could learn.
func (p *Printer) PrintLearnableSkills(skills []types.LearnableSkill) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := skills[i]
		sb.WriteString(fmt.Sprintf("• %s  %.0f%%\n", s.Skill, s.Learnability*100))
		sb.WriteString(fmt.Sprintf("    Ramp-up: %d-%d weeks (~%d)\n",
			s.LearningTime.MinWeeks, s.LearningTime.MaxWeeks, s.LearningTime.EstimateWeeks))
		if len(s.RelatedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Related: %s\n", joinSkills(s.RelatedSkills)))
		}
		sb.WriteString(fmt.Sprintf("    %s", s.Reason))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(skills)-maxItemsToShow))
	}

	p.printBox("LEARNABLE SKILLS", sb.String())
}

// PrintStats outputs corpus and graph statistics.
func (p *Printer) PrintStats(corpus types.CorpusStats, graph types.GraphStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates:        %d\n", corpus.Candidates))
	sb.WriteString(fmt.Sprintf("Unique skills:     %d\n", corpus.UniqueSkills))
	sb.WriteString(fmt.Sprintf("Avg skills/cand.:  %.1f\n", corpus.AvgSkillsPerCandidate))
	sb.WriteString(fmt.Sprintf("Core/booster:      %.0f%% / %.0f%%\n", corpus.CoreSkillPercent, corpus.BoosterSkillPercent))
	sb.WriteString(fmt.Sprintf("Graph edges:       %d\n", graph.TotalEdges))
	sb.WriteString(fmt.Sprintf("Avg connections:   %.2f", graph.AvgConnections))

	if len(corpus.TopSkills) > 0 {
		sb.WriteString("\n\nTop skills:")
		count := min(len(corpus.TopSkills), maxItemsToShow)
		for _, sc := range corpus.TopSkills[:count] {
			sb.WriteString(fmt.Sprintf("\n  • %s (%d)", sc.Skill, sc.Count))
		}
	}

	p.printBox("CORPUS STATISTICS", sb.String())
}

func joinSkills(skills []string) string {
	joined := strings.Join(skills, ", ")
	if len(joined) > maxSkillsWidth {
		joined = joined[:maxSkillsWidth-3] + "..."
	}
	return joined
}
