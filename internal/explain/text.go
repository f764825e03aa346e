package explain

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

const maxMissingListed = 10

// FormatText renders an explanation as a short human-readable report.
func FormatText(e *types.MatchExplanation, finalScore float64) string {
	if e == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall Match Score: %.1f%%\n", finalScore*100))

	if len(e.TopContributors) > 0 {
		sb.WriteString("\nTop Skill Contributions:\n")
		for _, c := range e.TopContributors {
			sb.WriteString(fmt.Sprintf("  • %s: +%.1f%%\n", c.Skill, c.Contribution))
		}
	}

	if len(e.MissingSkills) > 0 {
		sb.WriteString("\nMissing Skills:\n")
		for _, s := range e.MissingSkills[:min(len(e.MissingSkills), maxMissingListed)] {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", s))
		}
		if extra := len(e.MissingSkills) - maxMissingListed; extra > 0 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", extra))
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
