package ranking

import (
	"fmt"
	"strconv"
)

// Seniority levels.
const (
	LevelLead   = "Lead/Principal"
	LevelSenior = "Senior"
	LevelMid    = "Mid-Level"
	LevelJunior = "Junior"
	LevelEntry  = "Entry-Level"
)

// Seniority derives a level from the largest years value in exp, with a
// short human-readable explanation.
func Seniority(exp map[string]float64) (string, string) {
	if len(exp) == 0 {
		return LevelEntry, "No specific experience mentioned"
	}

	ordered := sortSkillsByYears(exp)
	top := ordered[0]
	maxYears := exp[top]

	var sum float64
	for _, y := range exp {
		sum += y
	}
	avg := sum / float64(len(exp))

	switch {
	case maxYears >= 10:
		return LevelLead, fmt.Sprintf("%s+ years experience in %s", formatYears(maxYears), top)
	case maxYears >= 7:
		return LevelSenior, fmt.Sprintf("%s years experience, average %.1f years across skills", formatYears(maxYears), avg)
	case maxYears >= 4:
		return LevelMid, fmt.Sprintf("%s years experience, average %.1f years across skills", formatYears(maxYears), avg)
	case maxYears >= 2:
		return LevelJunior, fmt.Sprintf("%s years experience", formatYears(maxYears))
	default:
		return LevelEntry, fmt.Sprintf("%s year(s) experience", formatYears(maxYears))
	}
}

func formatYears(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}
