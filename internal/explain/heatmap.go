package explain

import (
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	heatMapRows = 10
	heatMapCols = 15
)

// HeatMap compares the first 10 query skills with the first 15 candidate
// skills: 1.0 for an exact match, 0.5 when either contains the other, and 0
// otherwise. It is a display aid and never feeds the score.
func HeatMap(querySkills, candidateSkills []string) types.HeatMap {
	rows := querySkills[:min(len(querySkills), heatMapRows)]
	cols := candidateSkills[:min(len(candidateSkills), heatMapCols)]

	cells := make([][]float64, len(rows))
	for i, q := range rows {
		cells[i] = make([]float64, len(cols))
		for j, c := range cols {
			switch {
			case q == c:
				cells[i][j] = 1.0
			case strings.Contains(c, q) || strings.Contains(q, c):
				cells[i][j] = 0.5
			}
		}
	}

	return types.HeatMap{
		Rows:  append([]string{}, rows...),
		Cols:  append([]string{}, cols...),
		Cells: cells,
	}
}
