package skills

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Extractor finds known skill tokens in free text by dictionary lookup.
type Extractor struct {
	terms []string // lowercase, longest first
	known map[string]struct{}
}

// NewExtractor builds an Extractor over vocabulary plus the synonym table.
func NewExtractor(vocabulary []string) *Extractor {
	seen := make(map[string]struct{})
	known := make(map[string]struct{})
	var terms []string
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
		known[NormalizeSkill(t)] = struct{}{}
	}
	for _, v := range vocabulary {
		add(v)
	}
	for _, s := range Synonyms() {
		add(s)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return &Extractor{terms: terms, known: known}
}

// NewDefaultExtractor returns an Extractor over the default classifier vocabulary.
func NewDefaultExtractor() *Extractor {
	return NewExtractor(NewDefaultClassifier().Vocabulary())
}

// Extract returns the normalized, deduplicated and sorted skills mentioned
// in text. Matches must sit on word boundaries.
func (e *Extractor) Extract(text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return []string{}
	}

	var found []string
	for _, term := range e.terms {
		if containsWord(lower, term) {
			found = append(found, term)
		}
	}
	return NormalizeSkills(found)
}

// Known reports whether a normalized skill is in the extractor's dictionary.
func (e *Extractor) Known(skill string) bool {
	_, ok := e.known[NormalizeSkill(skill)]
	return ok
}

// containsWord reports whether term occurs in text with non-word characters
// (or the text edges) on both sides.
func containsWord(text, term string) bool {
	for start := 0; start < len(text); {
		i := strings.Index(text[start:], term)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(term)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(text[i-1])
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	return !isWordByte(text[end])
}

func isWordByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

const skillWord = `[a-z][a-z0-9\-\+#]*(?:\.[a-z0-9\-\+#]+)*`

var yearPatterns = []*regexp.Regexp{
	// "python: 5 years", "machine learning: 2 years"
	regexp.MustCompile(`(` + skillWord + `(?:\s+` + skillWord + `)?)\s*:\s*(\d+)\+?\s*(years?|yrs?|months?)`),
	// "docker - 3 years"
	regexp.MustCompile(`(` + skillWord + `(?:\s+` + skillWord + `)?)\s+-\s+(\d+)\+?\s*(years?|yrs?|months?)`),
	// "java (4 years)"
	regexp.MustCompile(`(` + skillWord + `(?:\s+` + skillWord + `)?)\s*\(\s*(\d+)\+?\s*(years?|yrs?|months?)\s*\)`),
}

// "5+ years of python", "3 years experience in aws"
var yearsOfPattern = regexp.MustCompile(`(\d+)\+?\s*(years?|yrs?)\s+(?:of\s+|in\s+|with\s+|experience\s+(?:in\s+|with\s+))(` + skillWord + `(?:\s+` + skillWord + `)?)`)

// ExtractYears reads "skill: N years" style statements from text and returns
// the maximum years per known skill. Month figures are converted to whole
// years with a minimum of one.
func (e *Extractor) ExtractYears(text string) map[string]float64 {
	lower := strings.ToLower(text)
	result := make(map[string]float64)

	record := func(phrase, number, unit string) {
		n, err := strconv.Atoi(number)
		if err != nil || n <= 0 {
			return
		}
		years := float64(n)
		if strings.HasPrefix(unit, "month") {
			years = float64(max(1, n/12))
		}
		skill := e.resolvePhrase(phrase)
		if skill == "" {
			return
		}
		if years > result[skill] {
			result[skill] = years
		}
	}

	for _, re := range yearPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			record(m[1], m[2], m[3])
		}
	}
	for _, m := range yearsOfPattern.FindAllStringSubmatch(lower, -1) {
		record(m[3], m[1], m[2])
	}
	return result
}

// resolvePhrase maps a one or two word phrase onto a known skill. The whole
// phrase wins over its individual words.
func (e *Extractor) resolvePhrase(phrase string) string {
	phrase = strings.Trim(phrase, " .,;")
	if e.Known(phrase) {
		return NormalizeSkill(phrase)
	}
	words := strings.Fields(phrase)
	for i := len(words) - 1; i >= 0; i-- {
		w := strings.Trim(words[i], ".,;")
		if e.Known(w) {
			return NormalizeSkill(w)
		}
	}
	return ""
}
