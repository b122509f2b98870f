// Package answer decides whether a free-text answer matches a question's accepted answers.
//
// Answers are compared after normalization (case, diacritics and whitespace are ignored) using a
// Levenshtein-based similarity ratio. Two thresholds split the ratio into three verdicts.
package answer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"trivia-room-service/internal/domain"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultRightThreshold  = 0.85
	DefaultAlmostThreshold = 0.70
)

// Evaluator holds the similarity thresholds. Both comparisons are strict.
type Evaluator struct {
	RightThreshold  float64
	AlmostThreshold float64
}

// Default is the evaluator used by the package-level helpers.
var Default = Evaluator{
	RightThreshold:  DefaultRightThreshold,
	AlmostThreshold: DefaultAlmostThreshold,
}

// Normalize lower-cases text and removes whitespace and combining marks.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	// transform chains keep state, so one is built per call
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(unicode.IsSpace)),
		norm.NFC,
	)
	out, _, err := transform.String(t, lowered)
	if err != nil {
		return strings.Join(strings.Fields(lowered), "")
	}
	return out
}

// Similarity returns a ratio in [0, 1] between the normalized forms of a and b.
func Similarity(a, b string) float64 {
	return similarity(Normalize(a), Normalize(b))
}

func similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen)
}

// Evaluate scores userAnswer against every accepted answer and keeps the best match.
func (e Evaluator) Evaluate(userAnswer string, acceptedAnswers []string) domain.Verdict {
	if len(acceptedAnswers) == 0 {
		return domain.VerdictWrong
	}
	normalized := Normalize(userAnswer)
	best := 0.0
	for _, accepted := range acceptedAnswers {
		if s := similarity(normalized, Normalize(accepted)); s > best {
			best = s
		}
	}
	switch {
	case best > e.RightThreshold:
		return domain.VerdictRight
	case best > e.AlmostThreshold:
		return domain.VerdictAlmostRight
	default:
		return domain.VerdictWrong
	}
}

// Evaluate uses the default thresholds.
func Evaluate(userAnswer string, acceptedAnswers []string) domain.Verdict {
	return Default.Evaluate(userAnswer, acceptedAnswers)
}
