// Package question classifies and browses survey questions (columns).
package question

import (
	"regexp"
	"sort"
	"strings"

	"github.com/avelanarius/surveyscope/internal/answer"
	"github.com/avelanarius/surveyscope/internal/dataset"
)

// Kind is the derived classification of a question.
type Kind int

const (
	// SingleAnswer questions hold one answer per cell.
	SingleAnswer Kind = iota
	// MultiAnswer questions pack several delimited answers into one cell.
	MultiAnswer
)

func (k Kind) String() string {
	if k == MultiAnswer {
		return "multi-answer"
	}
	return "single-answer"
}

// IsMultiAnswer reports whether any non-missing value of the question
// contains the delimiter. One packed cell is enough to classify the whole
// column as multi-answer. The result depends only on the live view and is
// recomputed on every call: a filtered view whose surviving rows lack the
// delimiter legitimately reclassifies as single-answer.
func IsMultiAnswer(view dataset.View, q, delim string) (bool, error) {
	if !view.HasColumn(q) {
		return false, &dataset.UnknownQuestionError{Question: q}
	}
	if delim == "" {
		return false, nil
	}
	for i := 0; i < view.Len(); i++ {
		value, ok := view.Cell(i, q)
		if !ok {
			continue
		}
		if strings.Contains(value, delim) {
			return true, nil
		}
	}
	return false, nil
}

// Classify returns the Kind of a question against the live view.
func Classify(view dataset.View, q, delim string) (Kind, error) {
	multi, err := IsMultiAnswer(view, q, delim)
	if err != nil {
		return SingleAnswer, err
	}
	if multi {
		return MultiAnswer, nil
	}
	return SingleAnswer, nil
}

// Search returns question names matching a keyword, case-insensitively.
// Whole-word matches take precedence: substring matches are returned only
// when no question contains the keyword as a whole word.
func Search(view dataset.View, keyword string) []string {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	wordPattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)

	var exact, partial []string
	for _, col := range view.Columns() {
		lower := strings.ToLower(col)
		switch {
		case wordPattern.MatchString(lower):
			exact = append(exact, col)
		case strings.Contains(lower, keyword):
			partial = append(partial, col)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}

// Options returns the sorted distinct answer tokens of a question,
// splitting packed multi-answer cells.
func Options(view dataset.View, q, delim string) ([]string, error) {
	if !view.HasColumn(q) {
		return nil, &dataset.UnknownQuestionError{Question: q}
	}
	seen := make(map[string]struct{})
	for i := 0; i < view.Len(); i++ {
		value, ok := view.Cell(i, q)
		if !ok {
			continue
		}
		for _, token := range answer.Split(value, delim) {
			seen[token] = struct{}{}
		}
	}
	options := make([]string, 0, len(seen))
	for token := range seen {
		options = append(options, token)
	}
	sort.Strings(options)
	return options, nil
}
