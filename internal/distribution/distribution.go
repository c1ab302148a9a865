// Package distribution computes answer-frequency distributions.
package distribution

import (
	"math"
	"sort"

	"github.com/avelanarius/surveyscope/internal/answer"
	"github.com/avelanarius/surveyscope/internal/dataset"
	"github.com/avelanarius/surveyscope/internal/question"
)

// Entry is the frequency of a single answer token.
type Entry struct {
	Answer     string
	Count      int
	Percentage float64
}

// Distribution holds per-answer counts and percentages for one question.
// Entries are kept in first-encounter order so renderers can break count
// ties deterministically.
type Distribution struct {
	Question string
	Kind     question.Kind
	Total    int
	Entries  []Entry
}

// Compute builds a fresh distribution of the question's answers over the
// given view. The denominator is the view's row count, not the number of
// rows that answered: missing cells contribute no token but still count
// toward the total, so percentages are shares of all current respondents.
// For multi-answer questions each token of a packed cell is counted, so
// percentages may sum past 100.
func Compute(view dataset.View, q, delim string) (Distribution, error) {
	multi, err := question.IsMultiAnswer(view, q, delim)
	if err != nil {
		return Distribution{}, err
	}

	dist := Distribution{Question: q, Kind: question.SingleAnswer, Total: view.Len()}
	if multi {
		dist.Kind = question.MultiAnswer
	}

	index := make(map[string]int)
	record := func(token string) {
		if i, ok := index[token]; ok {
			dist.Entries[i].Count++
			return
		}
		index[token] = len(dist.Entries)
		dist.Entries = append(dist.Entries, Entry{Answer: token, Count: 1})
	}

	for i := 0; i < view.Len(); i++ {
		value, ok := view.Cell(i, q)
		if !ok {
			continue
		}
		if multi {
			for _, token := range answer.Split(value, delim) {
				record(token)
			}
		} else {
			record(value)
		}
	}

	for i := range dist.Entries {
		dist.Entries[i].Percentage = percentage(dist.Entries[i].Count, dist.Total)
	}
	return dist, nil
}

// percentage rounds count/total*100 to two decimals; 0 when total is 0.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}

// SortedByCount returns the entries ordered by descending count, breaking
// ties by first-encounter order. The receiver is not modified.
func (d Distribution) SortedByCount() []Entry {
	sorted := append([]Entry(nil), d.Entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

// Responses returns the total number of counted answer tokens. For
// multi-answer questions this can exceed the respondent count.
func (d Distribution) Responses() int {
	total := 0
	for _, e := range d.Entries {
		total += e.Count
	}
	return total
}
