package report

import (
	"fmt"
	"io"

	"github.com/avelanarius/surveyscope/internal/dataset"
	"github.com/avelanarius/surveyscope/internal/distribution"
	"github.com/avelanarius/surveyscope/internal/question"
	"github.com/avelanarius/surveyscope/internal/session"
)

// Renderer writes plain-text views of survey data. The zero value uses
// terminal-derived defaults.
type Renderer struct {
	// BarWidth is the maximum bar length in characters; 0 means derive
	// from the terminal width.
	BarWidth int
	// TopN limits summary tables to the N most frequent answers; 0 means all.
	TopN int
	// Delimiter separates packed multi-select answers.
	Delimiter string
}

// SummaryTable renders the top answers of a distribution as an aligned
// fixed-width table.
func (r Renderer) SummaryTable(w io.Writer, dist distribution.Distribution) error {
	if len(dist.Entries) == 0 {
		_, err := fmt.Fprintf(w, "No data available for question: %s\n", dist.Question)
		return err
	}
	entries := dist.SortedByCount()
	if r.TopN > 0 && len(entries) > r.TopN {
		entries = entries[:r.TopN]
	}

	if _, err := fmt.Fprintf(w, "\nTop %d answers for: %s\n", len(entries), dist.Question); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, separatorFor(dist.Question, 30)); err != nil {
		return err
	}

	headers := []string{"Option", "Count", "Percentage"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			truncateLabel(e.Answer),
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%.1f%%", e.Percentage),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// DistributionFooter prints response totals under a chart or table.
func (r Renderer) DistributionFooter(w io.Writer, dist distribution.Distribution) error {
	if _, err := fmt.Fprintf(w, "Total responses: %d\n", dist.Responses()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Unique answers: %d\n", len(dist.Entries))
	return err
}

// QuestionList prints all questions in file order, marking multi-answer
// questions with "(MC)".
func (r Renderer) QuestionList(w io.Writer, view dataset.View) error {
	columns := view.Columns()
	if _, err := fmt.Fprintf(w, "\nAvailable questions (%d):\n", len(columns)); err != nil {
		return err
	}
	return r.numberedQuestions(w, view, columns)
}

// SearchResults prints questions matching a keyword, or a no-match notice.
func (r Renderer) SearchResults(w io.Writer, view dataset.View, keyword string, matches []string) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintf(w, "No questions found matching %q\n", keyword)
		return err
	}
	if _, err := fmt.Fprintf(w, "\nFound %d question(s) matching %q:\n", len(matches), keyword); err != nil {
		return err
	}
	return r.numberedQuestions(w, view, matches)
}

func (r Renderer) numberedQuestions(w io.Writer, view dataset.View, names []string) error {
	for i, name := range names {
		marker := ""
		if multi, err := question.IsMultiAnswer(view, name, r.Delimiter); err == nil && multi {
			marker = " (MC)"
		}
		if _, err := fmt.Fprintf(w, "%3d. %s%s\n", i+1, name, marker); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// OptionList prints the distinct answer options for a question.
func (r Renderer) OptionList(w io.Writer, q string, options []string, multi bool) error {
	marker := ""
	if multi {
		marker = " (Multiple Choice)"
	}
	if _, err := fmt.Fprintf(w, "\nUnique options for: %s%s\n", q, marker); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, separatorFor(q, 20)); err != nil {
		return err
	}
	for i, option := range options {
		if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, option); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal unique options: %d\n", len(options))
	return err
}

// StatusSummary prints the session state: source, counts, active filters.
func (r Renderer) StatusSummary(w io.Writer, summary session.Summary) error {
	if _, err := fmt.Fprintln(w, "\n=== Survey Exploration Status ==="); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Loaded file: %s\n", summary.SourcePath); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total respondents: %d\n", summary.Respondents); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total questions: %d\n", summary.Questions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Active filters: %d\n", len(summary.ActiveFilters)); err != nil {
		return err
	}
	for _, clause := range summary.ActiveFilters {
		if _, err := fmt.Fprintf(w, "  - %s = %s\n", clause.Question, clause.Option); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
