package session

import (
	"errors"
	"testing"

	"github.com/avelanarius/surveyscope/internal/answer"
	"github.com/avelanarius/surveyscope/internal/dataset"
)

func newSurveySession(t *testing.T) *Session {
	t.Helper()
	table, err := dataset.NewTable(
		[]string{"Age", "Lang"},
		[][]string{
			{"18-24", "Python;JavaScript"},
			{"25-34", "Java;C++"},
			{"35-44", "Python"},
			{"25-34", "Python;JavaScript;Go"},
		},
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return New(table.View(), answer.DefaultDelimiter, "survey.xlsx")
}

func TestApplyFilterSingleAnswer(t *testing.T) {
	s := newSurveySession(t)
	remaining, err := s.ApplyFilter("Age", "25-34")
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 remaining respondents, got %d", remaining)
	}
}

func TestApplyFilterMultiAnswer(t *testing.T) {
	s := newSurveySession(t)
	remaining, err := s.ApplyFilter("Lang", "JavaScript")
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 respondents with JavaScript, got %d", remaining)
	}
	// "Java" must not match inside "JavaScript".
	s.Reset()
	remaining, err = s.ApplyFilter("Lang", "Java")
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("expected exact token match for Java, got %d rows", remaining)
	}
}

func TestApplyFilterIsCumulative(t *testing.T) {
	s := newSurveySession(t)
	counts := []int{}
	for _, clause := range []Clause{
		{Question: "Lang", Option: "Python"},
		{Question: "Age", Option: "25-34"},
	} {
		n, err := s.ApplyFilter(clause.Question, clause.Option)
		if err != nil {
			t.Fatalf("ApplyFilter failed: %v", err)
		}
		counts = append(counts, n)
	}
	if counts[0] != 3 || counts[1] != 1 {
		t.Fatalf("unexpected narrowing sequence: %v", counts)
	}
	// Row counts never increase across successive filters.
	prev := counts[0]
	for _, n := range counts[1:] {
		if n > prev {
			t.Fatalf("filtering must be monotonically non-increasing: %v", counts)
		}
		prev = n
	}
}

func TestApplyFilterUnknownQuestionLeavesViewIntact(t *testing.T) {
	s := newSurveySession(t)
	before := s.Current()
	_, err := s.ApplyFilter("UnknownQ", "x")
	var unknown *dataset.UnknownQuestionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownQuestionError, got %v", err)
	}
	if !s.Current().Equal(before) {
		t.Fatalf("current view must be unchanged after a failed filter")
	}
	if len(s.ActiveFilters()) != 0 {
		t.Fatalf("failed filter must not be recorded")
	}
}

func TestResetRestoresOriginal(t *testing.T) {
	s := newSurveySession(t)
	original := s.Original()
	if _, err := s.ApplyFilter("Age", "25-34"); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if _, err := s.ApplyFilter("Lang", "Go"); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	s.Reset()
	if !s.Current().Equal(original) {
		t.Fatalf("reset must restore the original view")
	}
	if len(s.ActiveFilters()) != 0 {
		t.Fatalf("reset must clear active filters")
	}
	// Reset is idempotent regardless of prior history.
	s.Reset()
	if !s.Current().Equal(original) {
		t.Fatalf("repeated reset must keep the original view")
	}
}

func TestReapplyingQuestionOverwritesInPlace(t *testing.T) {
	s := newSurveySession(t)
	if _, err := s.ApplyFilter("Age", "25-34"); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if _, err := s.ApplyFilter("Lang", "Python"); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if _, err := s.ApplyFilter("Age", "18-24"); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	filters := s.ActiveFilters()
	if len(filters) != 2 {
		t.Fatalf("expected one clause per question, got %v", filters)
	}
	if filters[0] != (Clause{Question: "Age", Option: "18-24"}) {
		t.Fatalf("expected Age clause to keep first position with new option, got %v", filters[0])
	}
	if filters[1] != (Clause{Question: "Lang", Option: "Python"}) {
		t.Fatalf("unexpected second clause: %v", filters[1])
	}
}

func TestActiveFiltersReturnsCopy(t *testing.T) {
	s := newSurveySession(t)
	if _, err := s.ApplyFilter("Age", "25-34"); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	filters := s.ActiveFilters()
	filters[0].Option = "mutated"
	if s.ActiveFilters()[0].Option != "25-34" {
		t.Fatalf("external mutation must not affect session state")
	}
}

func TestNoDataLoaded(t *testing.T) {
	s := New(dataset.View{}, answer.DefaultDelimiter, "")
	if _, err := s.ApplyFilter("Age", "25-34"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	s := newSurveySession(t)
	if _, err := s.ApplyFilter("Age", "25-34"); err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	summary := s.Summary()
	if summary.Respondents != 2 {
		t.Fatalf("expected 2 respondents, got %d", summary.Respondents)
	}
	if summary.Questions != 2 {
		t.Fatalf("expected 2 questions, got %d", summary.Questions)
	}
	if len(summary.ActiveFilters) != 1 || summary.SourcePath != "survey.xlsx" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
