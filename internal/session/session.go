// Package session holds the cumulative filter state of one exploration.
package session

import (
	"errors"
	"sync"

	"github.com/avelanarius/surveyscope/internal/answer"
	"github.com/avelanarius/surveyscope/internal/dataset"
	"github.com/avelanarius/surveyscope/internal/question"
)

// ErrNoData is returned when an operation runs before a dataset is loaded.
var ErrNoData = errors.New("no data loaded")

// Clause is one active filter: a question and its required answer.
type Clause struct {
	Question string
	Option   string
}

// Summary describes the current state of a session.
type Summary struct {
	SourcePath    string
	Respondents   int
	Questions     int
	ActiveFilters []Clause
}

// Session owns the original (as-loaded) view and the current filtered
// view of one exploration. Filters compose by logical AND; each
// application narrows the already-narrowed view. All operations
// serialize behind one mutex since the tool is single-user interactive.
type Session struct {
	mu         sync.Mutex
	original   dataset.View
	current    dataset.View
	filters    []Clause
	delim      string
	sourcePath string
}

// New creates a session over a loaded view. The view becomes the
// immutable original; reset always restores it.
func New(view dataset.View, delim, sourcePath string) *Session {
	if delim == "" {
		delim = answer.DefaultDelimiter
	}
	return &Session{
		original:   view,
		current:    view,
		delim:      delim,
		sourcePath: sourcePath,
	}
}

// Delimiter returns the multi-answer delimiter in use.
func (s *Session) Delimiter() string { return s.delim }

// SourcePath returns the path the dataset was loaded from.
func (s *Session) SourcePath() string { return s.sourcePath }

// ApplyFilter narrows the current view to rows whose answer for the
// question matches option, and returns the remaining row count. For
// multi-answer questions a row matches when option is one of its packed
// tokens; for single-answer questions the cell must equal option exactly.
// Missing cells never match. The question's classification is evaluated
// against the current (already narrowed) view.
func (s *Session) ApplyFilter(q, option string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.IsZero() {
		return 0, ErrNoData
	}
	multi, err := question.IsMultiAnswer(s.current, q, s.delim)
	if err != nil {
		return 0, err
	}

	view := s.current
	if multi {
		s.current = view.Narrow(func(row int) bool {
			value, ok := view.Cell(row, q)
			return ok && answer.Contains(value, option, s.delim)
		})
	} else {
		s.current = view.Narrow(func(row int) bool {
			value, ok := view.Cell(row, q)
			return ok && value == option
		})
	}

	s.recordFilter(q, option)
	return s.current.Len(), nil
}

// recordFilter keeps at most one active option per question; re-applying
// a question overwrites its option but keeps its original position.
func (s *Session) recordFilter(q, option string) {
	for i := range s.filters {
		if s.filters[i].Question == q {
			s.filters[i].Option = option
			return
		}
	}
	s.filters = append(s.filters, Clause{Question: q, Option: option})
}

// Reset clears all filters and restores the current view to the original.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = nil
	s.current = s.original
}

// ActiveFilters returns an independent copy of the active filters in
// insertion order.
func (s *Session) ActiveFilters() []Clause {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Clause(nil), s.filters...)
}

// Current returns the current (possibly filtered) view.
func (s *Session) Current() dataset.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Original returns the as-loaded, unfiltered view.
func (s *Session) Original() dataset.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// Summary reports respondent and question counts plus active filters.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		SourcePath:    s.sourcePath,
		Respondents:   s.current.Len(),
		Questions:     len(s.current.Columns()),
		ActiveFilters: append([]Clause(nil), s.filters...),
	}
}
