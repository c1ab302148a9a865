package dataset

import "fmt"

// UnknownQuestionError reports a question name that is not a column of the
// current view. Callers recover by re-listing valid questions.
type UnknownQuestionError struct {
	Question string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("question %q not found in dataset", e.Question)
}
