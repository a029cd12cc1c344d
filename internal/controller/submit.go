package controller

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inspection/internal/api"
)

// SubmittedMsg carries the outcome of a create or update call.
type SubmittedMsg[T any] struct {
	Data T
	Err  error
}

// Submission is the submit state of a form page. A failed submit returns
// to an editable state with an error; the page's draft is never touched.
type Submission struct {
	phase Phase
	err   string
}

// Begin moves to Submitting. It returns false if a submit is already in
// flight.
func (s *Submission) Begin() bool {
	if s.phase == PhaseSubmitting {
		return false
	}
	s.phase = PhaseSubmitting
	s.err = ""
	return true
}

// Succeed returns to Ready.
func (s *Submission) Succeed() {
	s.phase = PhaseReady
	s.err = ""
}

// Fail records err for inline display.
func (s *Submission) Fail(err error) {
	s.phase = PhaseSubmitFailed
	s.err = api.UserMessage(err)
}

// FailMessage records a failure found before any request was sent, such
// as input that could not be converted. msg is shown as is.
func (s *Submission) FailMessage(msg string) {
	s.phase = PhaseSubmitFailed
	s.err = msg
}

// Phase returns the submit state.
func (s *Submission) Phase() Phase { return s.phase }

// Submitting reports whether a submit is in flight.
func (s *Submission) Submitting() bool { return s.phase == PhaseSubmitting }

// Error returns the message of the last failed submit.
func (s *Submission) Error() string { return s.err }

// Submit runs call and reports the result as a SubmittedMsg.
func Submit[T any](call func(context.Context) (T, error)) tea.Cmd {
	return func() tea.Msg {
		data, err := call(context.Background())
		return SubmittedMsg[T]{Data: data, Err: err}
	}
}
