// Package controller holds the page state machines shared by every view:
// fetch state with stale-response fencing, submission state, delete
// confirmation and navigation messages.
package controller

// Phase is the state of a page's data or submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
	PhaseSubmitting
	PhaseSubmitFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitFailed:
		return "submit failed"
	default:
		return "unknown"
	}
}
