package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inspection/internal/api"
)

// Page identifies a screen.
type Page int

const (
	PageLogin Page = iota
	PageDashboard
	PageInstallations
	PageInstallationDetail
	PageInstallationCreate
	PageInstallationEdit
	PageTests
	PageTestDetail
	PageTestCreate
	PageTestEdit
	PageTasks
	PageTaskDetail
	PageTaskCreate
	PageTaskEdit
)

// Route is a page plus the identifier it shows, if any. For PageTestCreate
// the ID is the installation to record the test against.
type Route struct {
	Page Page
	ID   string
}

// NavigateMsg asks the root model to switch pages. Deleted names an entity
// that was just deleted so list snapshots can drop it.
type NavigateMsg struct {
	Route   Route
	Deleted string
}

// Navigate returns a command that emits a NavigateMsg.
func Navigate(r Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: r} }
}

// NavigateAfterDelete returns a command that moves to r and reports id as
// deleted.
func NavigateAfterDelete(r Route, id string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: r, Deleted: id} }
}

// AuthExpiredMsg tells the root model the API rejected the session.
type AuthExpiredMsg struct {
	Message string
}

// CheckAuth returns a command emitting AuthExpiredMsg when err is an
// authentication failure, and nil otherwise.
func CheckAuth(err error) tea.Cmd {
	if !api.IsAuthError(err) {
		return nil
	}
	msg := api.UserMessage(err)
	return func() tea.Msg { return AuthExpiredMsg{Message: msg} }
}
