package controller

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inspection/internal/api"
)

// DeletedMsg carries the outcome of a delete call.
type DeletedMsg struct {
	Key string
	Err error
}

// DeleteConfirm is the confirmation dialog for a delete. While the delete
// is in flight it cannot be dismissed or submitted again.
type DeleteConfirm struct {
	open     bool
	deleting bool
	err      string
}

// Open shows the dialog.
func (d *DeleteConfirm) Open() {
	d.open = true
	d.err = ""
}

// Dismiss hides the dialog unless a delete is in flight.
func (d *DeleteConfirm) Dismiss() bool {
	if d.deleting {
		return false
	}
	d.open = false
	d.err = ""
	return true
}

// Begin marks the delete as in flight. It returns false if the dialog is
// closed or a delete is already running.
func (d *DeleteConfirm) Begin() bool {
	if !d.open || d.deleting {
		return false
	}
	d.deleting = true
	d.err = ""
	return true
}

// Done closes the dialog after a successful delete.
func (d *DeleteConfirm) Done() {
	d.deleting = false
	d.open = false
}

// Fail keeps the dialog open with an error.
func (d *DeleteConfirm) Fail(err error) {
	d.deleting = false
	d.err = api.UserMessage(err)
}

// IsOpen reports whether the dialog is shown.
func (d *DeleteConfirm) IsOpen() bool { return d.open }

// Deleting reports whether a delete is in flight.
func (d *DeleteConfirm) Deleting() bool { return d.deleting }

// Error returns the message of the last failed delete.
func (d *DeleteConfirm) Error() string { return d.err }

// Delete runs call and reports the result as a DeletedMsg.
func Delete(key string, call func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{Key: key, Err: call(context.Background())}
	}
}
