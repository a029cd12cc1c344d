package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/theme"
)

// Centered renders msg in the middle of a width x height box.
func Centered(width, height int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(msg)
}

// LoadState renders the placeholder for a resource that is not ready, and
// reports whether it did.
func LoadState[T any](r *controller.Resource[T], width, height int, what string) (string, bool) {
	switch r.Phase() {
	case controller.PhaseIdle, controller.PhaseLoading:
		return Centered(width, height, fmt.Sprintf("Loading %s...", what)), true
	case controller.PhaseFailed:
		return Centered(width, height, theme.ErrorStyle.Render(r.ErrorMessage())+"\n\n"+
			theme.DimmedStyle.Render("r reload")), true
	}
	return "", false
}

// Field renders one label/value line of a detail view.
func Field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return theme.LabelStyle.Render(label) + theme.ValueStyle.Render(value)
}

// ConfirmDelete renders the delete confirmation dialog.
func ConfirmDelete(d *controller.DeleteConfirm, question, warning string, width int) string {
	var lines []string
	lines = append(lines, theme.TitleStyle.Render(question))
	if warning != "" {
		lines = append(lines, theme.WarningStyle.Render(warning), "")
	}
	switch {
	case d.Deleting():
		lines = append(lines, theme.DimmedStyle.Render("Deleting..."))
	default:
		if msg := d.Error(); msg != "" {
			lines = append(lines, theme.ErrorStyle.Render(msg), "")
		}
		lines = append(lines, theme.HelpStyle.Render("y delete | esc cancel"))
	}
	return theme.BorderStyle.
		Width(min(width-4, 70)).
		Padding(1, 2).
		BorderForeground(theme.ColorRed).
		Render(strings.Join(lines, "\n"))
}

// Separator renders a horizontal rule.
func Separator(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(width-4, 80), 0)))
}

// Counts renders "label n" pairs for a status summary.
func Counts(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s %s", theme.DimmedStyle.Render(pairs[i]), pairs[i+1]))
	}
	return strings.Join(parts, "   ")
}
