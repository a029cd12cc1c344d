package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/inspection/internal/theme"
)

var (
	headerCell   = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Padding(0, 1)
	cell         = lipgloss.NewStyle().Foreground(theme.ColorWhite).Padding(0, 1)
	selectedCell = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Background(theme.ColorSubtle).Padding(0, 1)
)

// RenderTable renders rows under headers, highlighting the selected row.
// A negative selected highlights nothing.
func RenderTable(headers []string, rows [][]string, selected, width int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case row == selected:
				return selectedCell
			default:
				return cell
			}
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
