package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inspection/internal/keys"
	"github.com/nhle/inspection/internal/theme"
)

// commands lists the palette commands shown under the key bindings.
var commands = [][2]string{
	{"dashboard | installations | tests | tasks", "go to a page"},
	{"new installation | new test | new task", "open a create form"},
	{"open installation ID | open task ID | open test ID", "jump to a record"},
	{"refresh", "reload the current page"},
	{"logout", "end the session"},
	{"quit", "exit"},
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 4
	m.help.ShowAll = true

	rows := []string{titleStyle.Render("Keyboard Shortcuts"), m.help.View(m.keys), ""}
	rows = append(rows, titleStyle.Render("Commands (:)"))
	for _, c := range commands {
		rows = append(rows, theme.LabelStyle.Width(52).Render(c[0])+theme.DimmedStyle.Render(c[1]))
	}

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
