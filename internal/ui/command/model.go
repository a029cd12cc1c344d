package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/theme"
)

// Action is what a palette command does.
type Action int

const (
	ActionNavigate Action = iota
	ActionRefresh
	ActionLogout
	ActionQuit
)

// Command is a parsed palette command.
type Command struct {
	Action Action
	Route  controller.Route
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Command Command
}

var pages = map[string]controller.Page{
	"dashboard":        controller.PageDashboard,
	"home":             controller.PageDashboard,
	"installations":    controller.PageInstallations,
	"tests":            controller.PageTests,
	"tasks":            controller.PageTasks,
	"new installation": controller.PageInstallationCreate,
	"new test":         controller.PageTestCreate,
	"new task":         controller.PageTaskCreate,
}

var records = map[string]controller.Page{
	"installation": controller.PageInstallationDetail,
	"test":         controller.PageTestDetail,
	"task":         controller.PageTaskDetail,
}

// Parse resolves a palette command. Matching is case-insensitive apart
// from record IDs.
func Parse(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	lower := strings.ToLower(strings.Join(fields, " "))

	switch lower {
	case "refresh", "reload":
		return Command{Action: ActionRefresh}, nil
	case "logout":
		return Command{Action: ActionLogout}, nil
	case "quit", "q":
		return Command{Action: ActionQuit}, nil
	}

	if page, ok := pages[lower]; ok {
		return Command{Action: ActionNavigate, Route: controller.Route{Page: page}}, nil
	}

	if len(fields) == 3 && strings.EqualFold(fields[0], "open") {
		if page, ok := records[strings.ToLower(fields[1])]; ok {
			return Command{Action: ActionNavigate, Route: controller.Route{Page: page, ID: fields[2]}}, nil
		}
	}

	return Command{}, fmt.Errorf("unknown command %q", input)
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    string
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		input := strings.TrimSpace(m.input.Value())
		if input == "" {
			return m, nil
		}
		cmd, err := Parse(input)
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.input.Reset()
		return m, func() tea.Msg {
			return CommandMsg{Command: cmd}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	rows := []string{titleStyle.Render("Command Palette"), m.input.View()}
	if m.err != "" {
		rows = append(rows, theme.ErrorStyle.Render(m.err))
	}

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.err = ""
	m.input.Reset()
	return m.input.Focus()
}

// Blur releases keyboard focus.
func (m *Model) Blur() {
	m.input.Blur()
}
