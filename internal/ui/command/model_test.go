package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inspection/internal/controller"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"tasks", Command{Action: ActionNavigate, Route: controller.Route{Page: controller.PageTasks}}},
		{"  New   Installation ", Command{Action: ActionNavigate, Route: controller.Route{Page: controller.PageInstallationCreate}}},
		{"open installation INST-001", Command{Action: ActionNavigate, Route: controller.Route{Page: controller.PageInstallationDetail, ID: "INST-001"}}},
		{"open test 42", Command{Action: ActionNavigate, Route: controller.Route{Page: controller.PageTestDetail, ID: "42"}}},
		{"logout", Command{Action: ActionLogout}},
		{"q", Command{Action: ActionQuit}},
		{"reload", Command{Action: ActionRefresh}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, input := range []string{"", "open", "open widget 1", "sync"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func TestModel_EmitsCommand(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	for _, r := range "tests" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(CommandMsg)
	require.True(t, ok)
	assert.Equal(t, controller.PageTests, msg.Command.Route.Page)
	assert.Empty(t, m.input.Value())
}

func TestModel_ShowsParseError(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	for _, r := range "sync" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), `unknown command "sync"`)
}
