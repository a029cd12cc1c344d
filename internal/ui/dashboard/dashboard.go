// Package dashboard is the landing page: totals across installations,
// tests and tasks, and the most recent tests.
package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/reconcile"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/ui/safetytests"
	"github.com/nhle/inspection/internal/ui/tasks"
)

// recentTests is how many tests the dashboard lists.
const recentTests = 10

// Summary is everything the dashboard shows.
type Summary struct {
	Installations int
	Tests         int
	TestCounts    map[string]int
	TaskCounts    map[string]int
	Recent        []model.Test
}

// Fetch loads the three collections in parallel and summarizes them.
func Fetch(ctx context.Context, client *api.Client) (Summary, error) {
	var (
		installations []model.Installation
		tests         []model.Test
		taskList      []model.Task
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		installations, err = client.ListInstallations(ctx, api.ListOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		tests, err = client.ListTests(ctx, api.ListOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		taskList, err = client.ListTasks(ctx, api.TaskListOptions{})
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return Summary{
		Installations: len(installations),
		Tests:         len(tests),
		TestCounts:    reconcile.Counts(reconcile.TestSpec, tests),
		TaskCounts:    reconcile.Counts(reconcile.TaskSpec, taskList),
		Recent:        reconcile.Recent(tests, recentTests),
	}, nil
}

// Page is the dashboard.
type Page struct {
	ui.Size
	env    *ui.Env
	data   *controller.Resource[Summary]
	cursor int
}

// New returns the dashboard page.
func New(env *ui.Env) *Page {
	return &Page{env: env, data: controller.NewResource[Summary]()}
}

// Init loads the summary.
func (p *Page) Init() tea.Cmd {
	client := p.env.Client
	return p.data.Load("", func(ctx context.Context) (Summary, error) {
		return Fetch(ctx, client)
	})
}

// Update handles messages for the dashboard.
func (p *Page) Update(msg tea.Msg) (ui.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.LoadedMsg[Summary]:
		if !p.data.Apply(msg) {
			return p, nil
		}
		p.cursor = min(p.cursor, max(len(p.data.Data().Recent)-1, 0))
		return p, controller.CheckAuth(msg.Err)

	case tea.KeyMsg:
		k := p.env.Keys
		recent := p.data.Data().Recent
		switch {
		case key.Matches(msg, k.Refresh):
			return p, p.Init()
		case key.Matches(msg, k.Down):
			p.cursor = min(p.cursor+1, max(len(recent)-1, 0))
		case key.Matches(msg, k.Up):
			p.cursor = max(p.cursor-1, 0)
		case key.Matches(msg, k.Select):
			if p.cursor < len(recent) {
				return p, controller.Navigate(controller.Route{
					Page: controller.PageTestDetail,
					ID:   strconv.FormatInt(recent[p.cursor].ID, 10),
				})
			}
		}
	}
	return p, nil
}

func card(title string, value int, body string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.DimmedStyle.Render(title),
		theme.TitleStyle.Render(strconv.Itoa(value)),
		body,
	)
	return theme.BorderStyle.Padding(0, 2).Render(content)
}

// View renders the dashboard.
func (p *Page) View() string {
	if p.data.Data().TestCounts == nil {
		if s, ok := ui.LoadState(p.data, p.Width, p.Height, "dashboard"); ok {
			return s
		}
	}
	s := p.data.Data()

	openTasks := s.TaskCounts[string(model.TaskStatusPlanned)] + s.TaskCounts[string(model.TaskStatusInProgress)]
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Installations", s.Installations, ""),
		card("Tests", s.Tests, safetytests.Summary(s.TestCounts)),
		card("Open tasks", openTasks, tasks.Summary(s.TaskCounts)),
	)

	sections := []string{theme.TitleStyle.Render("Overview")}
	if p.data.Phase() == controller.PhaseFailed {
		sections = append(sections, theme.ErrorStyle.Render(p.data.ErrorMessage()))
	}
	sections = append(sections, cards, "", theme.TitleStyle.Render(fmt.Sprintf("Latest %d tests", len(s.Recent))))

	if len(s.Recent) == 0 {
		sections = append(sections, theme.DimmedStyle.Render("No tests recorded yet"))
	} else {
		rows := make([][]string, len(s.Recent))
		for i, t := range s.Recent {
			rows[i] = safetytests.Row(t)
		}
		sections = append(sections, ui.RenderTable(safetytests.Headers, rows, p.cursor, p.Width-2))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Title returns the header title.
func (p *Page) Title() string { return "Dashboard" }

// Hints returns the status bar hints.
func (p *Page) Hints() string {
	return "enter open test | r reload | 2 installations | 3 tests | 4 tasks | ? help | q quit"
}

// Capturing reports false.
func (p *Page) Capturing() bool { return false }
