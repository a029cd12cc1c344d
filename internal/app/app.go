package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/ui/command"
	"github.com/nhle/inspection/internal/ui/dashboard"
	helpview "github.com/nhle/inspection/internal/ui/help"
	"github.com/nhle/inspection/internal/ui/installations"
	"github.com/nhle/inspection/internal/ui/login"
	"github.com/nhle/inspection/internal/ui/safetytests"
	"github.com/nhle/inspection/internal/ui/tasks"
)

// Overlay is drawn over the current page.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayCommand
)

// listPage is a list screen kept alive across navigation so that its
// snapshot can be shown while it refreshes.
type listPage interface {
	ui.Page
	Remove(id string)
}

// Model is the root Bubble Tea model: it owns the layout, routes between
// pages and reacts to the session ending.
type Model struct {
	env         *ui.Env
	layout      ui.Layout
	ready       bool
	route       controller.Route
	page        ui.Page
	lists       map[controller.Page]listPage
	overlay     Overlay
	helpView    helpview.Model
	commandView command.Model
	notice      string
}

// New creates the root model. It starts on the dashboard when a session
// was restored and on the login page otherwise.
func New(env *ui.Env) Model {
	m := Model{
		env:         env,
		layout:      ui.NewLayout(80, 24),
		helpView:    helpview.New(env.Keys, 80, 24),
		commandView: command.New(80, 24),
	}
	m.resetLists()

	start := controller.Route{Page: controller.PageDashboard}
	if !env.Session.IsAuthenticated() {
		start = controller.Route{Page: controller.PageLogin}
	}
	m.route = start
	m.page = m.build(start)
	return m
}

func (m *Model) resetLists() {
	m.lists = map[controller.Page]listPage{
		controller.PageInstallations: installations.NewList(m.env),
		controller.PageTests:         safetytests.NewList(m.env),
		controller.PageTasks:         tasks.NewList(m.env),
	}
}

// Route returns the current route.
func (m Model) Route() controller.Route { return m.route }

// Page returns the current page.
func (m Model) Page() ui.Page { return m.page }

// Init starts the first page.
func (m Model) Init() tea.Cmd {
	return m.page.Init()
}

// build constructs the page for r. List pages come from the kept set.
func (m *Model) build(r controller.Route) ui.Page {
	if lp, ok := m.lists[r.Page]; ok {
		return lp
	}

	env := m.env
	switch r.Page {
	case controller.PageLogin:
		return login.New(env, m.notice)
	case controller.PageInstallationDetail:
		return installations.NewDetail(env, r.ID)
	case controller.PageInstallationCreate:
		return installations.NewCreateForm(env)
	case controller.PageInstallationEdit:
		return installations.NewEditForm(env, r.ID)
	case controller.PageTestDetail:
		return safetytests.NewDetail(env, r.ID)
	case controller.PageTestCreate:
		return safetytests.NewCreateForm(env, r.ID)
	case controller.PageTestEdit:
		return safetytests.NewEditForm(env, r.ID)
	case controller.PageTaskDetail:
		return tasks.NewDetail(env, r.ID)
	case controller.PageTaskCreate:
		return tasks.NewCreateForm(env, r.ID)
	case controller.PageTaskEdit:
		return tasks.NewEditForm(env, r.ID)
	default:
		return dashboard.New(env)
	}
}

// navigate switches to r. Pages other than login require a session.
func (m Model) navigate(r controller.Route, deleted string) (Model, tea.Cmd) {
	if r.Page != controller.PageLogin && !m.env.Session.IsAuthenticated() {
		r = controller.Route{Page: controller.PageLogin}
	}
	if r.Page != controller.PageLogin {
		m.notice = ""
	}

	m.overlay = OverlayNone
	m.route = r
	m.page = m.build(r)
	if lp, ok := m.page.(listPage); ok && deleted != "" {
		lp.Remove(deleted)
	}
	m.page.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
	m.env.Logger.Debug("navigate", zap.Int("page", int(r.Page)), zap.String("id", r.ID))
	return m, m.page.Init()
}

// endSession drops the token and every cached snapshot, then shows the
// login page with notice.
func (m Model) endSession(notice string) (Model, tea.Cmd) {
	m.env.Session.Clear()
	m.resetLists()
	m.notice = notice
	return m.navigate(controller.Route{Page: controller.PageLogin}, "")
}

// Update handles messages and dispatches to the active page.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.page.SetSize(w, h)
		for _, lp := range m.lists {
			lp.SetSize(w, h)
		}
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m.updatePage(msg)

	case controller.NavigateMsg:
		return m.navigate(msg.Route, msg.Deleted)

	case controller.AuthExpiredMsg:
		m.env.Logger.Info("session rejected by API")
		return m.endSession(msg.Message)

	case command.CommandMsg:
		m.overlay = OverlayNone
		m.commandView.Blur()
		return m.execute(msg.Command)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updatePage(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.env.Keys

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.overlay {
	case OverlayHelp:
		if key.Matches(msg, k.Back, k.Help, k.Quit) {
			m.overlay = OverlayNone
		}
		return m, nil
	case OverlayCommand:
		if key.Matches(msg, k.Back) {
			m.overlay = OverlayNone
			m.commandView.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	}

	if m.page.Capturing() || m.route.Page == controller.PageLogin {
		return m.updatePage(msg)
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.overlay = OverlayHelp
		return m, nil
	case key.Matches(msg, k.Command):
		m.overlay = OverlayCommand
		return m, m.commandView.Focus()
	case key.Matches(msg, k.Dashboard):
		return m.navigate(controller.Route{Page: controller.PageDashboard}, "")
	case key.Matches(msg, k.Installations):
		return m.navigate(controller.Route{Page: controller.PageInstallations}, "")
	case key.Matches(msg, k.Tests):
		return m.navigate(controller.Route{Page: controller.PageTests}, "")
	case key.Matches(msg, k.Tasks):
		return m.navigate(controller.Route{Page: controller.PageTasks}, "")
	}

	return m.updatePage(msg)
}

// updatePage forwards msg to the active page. Kept list pages that are not
// showing also receive non-key messages so a refresh started earlier can
// still land.
func (m Model) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	cmds = append(cmds, cmd)

	if _, isKey := msg.(tea.KeyMsg); !isKey {
		for page, lp := range m.lists {
			if page == m.route.Page {
				continue
			}
			_, cmd := lp.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// execute runs a palette command.
func (m Model) execute(c command.Command) (tea.Model, tea.Cmd) {
	switch c.Action {
	case command.ActionQuit:
		return m, tea.Quit
	case command.ActionLogout:
		m.env.Logger.Info("logged out")
		return m.endSession("Logged out")
	case command.ActionRefresh:
		return m, m.page.Init()
	default:
		return m.navigate(c.Route, "")
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Inspection · "+m.page.Title(), m.env.Session.Subject())

	var content, hints string
	switch m.overlay {
	case OverlayHelp:
		content = m.helpView.View()
		hints = "? close help | esc back"
	case OverlayCommand:
		content = m.commandView.View()
		hints = "enter execute | esc back"
	default:
		content = m.page.View()
		hints = m.page.Hints()
	}

	return m.layout.RenderWithFrame(header, content, m.layout.RenderStatusBar(hints))
}
