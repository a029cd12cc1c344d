package installations

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/ui"
)

// cascadeWarning is shown before deleting an installation.
const cascadeWarning = "All tests recorded for this installation will be deleted as well. This cannot be undone."

// detail is an installation together with its tests.
type detail struct {
	Installation model.Installation
	Tests        []model.Test
}

// Detail shows one installation and its tests.
type Detail struct {
	ui.Size
	env      *ui.Env
	id       string
	data     *controller.Resource[detail]
	confirm  *controller.DeleteConfirm
	viewport viewport.Model
}

// NewDetail returns the detail page for installation id.
func NewDetail(env *ui.Env, id string) *Detail {
	return &Detail{
		env:      env,
		id:       id,
		data:     controller.NewResource[detail](),
		confirm:  &controller.DeleteConfirm{},
		viewport: viewport.New(80, 20),
	}
}

// Init fetches the installation and its tests in parallel.
func (p *Detail) Init() tea.Cmd {
	client, id := p.env.Client, p.id
	return p.data.Load(id, func(ctx context.Context) (detail, error) {
		var d detail
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			inst, err := client.GetInstallation(ctx, id)
			d.Installation = inst
			return err
		})
		g.Go(func() error {
			tests, err := client.TestsByInstallation(ctx, id, api.ListOptions{})
			d.Tests = tests
			return err
		})
		return d, g.Wait()
	})
}

// Update handles messages for the detail page.
func (p *Detail) Update(msg tea.Msg) (ui.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.LoadedMsg[detail]:
		if !p.data.Apply(msg) {
			return p, nil
		}
		p.viewport.SetContent(p.renderContent())
		p.viewport.GotoTop()
		return p, controller.CheckAuth(msg.Err)

	case controller.DeletedMsg:
		if msg.Key != p.id {
			return p, nil
		}
		if msg.Err != nil {
			p.confirm.Fail(msg.Err)
			return p, controller.CheckAuth(msg.Err)
		}
		p.confirm.Done()
		return p, controller.NavigateAfterDelete(controller.Route{Page: controller.PageInstallations}, p.id)

	case tea.KeyMsg:
		if p.confirm.IsOpen() {
			return p.handleConfirmKeys(msg)
		}
		return p.handleKeys(msg)
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *Detail) handleConfirmKeys(msg tea.KeyMsg) (ui.Page, tea.Cmd) {
	k := p.env.Keys
	switch {
	case key.Matches(msg, k.Confirm):
		if !p.confirm.Begin() {
			return p, nil
		}
		client, id := p.env.Client, p.id
		return p, controller.Delete(id, func(ctx context.Context) error {
			return client.DeleteInstallation(ctx, id)
		})
	case key.Matches(msg, k.Back):
		p.confirm.Dismiss()
	}
	return p, nil
}

func (p *Detail) handleKeys(msg tea.KeyMsg) (ui.Page, tea.Cmd) {
	k := p.env.Keys
	switch {
	case key.Matches(msg, k.Back):
		return p, controller.Navigate(controller.Route{Page: controller.PageInstallations})
	case key.Matches(msg, k.Refresh):
		return p, p.Init()
	}

	if !p.data.Ready() {
		return p, nil
	}

	switch {
	case key.Matches(msg, k.Edit):
		return p, controller.Navigate(controller.Route{Page: controller.PageInstallationEdit, ID: p.id})
	case key.Matches(msg, k.AddTest):
		return p, controller.Navigate(controller.Route{Page: controller.PageTestCreate, ID: p.id})
	case key.Matches(msg, k.Delete):
		p.confirm.Open()
		return p, nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the detail page.
func (p *Detail) View() string {
	if s, ok := ui.LoadState(p.data, p.Width, p.Height, "installation"); ok {
		return s
	}
	if p.confirm.IsOpen() {
		return lipgloss.JoinVertical(lipgloss.Left,
			p.viewport.View(),
			ui.ConfirmDelete(p.confirm,
				fmt.Sprintf("Delete installation %s?", p.id), cascadeWarning, p.Width))
	}
	return p.viewport.View()
}

func (p *Detail) renderContent() string {
	d := p.data.Data()
	inst := d.Installation

	sections := []string{
		theme.TitleStyle.Render(inst.CustomerName),
		ui.Field("ID", inst.ID),
		ui.Field("Address", inst.Address),
		ui.Field("Customer", inst.CustomerName),
		ui.Field("Installed", model.FormatDate(inst.InstallationDate)),
		ui.Field("Last inspection", model.FormatDate(inst.LastInspection)),
		"",
		ui.Separator(p.Width),
		"",
		theme.TitleStyle.Render(fmt.Sprintf("Tests (%d)", len(d.Tests))),
	}

	if len(d.Tests) == 0 {
		sections = append(sections, theme.DimmedStyle.Render("No tests recorded"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	rows := make([][]string, len(d.Tests))
	for i, t := range d.Tests {
		rows[i] = []string{
			strconv.FormatInt(t.ID, 10),
			string(t.TestType),
			fmt.Sprintf("%g %s", t.Value, t.Unit),
			theme.TestStatusStyle(t.Status).Render(t.Status.Label()),
			model.FormatDateTime(t.Timestamp),
		}
	}
	sections = append(sections, ui.RenderTable(
		[]string{"ID", "Type", "Value", "Status", "Time"}, rows, -1, p.Width-2))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the page dimensions.
func (p *Detail) SetSize(width, height int) {
	p.Size.SetSize(width, height)
	p.viewport.Width = width
	p.viewport.Height = max(height-2, 1)
	if p.data.Ready() {
		p.viewport.SetContent(p.renderContent())
	}
}

// Title returns the header title.
func (p *Detail) Title() string { return "Installation " + p.id }

// Hints returns the status bar hints.
func (p *Detail) Hints() string {
	if p.confirm.IsOpen() {
		return "y delete | esc cancel"
	}
	return "esc back | e edit | t add test | d delete | r reload | j/k scroll"
}

// Capturing reports false; the page has no text inputs.
func (p *Detail) Capturing() bool { return false }
