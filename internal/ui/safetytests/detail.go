package safetytests

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/ui"
)

// detail is a test plus the installation it was recorded against.
type detail struct {
	Test         model.Test
	Installation *model.Installation
}

// Detail shows one test.
type Detail struct {
	ui.Size
	env     *ui.Env
	id      string
	data    *controller.Resource[detail]
	confirm *controller.DeleteConfirm
}

// NewDetail returns the detail page for test id.
func NewDetail(env *ui.Env, id string) *Detail {
	return &Detail{
		env:     env,
		id:      id,
		data:    controller.NewResource[detail](),
		confirm: &controller.DeleteConfirm{},
	}
}

// parseID converts a route ID to a test ID.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid test id %q: %w", id, err)
	}
	return n, nil
}

// Init fetches the test, then looks up its installation. A failed lookup
// only hides the customer line.
func (p *Detail) Init() tea.Cmd {
	client, logger, id := p.env.Client, p.env.Logger, p.id
	return p.data.Load(id, func(ctx context.Context) (detail, error) {
		n, err := parseID(id)
		if err != nil {
			return detail{}, err
		}
		t, err := client.GetTest(ctx, n)
		if err != nil {
			return detail{}, err
		}
		d := detail{Test: t}
		inst, err := client.GetInstallation(ctx, t.InstallationID)
		if err != nil {
			logger.Debug("installation lookup failed")
			return d, nil
		}
		d.Installation = &inst
		return d, nil
	})
}

// Update handles messages for the detail page.
func (p *Detail) Update(msg tea.Msg) (ui.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.LoadedMsg[detail]:
		if !p.data.Apply(msg) {
			return p, nil
		}
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
		return p, controller.NavigateAfterDelete(controller.Route{Page: controller.PageTests}, p.id)

	case tea.KeyMsg:
		k := p.env.Keys
		if p.confirm.IsOpen() {
			switch {
			case key.Matches(msg, k.Confirm):
				if !p.confirm.Begin() {
					return p, nil
				}
				client, testID := p.env.Client, p.data.Data().Test.ID
				return p, controller.Delete(p.id, func(ctx context.Context) error {
					return client.DeleteTest(ctx, testID)
				})
			case key.Matches(msg, k.Back):
				p.confirm.Dismiss()
			}
			return p, nil
		}

		switch {
		case key.Matches(msg, k.Back):
			return p, controller.Navigate(controller.Route{Page: controller.PageTests})
		case key.Matches(msg, k.Refresh):
			return p, p.Init()
		case key.Matches(msg, k.Edit) && p.data.Ready():
			return p, controller.Navigate(controller.Route{Page: controller.PageTestEdit, ID: p.id})
		case key.Matches(msg, k.Delete) && p.data.Ready():
			p.confirm.Open()
		case key.Matches(msg, k.Select) && p.data.Ready():
			return p, controller.Navigate(controller.Route{
				Page: controller.PageInstallationDetail,
				ID:   p.data.Data().Test.InstallationID,
			})
		}
	}
	return p, nil
}

// View renders the detail page.
func (p *Detail) View() string {
	if s, ok := ui.LoadState(p.data, p.Width, p.Height, "test"); ok {
		return s
	}

	d := p.data.Data()
	t := d.Test

	customer := ""
	if d.Installation != nil {
		customer = d.Installation.CustomerName + ", " + d.Installation.Address
	}

	sections := []string{
		theme.TitleStyle.Render(fmt.Sprintf("%s #%d", t.TestType, t.ID)),
		ui.Field("Status", theme.TestStatusStyle(t.Status).Render(t.Status.Label())),
		ui.Field("Value", fmt.Sprintf("%g %s", t.Value, t.Unit)),
		ui.Field("Installation", t.InstallationID),
		ui.Field("Customer", customer),
		ui.Field("Time", model.FormatDateTime(t.Timestamp)),
		ui.Field("Technician", t.Technician),
		ui.Field("Image", t.ImagePath),
		"",
		theme.DimmedStyle.Render(t.TestType.Hint()),
		"",
		ui.Separator(p.Width),
		theme.TitleStyle.Render("Notes"),
	}
	if t.Notes == "" {
		sections = append(sections, theme.DimmedStyle.Render("No notes"))
	} else {
		sections = append(sections, t.Notes)
	}

	if p.confirm.IsOpen() {
		sections = append(sections, "", ui.ConfirmDelete(p.confirm,
			fmt.Sprintf("Delete test #%d?", t.ID), "", p.Width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Title returns the header title.
func (p *Detail) Title() string { return "Test " + p.id }

// Hints returns the status bar hints.
func (p *Detail) Hints() string {
	if p.confirm.IsOpen() {
		return "y delete | esc cancel"
	}
	return "esc back | enter installation | e edit | d delete | r reload"
}

// Capturing reports false; the page has no text inputs.
func (p *Detail) Capturing() bool { return false }
