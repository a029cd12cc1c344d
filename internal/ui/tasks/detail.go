package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/diff"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/ui"
)

type detail struct {
	Task         model.Task
	Installation *model.Installation
}

// Detail shows one task.
type Detail struct {
	ui.Size
	env      *ui.Env
	id       string
	data     *controller.Resource[detail]
	confirm  *controller.DeleteConfirm
	complete *controller.Submission
}

// NewDetail returns the detail page for task id.
func NewDetail(env *ui.Env, id string) *Detail {
	return &Detail{
		env:      env,
		id:       id,
		data:     controller.NewResource[detail](),
		confirm:  &controller.DeleteConfirm{},
		complete: &controller.Submission{},
	}
}

// Init fetches the task and, when it is linked, its installation.
func (p *Detail) Init() tea.Cmd {
	client, logger, id := p.env.Client, p.env.Logger, p.id
	return p.data.Load(id, func(ctx context.Context) (detail, error) {
		t, err := client.GetTask(ctx, id)
		if err != nil {
			return detail{}, err
		}
		d := detail{Task: t}
		if t.InstallationID == "" {
			return d, nil
		}
		inst, err := client.GetInstallation(ctx, t.InstallationID)
		if err != nil {
			logger.Debug("installation lookup failed", zap.String("installation_id", t.InstallationID))
			return d, nil
		}
		d.Installation = &inst
		return d, nil
	})
}

// markComplete moves the task to Completed, stamping the completion date.
func (p *Detail) markComplete() tea.Cmd {
	t := p.data.Data().Task
	if t.Status == model.TaskStatusCompleted || !p.complete.Begin() {
		return nil
	}
	draft := t.Draft()
	draft.Status = model.TaskStatusCompleted
	upd := diff.Task(t.Draft(), draft, p.env.Now())

	client := p.env.Client
	return controller.Submit(func(ctx context.Context) (model.Task, error) {
		return client.UpdateTask(ctx, t.ID, upd)
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

	case controller.SubmittedMsg[model.Task]:
		if msg.Err != nil {
			p.complete.Fail(msg.Err)
			return p, controller.CheckAuth(msg.Err)
		}
		p.complete.Succeed()
		d := p.data.Data()
		d.Task = msg.Data
		p.data.Set(d)
		return p, nil

	case controller.DeletedMsg:
		if msg.Key != p.id {
			return p, nil
		}
		if msg.Err != nil {
			p.confirm.Fail(msg.Err)
			return p, controller.CheckAuth(msg.Err)
		}
		p.confirm.Done()
		return p, controller.NavigateAfterDelete(controller.Route{Page: controller.PageTasks}, p.id)

	case tea.KeyMsg:
		k := p.env.Keys
		if p.confirm.IsOpen() {
			switch {
			case key.Matches(msg, k.Confirm):
				if !p.confirm.Begin() {
					return p, nil
				}
				client, id := p.env.Client, p.id
				return p, controller.Delete(id, func(ctx context.Context) error {
					return client.DeleteTask(ctx, id)
				})
			case key.Matches(msg, k.Back):
				p.confirm.Dismiss()
			}
			return p, nil
		}

		switch {
		case key.Matches(msg, k.Back):
			return p, controller.Navigate(controller.Route{Page: controller.PageTasks})
		case key.Matches(msg, k.Refresh):
			return p, p.Init()
		case !p.data.Ready():
			return p, nil
		case key.Matches(msg, k.Edit):
			return p, controller.Navigate(controller.Route{Page: controller.PageTaskEdit, ID: p.id})
		case key.Matches(msg, k.Delete):
			p.confirm.Open()
		case key.Matches(msg, k.Complete):
			return p, p.markComplete()
		case key.Matches(msg, k.Select):
			if inst := p.data.Data().Task.InstallationID; inst != "" {
				return p, controller.Navigate(controller.Route{Page: controller.PageInstallationDetail, ID: inst})
			}
		}
	}
	return p, nil
}

func hours(h *float64) string {
	if h == nil {
		return ""
	}
	return ui.FormatNumber(h) + " h"
}

// View renders the detail page.
func (p *Detail) View() string {
	if s, ok := ui.LoadState(p.data, p.Width, p.Height, "task"); ok {
		return s
	}

	d := p.data.Data()
	t := d.Task

	installation := t.InstallationID
	if d.Installation != nil {
		installation = fmt.Sprintf("%s  %s, %s", d.Installation.ID, d.Installation.CustomerName, d.Installation.Address)
	}

	sections := []string{
		theme.TitleStyle.Render(t.Title),
		ui.Field("Status", theme.TaskStatusStyle(t.Status).Render(t.Status.Label())),
		ui.Field("Priority", theme.PriorityStyle(t.Priority).Render(t.Priority.Label())),
		ui.Field("Installation", installation),
		ui.Field("Assigned to", t.AssignedTo),
		ui.Field("Created", model.FormatDateTime(t.CreatedDate)),
		ui.Field("Due", model.FormatDate(t.DueDate)),
		ui.Field("Completed", model.FormatDate(t.CompletedDate)),
		ui.Field("Estimated", hours(t.EstimatedHours)),
		ui.Field("Actual", hours(t.ActualHours)),
	}

	switch {
	case p.complete.Submitting():
		sections = append(sections, "", theme.DimmedStyle.Render("Saving..."))
	case p.complete.Error() != "":
		sections = append(sections, "", theme.ErrorStyle.Render(p.complete.Error()))
	}

	for _, block := range []struct{ title, body string }{
		{"Description", t.Description},
		{"Notes", t.Notes},
	} {
		if block.body == "" {
			continue
		}
		sections = append(sections, "", ui.Separator(p.Width), theme.TitleStyle.Render(block.title), block.body)
	}

	if p.confirm.IsOpen() {
		sections = append(sections, "", ui.ConfirmDelete(p.confirm,
			fmt.Sprintf("Delete task %q?", t.Title), "", p.Width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Title returns the header title.
func (p *Detail) Title() string { return "Task" }

// Hints returns the status bar hints.
func (p *Detail) Hints() string {
	if p.confirm.IsOpen() {
		return "y delete | esc cancel"
	}
	return "esc back | enter installation | e edit | c complete | d delete | r reload"
}

// Capturing reports false; the page has no text inputs.
func (p *Detail) Capturing() bool { return false }
