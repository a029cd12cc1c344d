package tasks

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/diff"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/validate"
)

const fieldTitle = "title"

type formBindings struct {
	title          string
	description    string
	status         model.TaskStatus
	priority       model.TaskPriority
	installationID string
	dueDate        string
	completedDate  string
	assignedTo     string
	estimatedHours string
	actualHours    string
	notes          string
}

// formData is what the form needs before it can be shown.
type formData struct {
	Task          model.Task
	Installations []model.Installation
}

// Form creates or edits a task.
type Form struct {
	ui.Size
	env    *ui.Env
	editID string
	data   *controller.Resource[formData]
	fb     *formBindings
	fields *validate.Form
	form   *huh.Form
	sub    *controller.Submission
}

// NewCreateForm returns the page for creating a task, optionally linked
// to installationID.
func NewCreateForm(env *ui.Env, installationID string) *Form {
	f := newForm(env, "")
	f.fb.installationID = installationID
	return f
}

// NewEditForm returns the page for editing task id.
func NewEditForm(env *ui.Env, id string) *Form {
	return newForm(env, id)
}

func newForm(env *ui.Env, editID string) *Form {
	return &Form{
		env:    env,
		editID: editID,
		data:   controller.NewResource[formData](),
		fb: &formBindings{
			status:   model.TaskStatusPlanned,
			priority: model.TaskPriorityMedium,
		},
		fields: validate.NewForm().Field(fieldTitle, env.Validator.TaskTitle),
		sub:    &controller.Submission{},
	}
}

func (f *Form) editing() bool { return f.editID != "" }

// Init loads the task (when editing) and the installations to link to.
// The installation list is optional; without it only the current link is
// offered.
func (f *Form) Init() tea.Cmd {
	client, logger, id := f.env.Client, f.env.Logger, f.editID
	return f.data.Load(id, func(ctx context.Context) (formData, error) {
		var d formData
		g, ctx := errgroup.WithContext(ctx)
		if id != "" {
			g.Go(func() error {
				t, err := client.GetTask(ctx, id)
				d.Task = t
				return err
			})
		}
		g.Go(func() error {
			list, err := client.ListInstallations(ctx, api.ListOptions{})
			if err != nil {
				logger.Debug("installation list unavailable", zap.Error(err))
				return nil
			}
			d.Installations = list
			return nil
		})
		return d, g.Wait()
	})
}

// Update handles messages for the form page.
func (f *Form) Update(msg tea.Msg) (ui.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.LoadedMsg[formData]:
		if !f.data.Apply(msg) {
			return f, nil
		}
		if msg.Err != nil {
			return f, controller.CheckAuth(msg.Err)
		}
		if f.editing() {
			f.fill(msg.Data.Task)
		}
		f.form = f.build()
		return f, f.form.Init()

	case controller.SubmittedMsg[model.Task]:
		if msg.Err != nil {
			f.sub.Fail(msg.Err)
			f.form = f.build()
			return f, tea.Batch(f.form.Init(), controller.CheckAuth(msg.Err))
		}
		f.sub.Succeed()
		return f, controller.Navigate(controller.Route{Page: controller.PageTaskDetail, ID: msg.Data.ID})
	}

	if f.form == nil || f.sub.Submitting() {
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, f.env.Keys.Back) {
			return f, f.cancel()
		}
		return f, nil
	}

	var cmd tea.Cmd
	f.form, cmd = ui.UpdateForm(f.form, msg)

	switch f.form.State {
	case huh.StateCompleted:
		return f, f.submit()
	case huh.StateAborted:
		return f, f.cancel()
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, f.env.Keys.Back) {
		return f, f.cancel()
	}
	return f, cmd
}

func (f *Form) cancel() tea.Cmd {
	if f.editing() {
		return controller.Navigate(controller.Route{Page: controller.PageTaskDetail, ID: f.editID})
	}
	return controller.Navigate(controller.Route{Page: controller.PageTasks})
}

func (f *Form) fill(t model.Task) {
	f.fb.title = t.Title
	f.fb.description = t.Description
	f.fb.status = t.Status
	f.fb.priority = t.Priority
	f.fb.installationID = t.InstallationID
	f.fb.dueDate = model.FormatDate(t.DueDate)
	f.fb.completedDate = model.FormatDate(t.CompletedDate)
	f.fb.assignedTo = t.AssignedTo
	f.fb.estimatedHours = ui.FormatNumber(t.EstimatedHours)
	f.fb.actualHours = ui.FormatNumber(t.ActualHours)
	f.fb.notes = t.Notes
}

// installationOptions lists "no installation", the loaded installations,
// and the current link if the list does not contain it.
func (f *Form) installationOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	found := f.fb.installationID == ""
	for _, inst := range f.data.Data().Installations {
		opts = append(opts, huh.NewOption(inst.ID+"  "+inst.CustomerName, inst.ID))
		if inst.ID == f.fb.installationID {
			found = true
		}
	}
	if !found {
		opts = append(opts, huh.NewOption(f.fb.installationID, f.fb.installationID))
	}
	return opts
}

func (f *Form) build() *huh.Form {
	statuses := make([]huh.Option[model.TaskStatus], len(model.TaskStatuses))
	for i, s := range model.TaskStatuses {
		statuses[i] = huh.NewOption(s.Label(), s)
	}
	priorities := make([]huh.Option[model.TaskPriority], len(model.TaskPriorities))
	for i, p := range model.TaskPriorities {
		priorities[i] = huh.NewOption(p.Label(), p)
	}

	fields := []huh.Field{
		huh.NewInput().
			Title(validate.LabelTitle).
			Value(&f.fb.title).
			Validate(f.fields.Huh(fieldTitle)),
		huh.NewText().
			Title("Description").
			Value(&f.fb.description),
		huh.NewSelect[model.TaskStatus]().
			Title("Status").
			Options(statuses...).
			Value(&f.fb.status),
		huh.NewSelect[model.TaskPriority]().
			Title("Priority").
			Options(priorities...).
			Value(&f.fb.priority),
		huh.NewSelect[string]().
			Title("Installation").
			Options(f.installationOptions()...).
			Value(&f.fb.installationID),
		huh.NewInput().
			Title("Due date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&f.fb.dueDate).
			Validate(ui.ValidateOptionalDate),
		huh.NewInput().
			Title("Assigned to").
			Value(&f.fb.assignedTo),
		huh.NewInput().
			Title("Estimated hours").
			Value(&f.fb.estimatedHours).
			Validate(ui.ValidateOptionalNumber),
	}
	if f.editing() {
		fields = append(fields,
			huh.NewInput().
				Title("Completed date").
				Placeholder("YYYY-MM-DD (set on completion when empty)").
				Value(&f.fb.completedDate).
				Validate(ui.ValidateOptionalDate),
			huh.NewInput().
				Title("Actual hours").
				Value(&f.fb.actualHours).
				Validate(ui.ValidateOptionalNumber))
	}
	fields = append(fields, huh.NewText().
		Title("Notes").
		Value(&f.fb.notes))

	return ui.NewForm(f.Size, fields...)
}

// dateInput parses a date field. An unchanged field keeps the stored
// value so its time of day survives the round trip through the form.
func dateInput(input string, stored *model.Time) (*model.Time, error) {
	input = strings.TrimSpace(input)
	if stored != nil && input == model.FormatDate(stored) {
		return stored, nil
	}
	return model.ParseDate(input)
}

// retry rebuilds the form after a local failure so the user can fix it.
func (f *Form) retry(err error) tea.Cmd {
	if err != nil {
		f.sub.FailMessage(err.Error())
	}
	f.form = f.build()
	return f.form.Init()
}

// submit validates the form and sends a create or a partial update.
func (f *Form) submit() tea.Cmd {
	f.fields.Set(fieldTitle, f.fb.title)
	if !f.fields.Submit() {
		return f.retry(nil)
	}

	original := f.data.Data().Task
	due, err := dateInput(f.fb.dueDate, original.DueDate)
	if err != nil {
		return f.retry(err)
	}
	completed, err := dateInput(f.fb.completedDate, original.CompletedDate)
	if err != nil {
		return f.retry(err)
	}
	estimated, err := ui.ParseOptionalNumber(f.fb.estimatedHours)
	if err != nil {
		return f.retry(err)
	}
	actual, err := ui.ParseOptionalNumber(f.fb.actualHours)
	if err != nil {
		return f.retry(err)
	}

	client := f.env.Client

	if !f.editing() {
		in := model.TaskCreate{
			Title:          strings.TrimSpace(f.fb.title),
			Description:    f.fb.description,
			Status:         f.fb.status,
			Priority:       f.fb.priority,
			InstallationID: f.fb.installationID,
			DueDate:        due,
			AssignedTo:     f.fb.assignedTo,
			EstimatedHours: estimated,
			Notes:          f.fb.notes,
		}
		if !f.sub.Begin() {
			return nil
		}
		return controller.Submit(func(ctx context.Context) (model.Task, error) {
			return client.CreateTask(ctx, in)
		})
	}

	upd := diff.Task(original.Draft(), model.TaskDraft{
		Title:          strings.TrimSpace(f.fb.title),
		Description:    f.fb.description,
		Status:         f.fb.status,
		Priority:       f.fb.priority,
		InstallationID: f.fb.installationID,
		DueDate:        due,
		CompletedDate:  completed,
		AssignedTo:     f.fb.assignedTo,
		EstimatedHours: estimated,
		ActualHours:    actual,
		Notes:          f.fb.notes,
	}, f.env.Now())
	if upd.IsEmpty() {
		return controller.Navigate(controller.Route{Page: controller.PageTaskDetail, ID: f.editID})
	}
	if !f.sub.Begin() {
		return nil
	}
	id := f.editID
	return controller.Submit(func(ctx context.Context) (model.Task, error) {
		return client.UpdateTask(ctx, id, upd)
	})
}

// View renders the form page.
func (f *Form) View() string {
	if s, ok := ui.LoadState(f.data, f.Width, f.Height, "task"); ok {
		return s
	}
	return ui.RenderForm(f.Title(), f.form, f.sub)
}

// SetSize updates the page dimensions.
func (f *Form) SetSize(width, height int) {
	f.Size.SetSize(width, height)
	if f.form != nil {
		f.form = f.form.WithWidth(ui.FormWidth(width)).WithHeight(ui.FormHeight(height))
	}
}

// Title returns the header title.
func (f *Form) Title() string {
	if f.editing() {
		return "Edit task"
	}
	return "New task"
}

// Hints returns the status bar hints.
func (f *Form) Hints() string { return "enter next/submit | shift+tab back | esc cancel" }

// Capturing reports true; the form owns the keyboard.
func (f *Form) Capturing() bool { return true }
