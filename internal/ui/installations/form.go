package installations

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/diff"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/validate"
)

// Field names of the installation form.
const (
	fieldID           = "id"
	fieldAddress      = "address"
	fieldCustomerName = "customer_name"
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across page updates.
type formBindings struct {
	id               string
	address          string
	customerName     string
	installationDate string
	lastInspection   string
}

// Form creates or edits an installation.
type Form struct {
	ui.Size
	env      *ui.Env
	editID   string
	original *controller.Resource[model.Installation]
	fb       *formBindings
	fields   *validate.Form
	form     *huh.Form
	sub      *controller.Submission
}

// NewCreateForm returns the page for creating an installation.
func NewCreateForm(env *ui.Env) *Form {
	return newForm(env, "")
}

// NewEditForm returns the page for editing installation id.
func NewEditForm(env *ui.Env, id string) *Form {
	return newForm(env, id)
}

func newForm(env *ui.Env, editID string) *Form {
	v := env.Validator
	f := &Form{
		env:      env,
		editID:   editID,
		original: controller.NewResource[model.Installation](),
		fb:       &formBindings{},
		sub:      &controller.Submission{},
	}
	f.fields = validate.NewForm().
		Field(fieldAddress, v.Address).
		Field(fieldCustomerName, v.CustomerName)
	if editID == "" {
		f.fields.Field(fieldID, v.ID)
	}
	return f
}

func (f *Form) editing() bool { return f.editID != "" }

// Init builds the form, loading the installation first when editing.
func (f *Form) Init() tea.Cmd {
	if !f.editing() {
		f.form = f.build()
		return f.form.Init()
	}
	client, id := f.env.Client, f.editID
	return f.original.Load(id, func(ctx context.Context) (model.Installation, error) {
		return client.GetInstallation(ctx, id)
	})
}

// Update handles messages for the form page.
func (f *Form) Update(msg tea.Msg) (ui.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.LoadedMsg[model.Installation]:
		if !f.original.Apply(msg) {
			return f, nil
		}
		if msg.Err != nil {
			return f, controller.CheckAuth(msg.Err)
		}
		f.fill(msg.Data)
		f.form = f.build()
		return f, f.form.Init()

	case controller.SubmittedMsg[model.Installation]:
		if msg.Err != nil {
			f.sub.Fail(msg.Err)
			f.form = f.build()
			return f, tea.Batch(f.form.Init(), controller.CheckAuth(msg.Err))
		}
		f.sub.Succeed()
		return f, controller.Navigate(controller.Route{Page: controller.PageInstallationDetail, ID: msg.Data.ID})
	}

	if f.form == nil || f.sub.Submitting() {
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
		return controller.Navigate(controller.Route{Page: controller.PageInstallationDetail, ID: f.editID})
	}
	return controller.Navigate(controller.Route{Page: controller.PageInstallations})
}

func (f *Form) fill(inst model.Installation) {
	f.fb.id = inst.ID
	f.fb.address = inst.Address
	f.fb.customerName = inst.CustomerName
	f.fb.installationDate = model.FormatDate(inst.InstallationDate)
	f.fb.lastInspection = model.FormatDate(inst.LastInspection)
}

func (f *Form) build() *huh.Form {
	var fields []huh.Field
	if f.editing() {
		fields = append(fields, huh.NewNote().Title("Installation ID").Description(f.editID))
	} else {
		fields = append(fields, huh.NewInput().
			Title(validate.LabelInstallationID).
			Placeholder("e.g. INST-001").
			Value(&f.fb.id).
			Validate(f.fields.Huh(fieldID)))
	}
	fields = append(fields,
		huh.NewInput().
			Title(validate.LabelCustomerName).
			Value(&f.fb.customerName).
			Validate(f.fields.Huh(fieldCustomerName)),
		huh.NewInput().
			Title(validate.LabelAddress).
			Value(&f.fb.address).
			Validate(f.fields.Huh(fieldAddress)),
		huh.NewInput().
			Title("Installation date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&f.fb.installationDate).
			Validate(ui.ValidateOptionalDate),
		huh.NewInput().
			Title("Last inspection").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&f.fb.lastInspection).
			Validate(ui.ValidateOptionalDate),
	)
	return ui.NewForm(f.Size, fields...)
}

// submit validates the whole form and, if it passes, sends it. A form
// that fails validation never reaches the network.
func (f *Form) submit() tea.Cmd {
	f.fields.Set(fieldID, f.fb.id)
	f.fields.Set(fieldAddress, f.fb.address)
	f.fields.Set(fieldCustomerName, f.fb.customerName)

	if !f.fields.Submit() {
		f.form = f.build()
		return f.form.Init()
	}

	installed, err := model.ParseDate(strings.TrimSpace(f.fb.installationDate))
	if err != nil {
		f.sub.FailMessage(err.Error())
		f.form = f.build()
		return f.form.Init()
	}
	inspected, err := model.ParseDate(strings.TrimSpace(f.fb.lastInspection))
	if err != nil {
		f.sub.FailMessage(err.Error())
		f.form = f.build()
		return f.form.Init()
	}

	client := f.env.Client

	if !f.editing() {
		in := model.InstallationCreate{
			ID:               strings.TrimSpace(f.fb.id),
			Address:          f.fb.address,
			CustomerName:     f.fb.customerName,
			InstallationDate: installed,
			LastInspection:   inspected,
		}
		if !f.sub.Begin() {
			return nil
		}
		return controller.Submit(func(ctx context.Context) (model.Installation, error) {
			return client.CreateInstallation(ctx, in)
		})
	}

	original := f.original.Data()
	upd := diff.Installation(original.Draft(), model.InstallationDraft{
		Address:          f.fb.address,
		CustomerName:     f.fb.customerName,
		InstallationDate: installed,
		LastInspection:   inspected,
	})
	if upd.IsEmpty() {
		return controller.Navigate(controller.Route{Page: controller.PageInstallationDetail, ID: f.editID})
	}
	if !f.sub.Begin() {
		return nil
	}
	id := f.editID
	return controller.Submit(func(ctx context.Context) (model.Installation, error) {
		return client.UpdateInstallation(ctx, id, upd)
	})
}

// View renders the form page.
func (f *Form) View() string {
	if f.editing() {
		if s, ok := ui.LoadState(f.original, f.Width, f.Height, "installation"); ok {
			return s
		}
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
		return "Edit installation " + f.editID
	}
	return "New installation"
}

// Hints returns the status bar hints.
func (f *Form) Hints() string { return "enter next/submit | shift+tab back | esc cancel" }

// Capturing reports true; the form owns the keyboard.
func (f *Form) Capturing() bool { return true }
