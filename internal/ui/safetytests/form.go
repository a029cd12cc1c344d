package safetytests

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/diff"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/validate"
)

const (
	fieldInstallation = "installation"
	fieldValue        = "value"
)

type formBindings struct {
	installationID string
	testType       model.TestType
	value          string
	unit           string
	status         model.TestStatus
	notes          string
	imageFile      string
}

// Form records a new test or edits an existing one.
//
// When creating, installationID may be preset by the caller (from an
// installation's detail page); otherwise the user picks one from the list.
type Form struct {
	ui.Size
	env            *ui.Env
	editID         string
	installationID string
	original       *controller.Resource[model.Test]
	choices        *controller.Resource[[]model.Installation]
	fb             *formBindings
	fields         *validate.Form
	form           *huh.Form
	sub            *controller.Submission
}

// NewCreateForm returns the page for recording a test. installationID may
// be empty.
func NewCreateForm(env *ui.Env, installationID string) *Form {
	f := newForm(env, "")
	f.installationID = installationID
	f.fb.installationID = installationID
	return f
}

// NewEditForm returns the page for editing test id.
func NewEditForm(env *ui.Env, id string) *Form {
	return newForm(env, id)
}

func newForm(env *ui.Env, editID string) *Form {
	v := env.Validator
	f := &Form{
		env:      env,
		editID:   editID,
		original: controller.NewResource[model.Test](),
		choices:  controller.NewResource[[]model.Installation](),
		fb:       &formBindings{testType: model.TestTypeRCD},
		sub:      &controller.Submission{},
	}
	f.fields = validate.NewForm().Field(fieldValue, v.TestValue)
	if editID == "" {
		f.fields.Field(fieldInstallation, func(s string) string {
			return v.Required(validate.LabelInstallationID, s)
		})
	}
	return f
}

func (f *Form) editing() bool { return f.editID != "" }

// Init loads what the form needs before it can be shown.
func (f *Form) Init() tea.Cmd {
	client := f.env.Client
	if f.editing() {
		id := f.editID
		return f.original.Load(id, func(ctx context.Context) (model.Test, error) {
			n, err := parseID(id)
			if err != nil {
				return model.Test{}, err
			}
			return client.GetTest(ctx, n)
		})
	}
	if f.installationID != "" {
		f.form = f.build()
		return f.form.Init()
	}
	return f.choices.Load("installations", func(ctx context.Context) ([]model.Installation, error) {
		return client.ListInstallations(ctx, api.ListOptions{})
	})
}

// Update handles messages for the form page.
func (f *Form) Update(msg tea.Msg) (ui.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.LoadedMsg[model.Test]:
		if !f.original.Apply(msg) {
			return f, nil
		}
		if msg.Err != nil {
			return f, controller.CheckAuth(msg.Err)
		}
		f.fill(msg.Data)
		f.form = f.build()
		return f, f.form.Init()

	case controller.LoadedMsg[[]model.Installation]:
		if !f.choices.Apply(msg) {
			return f, nil
		}
		if msg.Err != nil {
			return f, controller.CheckAuth(msg.Err)
		}
		if len(msg.Data) > 0 && f.fb.installationID == "" {
			f.fb.installationID = msg.Data[0].ID
		}
		f.form = f.build()
		return f, f.form.Init()

	case controller.SubmittedMsg[model.Test]:
		if msg.Err != nil {
			f.sub.Fail(msg.Err)
			f.form = f.build()
			return f, tea.Batch(f.form.Init(), controller.CheckAuth(msg.Err))
		}
		f.sub.Succeed()
		return f, controller.Navigate(controller.Route{
			Page: controller.PageTestDetail,
			ID:   strconv.FormatInt(msg.Data.ID, 10),
		})
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
	switch {
	case f.editing():
		return controller.Navigate(controller.Route{Page: controller.PageTestDetail, ID: f.editID})
	case f.installationID != "":
		return controller.Navigate(controller.Route{Page: controller.PageInstallationDetail, ID: f.installationID})
	default:
		return controller.Navigate(controller.Route{Page: controller.PageTests})
	}
}

func (f *Form) fill(t model.Test) {
	f.fb.installationID = t.InstallationID
	f.fb.testType = t.TestType
	f.fb.value = strconv.FormatFloat(t.Value, 'f', -1, 64)
	f.fb.unit = t.Unit
	f.fb.status = t.Status
	f.fb.notes = t.Notes
}

// validateImageFile accepts "" or a path to a readable regular file.
func validateImageFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil || info.IsDir() {
		return errors.New("file not found")
	}
	return nil
}

func typeOptions() []huh.Option[model.TestType] {
	opts := make([]huh.Option[model.TestType], len(model.TestTypes))
	for i, t := range model.TestTypes {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%s)", t, t.Unit()), t)
	}
	return opts
}

func statusOptions() []huh.Option[model.TestStatus] {
	opts := make([]huh.Option[model.TestStatus], len(model.TestStatuses))
	for i, s := range model.TestStatuses {
		opts[i] = huh.NewOption(s.Label(), s)
	}
	return opts
}

func (f *Form) build() *huh.Form {
	var fields []huh.Field

	switch {
	case f.editing():
		t := f.original.Data()
		fields = append(fields,
			huh.NewNote().Title("Test").Description(fmt.Sprintf("#%d %s on %s", t.ID, t.TestType, t.InstallationID)),
			huh.NewInput().
				Title(validate.LabelValue).
				Value(&f.fb.value).
				Validate(f.fields.Huh(fieldValue)),
			huh.NewInput().
				Title("Unit").
				Value(&f.fb.unit),
			huh.NewSelect[model.TestStatus]().
				Title("Status").
				Options(statusOptions()...).
				Value(&f.fb.status),
		)
	default:
		if f.installationID != "" {
			fields = append(fields, huh.NewNote().Title(validate.LabelInstallationID).Description(f.installationID))
		} else {
			var opts []huh.Option[string]
			for _, inst := range f.choices.Data() {
				opts = append(opts, huh.NewOption(inst.ID+"  "+inst.CustomerName, inst.ID))
			}
			fields = append(fields, huh.NewSelect[string]().
				Title("Installation").
				Options(opts...).
				Value(&f.fb.installationID).
				Validate(f.fields.Huh(fieldInstallation)))
		}
		fields = append(fields,
			huh.NewSelect[model.TestType]().
				Title("Test type").
				Options(typeOptions()...).
				Value(&f.fb.testType),
			huh.NewInput().
				Title(validate.LabelValue).
				Placeholder("e.g. 23.5").
				Value(&f.fb.value).
				Validate(f.fields.Huh(fieldValue)),
		)
	}

	imageTitle := "Image file"
	if f.editing() && f.original.Data().ImagePath != "" {
		imageTitle = "Replace image"
	}
	fields = append(fields,
		huh.NewText().
			Title("Notes").
			Value(&f.fb.notes),
		huh.NewInput().
			Title(imageTitle).
			Placeholder("path to a photo (optional)").
			Value(&f.fb.imageFile).
			Validate(validateImageFile),
	)
	return ui.NewForm(f.Size, fields...)
}

// upload sends the selected image, if any, and returns its stored path.
func upload(ctx context.Context, client *api.Client, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer file.Close()

	img, err := client.UploadTestImage(ctx, path, file)
	if err != nil {
		return "", err
	}
	return img.ImagePath, nil
}

// submit validates the form, then uploads the image (if one was chosen)
// and creates or updates the test in a single command.
func (f *Form) submit() tea.Cmd {
	f.fields.Set(fieldValue, f.fb.value)
	f.fields.Set(fieldInstallation, f.fb.installationID)

	if !f.fields.Submit() {
		f.form = f.build()
		return f.form.Init()
	}

	value, err := validate.ParseNumber(f.fb.value)
	if err != nil {
		f.sub.FailMessage(err.Error())
		f.form = f.build()
		return f.form.Init()
	}

	client := f.env.Client
	imageFile := strings.TrimSpace(f.fb.imageFile)
	notes := f.fb.notes

	if !f.editing() {
		in := model.NewTestCreate(f.fb.installationID, f.fb.testType, value)
		in.Notes = notes
		if !f.sub.Begin() {
			return nil
		}
		return controller.Submit(func(ctx context.Context) (model.Test, error) {
			path, err := upload(ctx, client, imageFile)
			if err != nil {
				return model.Test{}, err
			}
			in.ImagePath = path
			return client.CreateTest(ctx, in)
		})
	}

	original := f.original.Data()
	draft := model.TestDraft{
		Value:     value,
		Unit:      f.fb.unit,
		Status:    f.fb.status,
		Notes:     notes,
		ImagePath: original.ImagePath,
	}
	if imageFile == "" && diff.Test(original.Draft(), draft).IsEmpty() {
		return controller.Navigate(controller.Route{Page: controller.PageTestDetail, ID: f.editID})
	}
	if !f.sub.Begin() {
		return nil
	}
	return controller.Submit(func(ctx context.Context) (model.Test, error) {
		if imageFile != "" {
			path, err := upload(ctx, client, imageFile)
			if err != nil {
				return model.Test{}, err
			}
			draft.ImagePath = path
		}
		return client.UpdateTest(ctx, original.ID, diff.Test(original.Draft(), draft))
	})
}

// View renders the form page.
func (f *Form) View() string {
	switch {
	case f.editing():
		if s, ok := ui.LoadState(f.original, f.Width, f.Height, "test"); ok {
			return s
		}
	case f.installationID == "":
		if s, ok := ui.LoadState(f.choices, f.Width, f.Height, "installations"); ok {
			return s
		}
		if len(f.choices.Data()) == 0 {
			return ui.Centered(f.Width, f.Height, "Create an installation before recording tests.")
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
		return "Edit test " + f.editID
	}
	return "New test"
}

// Hints returns the status bar hints.
func (f *Form) Hints() string { return "enter next/submit | shift+tab back | esc cancel" }

// Capturing reports true; the form owns the keyboard.
func (f *Form) Capturing() bool { return true }
