// Package login is the sign-in screen, with a toggle to register a new
// account.
package login

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/validate"
)

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

const (
	fieldUsername = "username"
	fieldPassword = "password"
	fieldEmail    = "email"
)

type formBindings struct {
	username string
	password string
	email    string
	fullName string
}

// Page signs the user in.
type Page struct {
	ui.Size
	env    *ui.Env
	mode   mode
	notice string
	fb     *formBindings
	fields *validate.Form
	form   *huh.Form
	sub    *controller.Submission
}

// New returns the login page. notice, when set, is shown above the form
// (e.g. why the previous session ended).
func New(env *ui.Env, notice string) *Page {
	p := &Page{
		env:    env,
		notice: notice,
		fb:     &formBindings{},
		sub:    &controller.Submission{},
	}
	p.resetFields()
	return p
}

func (p *Page) required(label string) validate.Rule {
	v := p.env.Validator
	return func(s string) string { return v.Required(label, s) }
}

// resetFields registers the rules of the current mode.
func (p *Page) resetFields() {
	p.fields = validate.NewForm().
		Field(fieldUsername, p.required(validate.LabelUsername)).
		Field(fieldPassword, p.required(validate.LabelPassword))
	if p.mode == modeRegister {
		p.fields.Field(fieldEmail, p.required(validate.LabelEmail))
	}
}

// Init builds the form.
func (p *Page) Init() tea.Cmd {
	p.form = p.build()
	return p.form.Init()
}

func (p *Page) build() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title(validate.LabelUsername).
			Value(&p.fb.username).
			Validate(p.fields.Huh(fieldUsername)),
		huh.NewInput().
			Title(validate.LabelPassword).
			EchoMode(huh.EchoModePassword).
			Value(&p.fb.password).
			Validate(p.fields.Huh(fieldPassword)),
	}
	if p.mode == modeRegister {
		fields = append(fields,
			huh.NewInput().
				Title(validate.LabelEmail).
				Value(&p.fb.email).
				Validate(p.fields.Huh(fieldEmail)),
			huh.NewInput().
				Title("Full name").
				Placeholder("optional").
				Value(&p.fb.fullName),
		)
	}
	return ui.NewForm(p.Size, fields...)
}

// toggle switches between signing in and registering.
func (p *Page) toggle() tea.Cmd {
	if p.mode == modeLogin {
		p.mode = modeRegister
	} else {
		p.mode = modeLogin
	}
	p.resetFields()
	p.notice = ""
	p.sub = &controller.Submission{}
	p.form = p.build()
	return p.form.Init()
}

// Update handles messages for the login page.
func (p *Page) Update(msg tea.Msg) (ui.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.SubmittedMsg[model.Token]:
		if msg.Err != nil {
			p.sub.Fail(msg.Err)
			p.fb.password = ""
			p.form = p.build()
			return p, p.form.Init()
		}
		p.sub.Succeed()
		p.env.Session.SetToken(msg.Data.AccessToken)
		p.env.Logger.Info("logged in")
		return p, controller.Navigate(controller.Route{Page: controller.PageDashboard})

	case controller.SubmittedMsg[model.User]:
		if msg.Err != nil {
			p.sub.Fail(msg.Err)
			p.form = p.build()
			return p, p.form.Init()
		}
		cmd := p.toggle()
		p.fb.password = ""
		p.notice = "Account created for " + msg.Data.Username + ". Please log in."
		return p, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+r" && !p.sub.Submitting() {
			return p, p.toggle()
		}
	}

	if p.form == nil || p.sub.Submitting() {
		return p, nil
	}

	var cmd tea.Cmd
	p.form, cmd = ui.UpdateForm(p.form, msg)
	switch p.form.State {
	case huh.StateCompleted:
		return p, p.submit()
	case huh.StateAborted:
		p.form = p.build()
		return p, p.form.Init()
	}
	return p, cmd
}

func (p *Page) submit() tea.Cmd {
	p.fields.Set(fieldUsername, p.fb.username)
	p.fields.Set(fieldPassword, p.fb.password)
	p.fields.Set(fieldEmail, p.fb.email)
	if !p.fields.Submit() {
		p.form = p.build()
		return p.form.Init()
	}
	if !p.sub.Begin() {
		return nil
	}

	client := p.env.Client
	username := strings.TrimSpace(p.fb.username)
	password := p.fb.password

	if p.mode == modeRegister {
		reg := model.Registration{
			Username: username,
			Password: password,
			Email:    strings.TrimSpace(p.fb.email),
			FullName: strings.TrimSpace(p.fb.fullName),
		}
		return controller.Submit(func(ctx context.Context) (model.User, error) {
			return client.Register(ctx, reg)
		})
	}
	return controller.Submit(func(ctx context.Context) (model.Token, error) {
		return client.Login(ctx, username, password)
	})
}

// View renders the login page.
func (p *Page) View() string {
	var top []string
	if p.notice != "" {
		top = append(top, theme.WarningStyle.Render(p.notice))
	}
	body := ui.RenderForm(p.Title(), p.form, p.sub)
	if len(top) == 0 {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.NewStyle().Padding(1, 2, 0).Render(top...), body)
}

// SetSize updates the page dimensions.
func (p *Page) SetSize(width, height int) {
	p.Size.SetSize(width, height)
	if p.form != nil {
		p.form = p.form.WithWidth(ui.FormWidth(width)).WithHeight(ui.FormHeight(height))
	}
}

// Title returns the header title.
func (p *Page) Title() string {
	if p.mode == modeRegister {
		return "Create account"
	}
	return "Log in"
}

// Hints returns the status bar hints.
func (p *Page) Hints() string {
	if p.mode == modeRegister {
		return "enter next/submit | ctrl+r back to login | ctrl+c quit"
	}
	return "enter next/submit | ctrl+r create account | ctrl+c quit"
}

// Capturing reports true; the form owns the keyboard.
func (p *Page) Capturing() bool { return true }
