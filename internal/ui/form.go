package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/validate"
)

// NewForm wraps fields in a single-group huh form sized for the page.
func NewForm(s Size, fields ...huh.Field) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(FormWidth(s.Width)).WithHeight(FormHeight(s.Height)).WithShowHelp(true)
}

// UpdateForm forwards msg to form and returns the updated form.
func UpdateForm(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	mdl, cmd := form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		form = f
	}
	return form, cmd
}

// RenderForm renders a form page with its submit state.
func RenderForm(title string, form *huh.Form, sub *controller.Submission) string {
	var sections []string
	sections = append(sections, theme.TitleStyle.Render(title))

	switch {
	case sub.Submitting():
		sections = append(sections, theme.DimmedStyle.Render("Saving..."))
	case sub.Error() != "":
		sections = append(sections, theme.ErrorStyle.Render(sub.Error()), "")
	}

	if form != nil && !sub.Submitting() {
		sections = append(sections, form.View())
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// FormWidth clamps the form width to a readable range.
func FormWidth(width int) int {
	return min(max(width-4, 40), 100)
}

// FormHeight leaves room for the page title.
func FormHeight(height int) int {
	return max(height-4, 10)
}

// ValidateOptionalDate accepts "" or YYYY-MM-DD.
func ValidateOptionalDate(s string) error {
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// ValidateOptionalNumber accepts "" or a decimal number.
func ValidateOptionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := validate.ParseNumber(s); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

// ParseOptionalNumber returns nil for "" and the parsed value otherwise.
func ParseOptionalNumber(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := validate.ParseNumber(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// FormatNumber renders an optional number for a text input.
func FormatNumber(n *float64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatFloat(*n, 'f', -1, 64)
}
