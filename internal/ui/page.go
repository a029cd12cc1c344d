// Package ui holds the pieces shared by every screen: the page contract,
// the dependencies pages are built from, and common widgets.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/keys"
	"github.com/nhle/inspection/internal/session"
	"github.com/nhle/inspection/internal/validate"
)

// Page is one screen of the application.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	SetSize(width, height int)
	// Title is shown in the header bar.
	Title() string
	// Hints is shown in the status bar.
	Hints() string
	// Capturing reports whether a text input has focus, in which case
	// global single-key shortcuts are not intercepted.
	Capturing() bool
}

// Env is what pages are built from.
type Env struct {
	Client    *api.Client
	Session   *session.Store
	Validator *validate.Validator
	Keys      *keys.KeyMap
	Logger    *zap.Logger
	PageSize  int
	Now       func() time.Time
}

// Size is the embedded width/height bookkeeping of a page.
type Size struct {
	Width  int
	Height int
}

// SetSize records the page dimensions.
func (s *Size) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}
