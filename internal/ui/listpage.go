package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/reconcile"
	"github.com/nhle/inspection/internal/theme"
)

// FilterDef is an enumerated filter that a key cycles through.
type FilterDef struct {
	Key     string
	Label   string
	Values  []string
	Display func(string) string
}

func (f *FilterDef) next(current string) string {
	if current == "" {
		return f.Values[0]
	}
	i := slices.Index(f.Values, current)
	if i < 0 || i == len(f.Values)-1 {
		return ""
	}
	return f.Values[i+1]
}

func (f *FilterDef) show(v string) string {
	if f.Display != nil {
		return f.Display(v)
	}
	return v
}

// ListSpec configures a ListPage for one entity type.
type ListSpec[T any] struct {
	Title     string
	Noun      string
	Headers   []string
	Row       func(T) []string
	ID        func(T) string
	Fetch     func(context.Context) ([]T, error)
	Reconcile reconcile.Spec[T]
	Status    *FilterDef
	Secondary *FilterDef
	// Summary renders the status counts of the whole list.
	Summary  func(map[string]int) string
	Open     func(T) controller.Route
	Create   *controller.Route
	PageSize int
}

// ListPage is a searchable, filterable, paginated list of entities.
type ListPage[T any] struct {
	Size
	env       *Env
	spec      ListSpec[T]
	list      *controller.List[T]
	cursor    int
	search    textinput.Model
	searching bool
}

// NewListPage builds a list page from spec.
func NewListPage[T any](env *Env, spec ListSpec[T]) *ListPage[T] {
	si := textinput.New()
	si.Placeholder = "search " + spec.Noun + "..."
	si.Prompt = "/ "

	return &ListPage[T]{
		env:    env,
		spec:   spec,
		list:   controller.NewList(spec.Reconcile, spec.PageSize),
		search: si,
	}
}

// Init fetches the list. Any snapshot from an earlier visit stays visible
// until the new one arrives.
func (p *ListPage[T]) Init() tea.Cmd {
	return p.list.Load("", p.spec.Fetch)
}

// List exposes the page's list state.
func (p *ListPage[T]) List() *controller.List[T] { return p.list }

// Remove drops the entity with the given ID from the snapshot.
func (p *ListPage[T]) Remove(id string) {
	if p.spec.ID == nil {
		return
	}
	p.list.Remove(func(it T) bool { return p.spec.ID(it) == id })
	p.clampCursor()
}

// Update handles messages for the list page.
func (p *ListPage[T]) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case controller.LoadedMsg[[]T]:
		if !p.list.Apply(msg) {
			return p, nil
		}
		p.clampCursor()
		return p, controller.CheckAuth(msg.Err)

	case tea.KeyMsg:
		if p.searching {
			return p.handleSearchKeys(msg)
		}
		return p.handleNormalKeys(msg)
	}
	return p, nil
}

func (p *ListPage[T]) handleSearchKeys(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "enter":
		p.searching = false
		p.search.Blur()
		return p, nil
	case "esc":
		p.searching = false
		p.search.Blur()
		p.search.Reset()
		p.list.Pager().SetSearch("")
		p.cursor = 0
		return p, nil
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	before := p.list.Pager().Page()
	p.list.Pager().SetSearch(p.search.Value())
	if p.list.Pager().Page() != before {
		p.cursor = 0
	}
	p.clampCursor()
	return p, cmd
}

func (p *ListPage[T]) handleNormalKeys(msg tea.KeyMsg) (Page, tea.Cmd) {
	k := p.env.Keys
	pager := p.list.Pager()

	switch {
	case key.Matches(msg, k.Refresh):
		return p, p.Init()

	case key.Matches(msg, k.Search):
		p.searching = true
		return p, p.search.Focus()

	case key.Matches(msg, k.Down):
		p.cursor++
		p.clampCursor()

	case key.Matches(msg, k.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(msg, k.NextPage):
		pager.Next(p.list.Result().TotalPages)
		p.cursor = 0

	case key.Matches(msg, k.PrevPage):
		pager.Prev()
		p.cursor = 0

	case key.Matches(msg, k.CycleStatus) && p.spec.Status != nil:
		f := p.spec.Status
		pager.SetFilter(f.Key, f.next(pager.Filter(f.Key)))
		p.cursor = 0

	case key.Matches(msg, k.CycleSecondary) && p.spec.Secondary != nil:
		f := p.spec.Secondary
		pager.SetFilter(f.Key, f.next(pager.Filter(f.Key)))
		p.cursor = 0

	case key.Matches(msg, k.ClearFilters):
		pager.ClearAll()
		p.search.Reset()
		p.cursor = 0

	case key.Matches(msg, k.New) && p.spec.Create != nil:
		return p, controller.Navigate(*p.spec.Create)

	case key.Matches(msg, k.Select):
		if it, ok := p.Selected(); ok && p.spec.Open != nil {
			return p, controller.Navigate(p.spec.Open(it))
		}
	}
	return p, nil
}

// Selected returns the entity under the cursor.
func (p *ListPage[T]) Selected() (T, bool) {
	items := p.list.Result().Items
	if p.cursor < 0 || p.cursor >= len(items) {
		var zero T
		return zero, false
	}
	return items[p.cursor], true
}

func (p *ListPage[T]) clampCursor() {
	n := len(p.list.Result().Items)
	p.cursor = max(min(p.cursor, n-1), 0)
}

// View renders the list page.
func (p *ListPage[T]) View() string {
	if p.list.Data() == nil {
		if s, ok := LoadState(p.list.Resource, p.Width, p.Height, p.spec.Noun); ok {
			return s
		}
	}

	res := p.list.Result()
	var sections []string

	title := fmt.Sprintf("%s (%d)", p.spec.Title, res.Total)
	if p.list.Loading() {
		title += theme.DimmedStyle.Render("  refreshing...")
	}
	sections = append(sections, theme.TitleStyle.Render(title))

	if p.list.Phase() == controller.PhaseFailed {
		sections = append(sections, theme.ErrorStyle.Render(p.list.ErrorMessage()))
	}

	if p.spec.Summary != nil {
		sections = append(sections, p.spec.Summary(res.Counts))
	}

	if line := p.filterLine(); line != "" || p.searching {
		if p.searching {
			sections = append(sections, p.search.View())
		}
		if line != "" {
			sections = append(sections, theme.DimmedStyle.Render(line))
		}
	}

	if len(res.Items) == 0 {
		sections = append(sections, "", theme.DimmedStyle.Render("No "+p.spec.Noun+" found"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	rows := make([][]string, len(res.Items))
	for i, it := range res.Items {
		rows[i] = p.spec.Row(it)
	}
	sections = append(sections, RenderTable(p.spec.Headers, rows, p.cursor, p.Width-2))

	if res.TotalPages > 1 {
		sections = append(sections, theme.DimmedStyle.Render(
			fmt.Sprintf("Page %d of %d", res.Page, res.TotalPages)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (p *ListPage[T]) filterLine() string {
	pager := p.list.Pager()
	var parts []string
	if s := pager.Search(); s != "" && !p.searching {
		parts = append(parts, fmt.Sprintf("search: %q", s))
	}
	for _, f := range []*FilterDef{p.spec.Status, p.spec.Secondary} {
		if f == nil {
			continue
		}
		if v := pager.Filter(f.Key); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Label, f.show(v)))
		}
	}
	return strings.Join(parts, " | ")
}

// Title returns the header title.
func (p *ListPage[T]) Title() string { return p.spec.Title }

// Hints returns the status bar hints.
func (p *ListPage[T]) Hints() string {
	if p.searching {
		return "enter keep search | esc clear search"
	}
	hints := []string{"enter open", "/ search"}
	if p.spec.Status != nil {
		hints = append(hints, "s status")
	}
	if p.spec.Secondary != nil {
		hints = append(hints, "f "+p.spec.Secondary.Label)
	}
	hints = append(hints, "x clear", "[ ] page")
	if p.spec.Create != nil {
		hints = append(hints, "n new")
	}
	return strings.Join(hints, " | ")
}

// Capturing reports whether the search input has focus.
func (p *ListPage[T]) Capturing() bool { return p.searching }
