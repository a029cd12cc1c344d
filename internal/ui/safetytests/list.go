// Package safetytests holds the pages for recorded safety tests: list,
// detail and the create/edit forms.
package safetytests

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/reconcile"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/ui"
)

func statusValues() []string {
	out := make([]string, len(model.TestStatuses))
	for i, s := range model.TestStatuses {
		out[i] = string(s)
	}
	return out
}

func typeValues() []string {
	out := make([]string, len(model.TestTypes))
	for i, t := range model.TestTypes {
		out[i] = string(t)
	}
	return out
}

// Summary renders pass/fail/warning counts.
func Summary(counts map[string]int) string {
	var pairs []string
	for _, s := range model.TestStatuses {
		pairs = append(pairs, s.Label(), theme.TestStatusStyle(s).Render(strconv.Itoa(counts[string(s)])))
	}
	return ui.Counts(pairs...)
}

// Row renders a test as a table row.
func Row(t model.Test) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.InstallationID,
		string(t.TestType),
		fmt.Sprintf("%g %s", t.Value, t.Unit),
		theme.TestStatusStyle(t.Status).Render(t.Status.Label()),
		t.Technician,
		model.FormatDateTime(t.Timestamp),
	}
}

// Headers are the column titles matching Row.
var Headers = []string{"ID", "Installation", "Type", "Value", "Status", "Technician", "Time"}

// NewList returns the test list page.
func NewList(env *ui.Env) *ui.ListPage[model.Test] {
	return ui.NewListPage(env, ui.ListSpec[model.Test]{
		Title:   "Tests",
		Noun:    "tests",
		Headers: Headers,
		Row:     Row,
		ID:      func(t model.Test) string { return strconv.FormatInt(t.ID, 10) },
		Fetch: func(ctx context.Context) ([]model.Test, error) {
			return env.Client.ListTests(ctx, api.ListOptions{})
		},
		Reconcile: reconcile.TestSpec,
		Status: &ui.FilterDef{
			Key:     reconcile.FilterStatus,
			Label:   "status",
			Values:  statusValues(),
			Display: func(v string) string { return model.TestStatus(v).Label() },
		},
		Secondary: &ui.FilterDef{
			Key:    reconcile.FilterTestType,
			Label:  "type",
			Values: typeValues(),
		},
		Summary: Summary,
		Open: func(t model.Test) controller.Route {
			return controller.Route{Page: controller.PageTestDetail, ID: strconv.FormatInt(t.ID, 10)}
		},
		Create:   &controller.Route{Page: controller.PageTestCreate},
		PageSize: env.PageSize,
	})
}
