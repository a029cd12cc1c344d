// Package tasks holds the task pages: list, detail and the create/edit
// forms.
package tasks

import (
	"context"
	"strconv"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/reconcile"
	"github.com/nhle/inspection/internal/theme"
	"github.com/nhle/inspection/internal/ui"
)

func statusValues() []string {
	out := make([]string, len(model.TaskStatuses))
	for i, s := range model.TaskStatuses {
		out[i] = string(s)
	}
	return out
}

func priorityValues() []string {
	out := make([]string, len(model.TaskPriorities))
	for i, p := range model.TaskPriorities {
		out[i] = string(p)
	}
	return out
}

// Summary renders the per-status counts.
func Summary(counts map[string]int) string {
	var pairs []string
	for _, s := range model.TaskStatuses {
		pairs = append(pairs, s.Label(), theme.TaskStatusStyle(s).Render(strconv.Itoa(counts[string(s)])))
	}
	return ui.Counts(pairs...)
}

// Headers are the column titles matching Row.
var Headers = []string{"Title", "Status", "Priority", "Installation", "Due", "Assigned to"}

// Row renders a task as a table row.
func Row(t model.Task) []string {
	return []string{
		t.Title,
		theme.TaskStatusStyle(t.Status).Render(t.Status.Label()),
		theme.PriorityStyle(t.Priority).Render(t.Priority.Label()),
		t.InstallationID,
		model.FormatDate(t.DueDate),
		t.AssignedTo,
	}
}

// NewList returns the task list page.
func NewList(env *ui.Env) *ui.ListPage[model.Task] {
	return ui.NewListPage(env, ui.ListSpec[model.Task]{
		Title:   "Tasks",
		Noun:    "tasks",
		Headers: Headers,
		Row:     Row,
		ID:      func(t model.Task) string { return t.ID },
		Fetch: func(ctx context.Context) ([]model.Task, error) {
			return env.Client.ListTasks(ctx, api.TaskListOptions{})
		},
		Reconcile: reconcile.TaskSpec,
		Status: &ui.FilterDef{
			Key:     reconcile.FilterStatus,
			Label:   "status",
			Values:  statusValues(),
			Display: func(v string) string { return model.TaskStatus(v).Label() },
		},
		Secondary: &ui.FilterDef{
			Key:     reconcile.FilterPriority,
			Label:   "priority",
			Values:  priorityValues(),
			Display: func(v string) string { return model.TaskPriority(v).Label() },
		},
		Summary: Summary,
		Open: func(t model.Task) controller.Route {
			return controller.Route{Page: controller.PageTaskDetail, ID: t.ID}
		},
		Create:   &controller.Route{Page: controller.PageTaskCreate},
		PageSize: env.PageSize,
	})
}
