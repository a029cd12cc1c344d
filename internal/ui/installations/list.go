// Package installations holds the installation pages: list, detail and
// the create/edit form.
package installations

import (
	"context"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/reconcile"
	"github.com/nhle/inspection/internal/ui"
)

// NewList returns the installation list page.
func NewList(env *ui.Env) *ui.ListPage[model.Installation] {
	return ui.NewListPage(env, ui.ListSpec[model.Installation]{
		Title:   "Installations",
		Noun:    "installations",
		Headers: []string{"ID", "Customer", "Address", "Installed", "Last inspection"},
		Row: func(i model.Installation) []string {
			return []string{
				i.ID,
				i.CustomerName,
				i.Address,
				model.FormatDate(i.InstallationDate),
				model.FormatDate(i.LastInspection),
			}
		},
		ID: func(i model.Installation) string { return i.ID },
		Fetch: func(ctx context.Context) ([]model.Installation, error) {
			return env.Client.ListInstallations(ctx, api.ListOptions{})
		},
		Reconcile: reconcile.InstallationSpec,
		Open: func(i model.Installation) controller.Route {
			return controller.Route{Page: controller.PageInstallationDetail, ID: i.ID}
		},
		Create:   &controller.Route{Page: controller.PageInstallationCreate},
		PageSize: env.PageSize,
	})
}
