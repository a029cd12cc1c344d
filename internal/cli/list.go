package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/reconcile"
	"github.com/nhle/inspection/internal/ui/safetytests"
	"github.com/nhle/inspection/internal/ui/tasks"
)

// ListOptions holds the flags of the ls command.
type ListOptions struct {
	Search   string
	Status   string
	Priority string
	Type     string
	Page     int
	PageSize int
}

// NewListCommand creates the ls command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:       "ls <installations|tests|tasks>",
		Short:     "List installations, tests or tasks",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"installations", "tests", "tasks"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("page-size") {
				opts.PageSize = rootOpts.Env().PageSize
			}
			return runList(cmd.Context(), rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "case-insensitive search")
	cmd.Flags().StringVar(&opts.Status, "status", "", "status filter (label or API value)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "task priority filter")
	cmd.Flags().StringVar(&opts.Type, "type", "", "test type filter")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "rows per page, 0 for all")

	return cmd
}

// resolve maps user input to an enum value, accepting either the API value
// or the English label, case-insensitively.
func resolve[E ~string](input string, values []E, label func(E) string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	for _, v := range values {
		if strings.EqualFold(input, string(v)) || strings.EqualFold(input, label(v)) {
			return string(v), nil
		}
	}
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = label(v)
	}
	return "", fmt.Errorf("unknown value %q, expected one of %s", input, strings.Join(names, ", "))
}

func (o *ListOptions) query() reconcile.Query {
	return reconcile.Query{Search: o.Search, Filters: map[string]string{}, Page: o.Page, PageSize: o.PageSize}
}

func runList(ctx context.Context, rootOpts *RootOptions, opts *ListOptions, kind string, out io.Writer) error {
	client := rootOpts.Env().Client
	q := opts.query()

	switch kind {
	case "installations":
		items, err := client.ListInstallations(ctx, api.ListOptions{})
		if err != nil {
			return userError(err)
		}
		res := reconcile.Apply(reconcile.InstallationSpec, items, q)
		rows := make([][]string, len(res.Items))
		for i, inst := range res.Items {
			rows[i] = []string{inst.ID, inst.CustomerName, inst.Address,
				model.FormatDate(inst.InstallationDate), model.FormatDate(inst.LastInspection)}
		}
		printList(out, []string{"ID", "Customer", "Address", "Installed", "Last inspection"}, rows, res.Page, res.TotalPages, res.Total, "")
		return nil

	case "tests":
		status, err := resolve(opts.Status, model.TestStatuses, model.TestStatus.Label)
		if err != nil {
			return err
		}
		testType, err := resolve(opts.Type, model.TestTypes, func(t model.TestType) string { return string(t) })
		if err != nil {
			return err
		}
		q.Filters[reconcile.FilterStatus] = status
		q.Filters[reconcile.FilterTestType] = testType

		items, err := client.ListTests(ctx, api.ListOptions{})
		if err != nil {
			return userError(err)
		}
		res := reconcile.Apply(reconcile.TestSpec, items, q)
		rows := make([][]string, len(res.Items))
		for i, t := range res.Items {
			rows[i] = safetytests.Row(t)
		}
		printList(out, safetytests.Headers, rows, res.Page, res.TotalPages, res.Total, safetytests.Summary(res.Counts))
		return nil

	default:
		status, err := resolve(opts.Status, model.TaskStatuses, model.TaskStatus.Label)
		if err != nil {
			return err
		}
		priority, err := resolve(opts.Priority, model.TaskPriorities, model.TaskPriority.Label)
		if err != nil {
			return err
		}
		q.Filters[reconcile.FilterStatus] = status
		q.Filters[reconcile.FilterPriority] = priority

		items, err := client.ListTasks(ctx, api.TaskListOptions{})
		if err != nil {
			return userError(err)
		}
		res := reconcile.Apply(reconcile.TaskSpec, items, q)
		rows := make([][]string, len(res.Items))
		for i, t := range res.Items {
			rows[i] = append([]string{t.ID}, tasks.Row(t)...)
		}
		printList(out, slices.Concat([]string{"ID"}, tasks.Headers), rows, res.Page, res.TotalPages, res.Total, tasks.Summary(res.Counts))
		return nil
	}
}

func printList(out io.Writer, headers []string, rows [][]string, page, pages, total int, summary string) {
	if summary != "" {
		fmt.Fprintln(out, summary)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No results")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "%d results, page %d of %d\n", total, page, pages)
}
