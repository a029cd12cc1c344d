package reconcile_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/reconcile"
)

func sampleTests() []model.Test {
	statuses := []model.TestStatus{model.TestStatusPass, model.TestStatusFail, model.TestStatusWarning}
	var out []model.Test
	for i := range 23 {
		out = append(out, model.Test{
			ID:             int64(i + 1),
			InstallationID: fmt.Sprintf("INST-%03d", i%4),
			TestType:       model.TestTypes[i%len(model.TestTypes)],
			Status:         statuses[i%len(statuses)],
			Technician:     []string{"Søren", "Anna", "Mikkel"}[i%3],
		})
	}
	return out
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func TestApply_CountsCoverWholeList(t *testing.T) {
	tests := sampleTests()

	queries := []reconcile.Query{
		{},
		{PageSize: 5, Page: 3},
		{Search: "anna", PageSize: 10},
		{Filters: map[string]string{reconcile.FilterStatus: string(model.TestStatusFail)}},
	}
	for _, q := range queries {
		res := reconcile.Apply(reconcile.TestSpec, tests, q)
		assert.Equal(t, len(tests), sum(res.Counts), "query %+v", q)
	}

	res := reconcile.Apply(reconcile.TestSpec, tests, reconcile.Query{})
	assert.Equal(t, 8, res.Counts[string(model.TestStatusPass)])
	assert.Equal(t, 8, res.Counts[string(model.TestStatusFail)])
	assert.Equal(t, 7, res.Counts[string(model.TestStatusWarning)])
}

func TestApply_PageDoesNotChangeCounts(t *testing.T) {
	tests := sampleTests()
	first := reconcile.Apply(reconcile.TestSpec, tests, reconcile.Query{Page: 1, PageSize: 10})
	last := reconcile.Apply(reconcile.TestSpec, tests, reconcile.Query{Page: 3, PageSize: 10})

	assert.Equal(t, first.Counts, last.Counts)
	assert.Len(t, first.Items, 10)
	assert.Len(t, last.Items, 3)
	assert.Equal(t, 3, last.TotalPages)
	assert.Equal(t, int64(21), last.Items[0].ID)
}

func TestApply_FilterRoundTrip(t *testing.T) {
	tests := sampleTests()
	q := reconcile.Query{Page: 1, PageSize: 10}
	before := reconcile.Apply(reconcile.TestSpec, tests, q)

	p := reconcile.NewPager(10)
	p.SetFilter(reconcile.FilterTestType, string(model.TestTypeEarthing))
	filtered := reconcile.Apply(reconcile.TestSpec, tests, p.Query())
	for _, it := range filtered.Items {
		assert.Equal(t, model.TestTypeEarthing, it.TestType)
	}
	assert.Less(t, filtered.Total, len(tests))

	p.ClearFilter(reconcile.FilterTestType)
	after := reconcile.Apply(reconcile.TestSpec, tests, p.Query())
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Total, after.Total)
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	tests := sampleTests()

	res := reconcile.Apply(reconcile.TestSpec, tests, reconcile.Query{Search: "SØREN"})
	require.NotEmpty(t, res.Items)
	for _, it := range res.Items {
		assert.Equal(t, "Søren", it.Technician)
	}

	res = reconcile.Apply(reconcile.TestSpec, tests, reconcile.Query{Search: "inst-002"})
	for _, it := range res.Items {
		assert.Equal(t, "INST-002", it.InstallationID)
	}

	res = reconcile.Apply(reconcile.TestSpec, tests, reconcile.Query{Search: "17"})
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(17), res.Items[0].ID)
}

func TestApply_SearchAndFiltersAreANDed(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "Check RCD", Status: model.TaskStatusPlanned, Priority: model.TaskPriorityHigh},
		{ID: "2", Title: "Check earthing", Status: model.TaskStatusPlanned, Priority: model.TaskPriorityLow},
		{ID: "3", Title: "Replace panel", Status: model.TaskStatusInProgress, Priority: model.TaskPriorityHigh, AssignedTo: "check-team"},
		{ID: "4", Title: "Invoice", Description: "after check", Status: model.TaskStatusCompleted, Priority: model.TaskPriorityHigh},
	}

	res := reconcile.Apply(reconcile.TaskSpec, tasks, reconcile.Query{
		Search: "check",
		Filters: map[string]string{
			reconcile.FilterPriority: string(model.TaskPriorityHigh),
			reconcile.FilterStatus:   "",
		},
	})

	var ids []string
	for _, it := range res.Items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"1", "3", "4"}, ids)
	assert.Equal(t, 1, res.Counts[string(model.TaskStatusCompleted)])
}

func TestApply_PageIsClamped(t *testing.T) {
	items := []model.Installation{{ID: "A-1"}, {ID: "A-2"}, {ID: "A-3"}}

	res := reconcile.Apply(reconcile.InstallationSpec, items, reconcile.Query{Page: 9, PageSize: 2})
	assert.Equal(t, 2, res.Page)
	assert.Len(t, res.Items, 1)

	res = reconcile.Apply(reconcile.InstallationSpec, nil, reconcile.Query{Page: 0, PageSize: 2})
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.TotalPages)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, sum(reconcile.Apply(reconcile.InstallationSpec, items, reconcile.Query{}).Counts))
}

func TestPager_ResetsPage(t *testing.T) {
	p := reconcile.NewPager(10)
	p.GoTo(4)
	assert.Equal(t, 4, p.Page())

	p.SetSearch("jensen")
	assert.Equal(t, 1, p.Page())

	p.GoTo(3)
	p.SetSearch("jensen")
	assert.Equal(t, 3, p.Page(), "unchanged search keeps the page")

	p.SetFilter(reconcile.FilterStatus, "Godkendt")
	assert.Equal(t, 1, p.Page())

	p.Next(2)
	p.Next(2)
	assert.Equal(t, 2, p.Page())
	p.Prev()
	p.Prev()
	assert.Equal(t, 1, p.Page())

	p.GoTo(2)
	p.ClearAll()
	assert.Equal(t, 1, p.Page())
	assert.Empty(t, p.Search())
	assert.Empty(t, p.Filter(reconcile.FilterStatus))
}

func TestPager_QueryIsACopy(t *testing.T) {
	p := reconcile.NewPager(5)
	p.SetFilter(reconcile.FilterStatus, "Godkendt")
	q := p.Query()
	q.Filters[reconcile.FilterStatus] = "changed"
	assert.Equal(t, "Godkendt", p.Filter(reconcile.FilterStatus))
}

func TestRecent(t *testing.T) {
	tests := sampleTests()
	assert.Len(t, reconcile.Recent(tests, 10), 10)
	assert.Equal(t, int64(1), reconcile.Recent(tests, 10)[0].ID)
	assert.Len(t, reconcile.Recent(tests[:3], 10), 3)
	assert.Empty(t, reconcile.Recent(tests, -1))
}
