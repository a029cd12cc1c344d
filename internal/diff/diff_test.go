package diff_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inspection/internal/diff"
	"github.com/nhle/inspection/internal/model"
)

func date(y int, m time.Month, d int) *model.Time {
	return model.NewTime(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func hours(h float64) *float64 { return &h }

func payloadOf(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

var (
	installation = model.Installation{
		ID:               "INST-001",
		Address:          "Hovedgaden 1",
		CustomerName:     "Jensen El",
		InstallationDate: date(2021, time.March, 4),
	}
	task = model.Task{
		ID:             "12",
		Title:          "Annual inspection",
		Status:         model.TaskStatusPlanned,
		Priority:       model.TaskPriorityMedium,
		InstallationID: "INST-001",
		EstimatedHours: hours(2),
	}
	safetyTest = model.Test{
		ID:             5,
		InstallationID: "INST-001",
		TestType:       model.TestTypeRCD,
		Value:          24,
		Unit:           "ms",
		Status:         model.TestStatusPass,
	}
)

func TestCompute_IdenticalIsEmpty(t *testing.T) {
	now := time.Now()

	assert.True(t, diff.Installation(installation.Draft(), installation.Draft()).IsEmpty())
	assert.True(t, diff.Task(task.Draft(), task.Draft(), now).IsEmpty())
	assert.True(t, diff.Test(safetyTest.Draft(), safetyTest.Draft()).IsEmpty())

	assert.Equal(t, map[string]any{}, payloadOf(t, diff.Installation(installation.Draft(), installation.Draft())))
}

func TestCompute_EqualityIsByValue(t *testing.T) {
	orig := installation.Draft()
	draft := orig
	// Same instant, different pointer and location.
	draft.InstallationDate = model.NewTime(orig.InstallationDate.In(time.FixedZone("CET", 3600)))

	assert.True(t, diff.Installation(orig, draft).IsEmpty())

	torig := task.Draft()
	tdraft := torig
	tdraft.EstimatedHours = hours(2)
	assert.True(t, diff.Task(torig, tdraft, time.Now()).IsEmpty())
}

func TestInstallation_OnlyChangedFields(t *testing.T) {
	draft := installation.Draft()
	draft.Address = "Nørregade 7"
	draft.LastInspection = date(2024, time.June, 1)

	upd := diff.Installation(installation.Draft(), draft)
	assert.True(t, upd.Address.Set)
	assert.Equal(t, "Nørregade 7", upd.Address.Value)
	assert.False(t, upd.CustomerName.Set)
	assert.False(t, upd.InstallationDate.Set)
	assert.True(t, upd.LastInspection.Set)

	body := payloadOf(t, upd)
	assert.Len(t, body, 2)
	assert.NotContains(t, body, "id")
}

func TestInstallation_NeverIncludesID(t *testing.T) {
	drafts := []model.InstallationDraft{
		{},
		{Address: "x", CustomerName: "y", InstallationDate: date(2020, 1, 1), LastInspection: date(2020, 1, 2)},
		installation.Draft(),
	}
	for _, d := range drafts {
		body := payloadOf(t, diff.Installation(model.InstallationDraft{Address: "other"}, d))
		assert.NotContains(t, body, "id")
	}
}

func TestInstallation_ClearingDateSendsNull(t *testing.T) {
	draft := installation.Draft()
	draft.InstallationDate = nil

	body := payloadOf(t, diff.Installation(installation.Draft(), draft))
	v, ok := body["installation_date"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestTask_CompletionStampsDate(t *testing.T) {
	now := time.Date(2024, time.May, 10, 14, 30, 0, 0, time.UTC)
	draft := task.Draft()
	draft.Status = model.TaskStatusCompleted

	upd := diff.Task(task.Draft(), draft, now)
	require.True(t, upd.CompletedDate.Set)
	require.NotNil(t, upd.CompletedDate.Value)
	assert.True(t, upd.CompletedDate.Value.Equal(model.Time{Time: now}))

	body := payloadOf(t, upd)
	assert.Equal(t, "Afsluttet", body["status"])
	assert.Equal(t, "2024-05-10T14:30:00Z", body["completed_date"])
}

func TestTask_CompletionKeepsSuppliedDate(t *testing.T) {
	supplied := date(2024, time.May, 1)
	draft := task.Draft()
	draft.Status = model.TaskStatusCompleted
	draft.CompletedDate = supplied

	upd := diff.Task(task.Draft(), draft, time.Now())
	require.True(t, upd.CompletedDate.Set)
	assert.Same(t, supplied, upd.CompletedDate.Value)
}

func TestTask_AlreadyCompletedIsNotRestamped(t *testing.T) {
	done := task
	done.Status = model.TaskStatusCompleted

	draft := done.Draft()
	draft.Notes = "Signed off"

	upd := diff.Task(done.Draft(), draft, time.Now())
	assert.False(t, upd.Status.Set)
	assert.False(t, upd.CompletedDate.Set)
	assert.True(t, upd.Notes.Set)
}

func TestTask_OtherTransitionsDoNotStamp(t *testing.T) {
	draft := task.Draft()
	draft.Status = model.TaskStatusCancelled

	upd := diff.Task(task.Draft(), draft, time.Now())
	assert.True(t, upd.Status.Set)
	assert.False(t, upd.CompletedDate.Set)
}

func TestTask_UnlinkInstallation(t *testing.T) {
	draft := task.Draft()
	draft.InstallationID = ""

	body := payloadOf(t, diff.Task(task.Draft(), draft, time.Now()))
	v, ok := body["installation_id"]
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestTest_ChangedFields(t *testing.T) {
	draft := safetyTest.Draft()
	draft.Value = 31.5
	draft.Status = model.TestStatusWarning

	body := payloadOf(t, diff.Test(safetyTest.Draft(), draft))
	assert.Equal(t, map[string]any{"value": 31.5, "status": "Advarsel"}, body)
	assert.NotContains(t, body, "test_type")
	assert.NotContains(t, body, "installation_id")
}

type pair struct{ A, B string }

type pairUpdate struct{ A, B *string }

func (p pair) Fields() []diff.Field[pairUpdate] {
	return []diff.Field[pairUpdate]{
		{Name: "a", Value: p.A, Apply: func(u *pairUpdate) { u.A = &p.A }},
		{Name: "b", Value: p.B, Apply: func(u *pairUpdate) { u.B = &p.B }},
	}
}

func TestCompute_Generic(t *testing.T) {
	upd, changed := diff.Compute[pair, pairUpdate](pair{"x", "y"}, pair{"x", "z"})
	assert.Equal(t, []string{"b"}, changed)
	assert.Nil(t, upd.A)
	require.NotNil(t, upd.B)
	assert.Equal(t, "z", *upd.B)

	_, changed = diff.Compute[pair, pairUpdate](pair{"x", "y"}, pair{"x", "y"})
	assert.Empty(t, changed)
}
