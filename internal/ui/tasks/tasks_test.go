package tasks

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/tests/testutil"
)

var sample = map[string]any{
	"id":              "task-1",
	"title":           "Annual inspection",
	"status":          "Planlagt",
	"priority":        "Høj",
	"installation_id": "INST-001",
	"created_date":    "2024-05-01T08:00:00",
	"due_date":        "2024-06-01T00:00:00",
	"assigned_to":     "technician1",
	"estimated_hours": 2.5,
}

var installations = []any{
	map[string]any{"id": "INST-001", "address": "Hovedgaden 1", "customer_name": "Jensen El"},
	map[string]any{"id": "INST-002", "address": "Vej 2", "customer_name": "Hansen"},
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func loadEdit(t *testing.T, srv *testutil.APIServer) *Form {
	t.Helper()
	srv.JSON("GET /tasks/{id}", http.StatusOK, sample)
	srv.JSON("GET /installations", http.StatusOK, installations)
	f := NewEditForm(testutil.NewEnv(t, srv), "task-1")
	f.Update(exec(t, f.Init()))
	require.NotNil(t, f.form)
	require.Equal(t, "Annual inspection", f.fb.title)
	return f
}

func TestEdit_CompletingStampsCompletionDate(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("PUT /tasks/{id}", http.StatusOK, sample)
	f := loadEdit(t, srv)

	f.fb.status = model.TaskStatusCompleted
	exec(t, f.submit())

	req, ok := srv.Last(http.MethodPut, "/tasks/task-1")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, map[string]any{
		"status":         "Afsluttet",
		"completed_date": "2024-05-10T14:30:00Z",
	}, body)
}

func TestEdit_CompletingKeepsSuppliedCompletionDate(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("PUT /tasks/{id}", http.StatusOK, sample)
	f := loadEdit(t, srv)
	require.Empty(t, f.fb.completedDate)

	f.fb.status = model.TaskStatusCompleted
	f.fb.completedDate = "2024-05-08"
	exec(t, f.submit())

	req, ok := srv.Last(http.MethodPut, "/tasks/task-1")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, map[string]any{
		"status":         "Afsluttet",
		"completed_date": "2024-05-08T00:00:00Z",
	}, body)
}

func TestEdit_UnchangedCompletionDateIsNotResent(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	completed := map[string]any{}
	for k, v := range sample {
		completed[k] = v
	}
	completed["status"] = "Afsluttet"
	completed["completed_date"] = "2024-05-09T16:45:00"
	srv.JSON("GET /tasks/{id}", http.StatusOK, completed)
	srv.JSON("GET /installations", http.StatusOK, installations)

	f := NewEditForm(testutil.NewEnv(t, srv), "task-1")
	f.Update(exec(t, f.Init()))
	require.Equal(t, "2024-05-09", f.fb.completedDate)

	_, ok := exec(t, f.submit()).(controller.NavigateMsg)
	require.True(t, ok)
	_, sent := srv.Last(http.MethodPut, "/tasks/task-1")
	assert.False(t, sent)
}

func TestEdit_BadDateIsShownInline(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	f := loadEdit(t, srv)
	before := len(srv.Requests())

	f.fb.completedDate = "09/05/2024"
	f.submit()

	assert.Equal(t, controller.PhaseSubmitFailed, f.sub.Phase())
	assert.Contains(t, f.sub.Error(), "use YYYY-MM-DD")
	assert.Len(t, srv.Requests(), before)
}

func TestEdit_UnlinkingInstallationSendsNull(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("PUT /tasks/{id}", http.StatusOK, sample)
	f := loadEdit(t, srv)

	f.fb.installationID = ""
	f.fb.actualHours = "3,5"
	exec(t, f.submit())

	req, ok := srv.Last(http.MethodPut, "/tasks/task-1")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, map[string]any{"installation_id": nil, "actual_hours": 3.5}, body)
}

func TestEdit_NoChangesSkipsRequest(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	f := loadEdit(t, srv)

	nav, ok := exec(t, f.submit()).(controller.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, controller.Route{Page: controller.PageTaskDetail, ID: "task-1"}, nav.Route)
	_, sent := srv.Last(http.MethodPut, "/tasks/task-1")
	assert.False(t, sent)
}

func TestEdit_KeepsUnlistedInstallation(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /tasks/{id}", http.StatusOK, sample)
	srv.JSON("GET /installations", http.StatusInternalServerError, nil)

	f := NewEditForm(testutil.NewEnv(t, srv), "task-1")
	f.Update(exec(t, f.Init()))

	require.True(t, f.data.Ready(), "a missing installation list does not block editing")
	opts := f.installationOptions()
	require.Len(t, opts, 2)
	assert.Equal(t, "INST-001", opts[1].Value)
}

func TestCreate_BlankTitleIsBlockedLocally(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /installations", http.StatusOK, installations)
	f := NewCreateForm(testutil.NewEnv(t, srv), "")
	f.Update(exec(t, f.Init()))
	before := len(srv.Requests())

	f.fb.title = "   "
	f.submit()

	assert.Equal(t, "Title is required", f.fields.Error(fieldTitle))
	assert.Equal(t, controller.PhaseIdle, f.sub.Phase())
	assert.Len(t, srv.Requests(), before)
}

func TestCreate_Submits(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /installations", http.StatusOK, installations)
	srv.JSON("POST /tasks", http.StatusOK, sample)

	f := NewCreateForm(testutil.NewEnv(t, srv), "INST-002")
	f.Update(exec(t, f.Init()))

	f.fb.title = "Replace RCD"
	f.fb.priority = model.TaskPriorityUrgent
	f.fb.dueDate = "2024-06-15"
	f.fb.estimatedHours = "1.5"
	msg := exec(t, f.submit())

	req, ok := srv.Last(http.MethodPost, "/tasks")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, "Replace RCD", body["title"])
	assert.Equal(t, "Planlagt", body["status"])
	assert.Equal(t, "Akut", body["priority"])
	assert.Equal(t, "INST-002", body["installation_id"])
	assert.Equal(t, "2024-06-15T00:00:00Z", body["due_date"])
	assert.Equal(t, 1.5, body["estimated_hours"])

	_, cmd := f.Update(msg)
	nav, ok := exec(t, cmd).(controller.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, controller.Route{Page: controller.PageTaskDetail, ID: "task-1"}, nav.Route)
}

func TestCreate_FailureKeepsDraft(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /installations", http.StatusOK, installations)
	srv.JSON("POST /tasks", http.StatusUnprocessableEntity, map[string]string{"detail": "bad"})

	f := NewCreateForm(testutil.NewEnv(t, srv), "")
	f.Update(exec(t, f.Init()))
	f.fb.title = "Replace RCD"
	f.Update(exec(t, f.submit()))

	assert.Equal(t, controller.PhaseSubmitFailed, f.sub.Phase())
	assert.Equal(t, "Could not create task", f.sub.Error())
	assert.Equal(t, "Replace RCD", f.fb.title)
}

func TestDetail_CompleteStampsAndRefreshes(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /tasks/{id}", http.StatusOK, sample)
	srv.JSON("GET /installations/{id}", http.StatusOK, installations[0])
	completed := map[string]any{}
	for k, v := range sample {
		completed[k] = v
	}
	completed["status"] = "Afsluttet"
	completed["completed_date"] = "2024-05-10T14:30:00"
	srv.JSON("PUT /tasks/{id}", http.StatusOK, completed)

	d := NewDetail(testutil.NewEnv(t, srv), "task-1")
	d.SetSize(100, 30)
	d.Update(exec(t, d.Init()))
	require.True(t, d.data.Ready())
	assert.Contains(t, d.View(), "Jensen El")

	_, cmd := d.Update(keyPress("c"))
	require.True(t, d.complete.Submitting())
	d.Update(exec(t, cmd))

	req, ok := srv.Last(http.MethodPut, "/tasks/task-1")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, "2024-05-10T14:30:00Z", body["completed_date"])

	assert.Equal(t, model.TaskStatusCompleted, d.data.Data().Task.Status)

	_, cmd = d.Update(keyPress("c"))
	assert.Nil(t, cmd, "a completed task is not completed again")
}

func TestDetail_DeleteNavigatesToList(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /tasks/{id}", http.StatusOK, sample)
	srv.JSON("GET /installations/{id}", http.StatusOK, installations[0])
	srv.JSON("DELETE /tasks/{id}", http.StatusNoContent, nil)

	d := NewDetail(testutil.NewEnv(t, srv), "task-1")
	d.Update(exec(t, d.Init()))
	d.Update(keyPress("d"))
	_, cmd := d.Update(keyPress("y"))
	_, cmd = d.Update(exec(t, cmd))

	nav, ok := exec(t, cmd).(controller.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, controller.PageTasks, nav.Route.Page)
	assert.Equal(t, "task-1", nav.Deleted)
}

func TestList_StatusAndPriorityFilters(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /tasks", http.StatusOK, []any{
		sample,
		map[string]any{"id": "task-2", "title": "Fix socket", "status": "I gang", "priority": "Lav"},
		map[string]any{"id": "task-3", "title": "Label board", "status": "Planlagt", "priority": "Lav"},
	})

	list := NewList(testutil.NewEnv(t, srv))
	list.SetSize(140, 30)
	list.Update(exec(t, list.Init()))

	res := list.List().Result()
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Counts[string(model.TaskStatusPlanned)])
	assert.Contains(t, list.View(), "Annual inspection")

	list.Update(keyPress("s"))
	assert.Equal(t, 2, list.List().Result().Total)

	list.Update(keyPress("f"))
	res = list.List().Result()
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "task-3", res.Items[0].ID)
	assert.Equal(t, 2, res.Counts[string(model.TaskStatusPlanned)], "counts ignore filters")
}
