package safetytests

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/tests/testutil"
)

var sample = map[string]any{
	"id":              42,
	"installation_id": "INST-001",
	"test_type":       "Isolationstest",
	"value":           250.5,
	"unit":            "MΩ",
	"status":          "Godkendt",
	"timestamp":       "2024-05-01T09:15:00",
	"technician":      "technician1",
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestCreate_FromInstallationSendsDerivedUnit(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("POST /tests", http.StatusOK, sample)

	f := NewCreateForm(testutil.NewEnv(t, srv), "INST-001")
	f.Init()
	require.NotNil(t, f.form)

	f.fb.testType = model.TestTypeIsolation
	f.fb.value = "250,5"
	f.fb.notes = "Main board"
	msg := exec(t, f.submit())

	req, ok := srv.Last(http.MethodPost, "/tests")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, "INST-001", body["installation_id"])
	assert.Equal(t, "Isolationstest", body["test_type"])
	assert.Equal(t, 250.5, body["value"])
	assert.Equal(t, "MΩ", body["unit"])
	assert.NotContains(t, body, "status")
	assert.NotContains(t, body, "image_path")

	_, cmd := f.Update(msg)
	nav, ok := exec(t, cmd).(controller.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, controller.Route{Page: controller.PageTestDetail, ID: "42"}, nav.Route)
}

func TestCreate_InvalidValueIsBlockedLocally(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	f := NewCreateForm(testutil.NewEnv(t, srv), "INST-001")
	f.Init()

	f.fb.value = "abc"
	f.submit()

	assert.Equal(t, "Value must be a number", f.fields.Error(fieldValue))
	assert.Equal(t, controller.PhaseIdle, f.sub.Phase())
	assert.Empty(t, srv.Requests())
}

func TestCreate_PicksInstallationWhenNotPreset(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /installations", http.StatusOK, []any{
		map[string]any{"id": "INST-007", "address": "Vej 7", "customer_name": "Hansen"},
	})

	f := NewCreateForm(testutil.NewEnv(t, srv), "")
	f.Update(exec(t, f.Init()))

	require.NotNil(t, f.form)
	assert.Equal(t, "INST-007", f.fb.installationID)
}

func TestCreate_UploadsImageFirst(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("POST /tests/upload-image", http.StatusOK, map[string]any{
		"image_path": "uploads/abc.jpg",
		"filename":   "abc.jpg",
	})
	srv.JSON("POST /tests", http.StatusOK, sample)

	photo := filepath.Join(t.TempDir(), "board.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o600))

	f := NewCreateForm(testutil.NewEnv(t, srv), "INST-001")
	f.Init()
	f.fb.value = "0.4"
	f.fb.testType = model.TestTypeContinuity
	f.fb.imageFile = photo
	exec(t, f.submit())

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/tests/upload-image", reqs[0].Path)

	var body map[string]any
	reqs[1].Decode(t, &body)
	assert.Equal(t, "uploads/abc.jpg", body["image_path"])
	assert.Equal(t, "Ω", body["unit"])
}

func TestValidateImageFile(t *testing.T) {
	assert.NoError(t, validateImageFile(""))
	assert.Error(t, validateImageFile(filepath.Join(t.TempDir(), "missing.jpg")))
	assert.Error(t, validateImageFile(t.TempDir()))
}

func loadEdit(t *testing.T, srv *testutil.APIServer) *Form {
	t.Helper()
	srv.JSON("GET /tests/{id}", http.StatusOK, sample)
	f := NewEditForm(testutil.NewEnv(t, srv), "42")
	f.Update(exec(t, f.Init()))
	require.NotNil(t, f.form)
	require.Equal(t, "250.5", f.fb.value)
	return f
}

func TestEdit_SendsOnlyChangedFields(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("PUT /tests/{id}", http.StatusOK, sample)
	f := loadEdit(t, srv)

	f.fb.status = model.TestStatusWarning
	f.fb.notes = "Borderline"
	exec(t, f.submit())

	req, ok := srv.Last(http.MethodPut, "/tests/42")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, map[string]any{"status": "Advarsel", "notes": "Borderline"}, body)
}

func TestEdit_NoChangesSkipsRequest(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	f := loadEdit(t, srv)

	nav, ok := exec(t, f.submit()).(controller.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, controller.Route{Page: controller.PageTestDetail, ID: "42"}, nav.Route)
	_, sent := srv.Last(http.MethodPut, "/tests/42")
	assert.False(t, sent)
}

func TestDetail_ShowsCustomerAndDeletes(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /tests/{id}", http.StatusOK, sample)
	srv.JSON("GET /installations/{id}", http.StatusOK, map[string]any{
		"id": "INST-001", "address": "Hovedgaden 1", "customer_name": "Jensen El",
	})
	srv.JSON("DELETE /tests/{id}", http.StatusNoContent, nil)

	d := NewDetail(testutil.NewEnv(t, srv), "42")
	d.SetSize(100, 30)
	d.Update(exec(t, d.Init()))
	require.True(t, d.data.Ready())

	view := d.View()
	assert.Contains(t, view, "Jensen El")
	assert.Contains(t, view, "250.5 MΩ")

	d.Update(keyPress("d"))
	_, cmd := d.Update(keyPress("y"))
	_, cmd = d.Update(exec(t, cmd))

	nav, ok := exec(t, cmd).(controller.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, controller.PageTests, nav.Route.Page)
	assert.Equal(t, "42", nav.Deleted)
}

func TestDetail_MissingInstallationStillShowsTest(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /tests/{id}", http.StatusOK, sample)

	d := NewDetail(testutil.NewEnv(t, srv), "42")
	d.Update(exec(t, d.Init()))

	require.True(t, d.data.Ready())
	assert.Nil(t, d.data.Data().Installation)
}

func TestDetail_BadIDFails(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	d := NewDetail(testutil.NewEnv(t, srv), "abc")
	d.Update(exec(t, d.Init()))

	assert.Equal(t, controller.PhaseFailed, d.data.Phase())
	assert.Empty(t, srv.Requests())
}

func TestList_FiltersAndSummary(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("GET /tests", http.StatusOK, []any{
		sample,
		map[string]any{"id": 43, "installation_id": "INST-002", "test_type": "RCD Test", "value": 410, "unit": "ms", "status": "Ikke godkendt"},
		map[string]any{"id": 44, "installation_id": "INST-002", "test_type": "RCD Test", "value": 25, "unit": "ms", "status": "Godkendt"},
	})

	list := NewList(testutil.NewEnv(t, srv))
	list.SetSize(140, 30)
	list.Update(exec(t, list.Init()))

	res := list.List().Result()
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Counts[string(model.TestStatusPass)])
	assert.Equal(t, 1, res.Counts[string(model.TestStatusFail)])
	assert.Contains(t, list.View(), "Pass")

	list.Update(keyPress("s"))
	res = list.List().Result()
	assert.Equal(t, 2, res.Total)
	for _, item := range res.Items {
		assert.Equal(t, model.TestStatusPass, item.Status)
	}

	list.Update(keyPress("f"))
	res = list.List().Result()
	require.Equal(t, 1, res.Total)
	assert.Equal(t, int64(44), res.Items[0].ID)

	list.Update(keyPress("x"))
	assert.Equal(t, 3, list.List().Result().Total)
}
