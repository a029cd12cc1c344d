package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newClient starts a test server and returns a client pointed at it.
func newClient(t *testing.T, tokens api.TokenSource, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, tokens, api.WithHTTPClient(srv.Client()))
}

func authed(token string) *session.Store {
	s := session.New(nil, nil)
	s.SetToken(token)
	return s
}

func TestLogin_ThenListSendsBearer(t *testing.T) {
	var gotAuth string
	store := session.New(nil, nil)

	client := newClient(t, store, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token":
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "tech", r.PostForm.Get("username"))
			assert.Equal(t, "secret", r.PostForm.Get("password"))
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `{"access_token":"tok-123","token_type":"bearer"}`)
		case "/installations":
			gotAuth = r.Header.Get("Authorization")
			_, _ = io.WriteString(w, `[{"id":"INST-001","address":"Vej 1","customer_name":"Jensen","installation_date":"2023-04-01T00:00:00","last_inspection":null}]`)
		default:
			http.NotFound(w, r)
		}
	})

	tok, err := client.Login(context.Background(), "tech", "secret")
	require.NoError(t, err)
	store.SetToken(tok.AccessToken)

	list, err := client.ListInstallations(context.Background(), api.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "INST-001", list[0].ID)
	require.NotNil(t, list[0].InstallationDate)
	assert.Equal(t, 2023, list[0].InstallationDate.Year())
	assert.Nil(t, list[0].LastInspection)
}

func TestLogin_Rejected(t *testing.T) {
	client := newClient(t, session.New(nil, nil), func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Incorrect username or password"}`, http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), "tech", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
}

func TestRequest_WithoutTokenFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, session.New(nil, nil), func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := client.ListTasks(context.Background(), api.TaskListOptions{})
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.Zero(t, calls.Load())
}

func TestRequest_UnauthorizedMapsToAuthError(t *testing.T) {
	client := newClient(t, authed("expired"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetInstallation(context.Background(), "INST-001")
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.False(t, api.IsOperationFailed(err))
}

func TestRequest_FailureHidesDetail(t *testing.T) {
	client := newClient(t, authed("tok"), func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "psycopg2.OperationalError: connection refused", http.StatusInternalServerError)
	})

	_, err := client.ListInstallations(context.Background(), api.ListOptions{})
	require.Error(t, err)

	var opErr *api.OperationFailed
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Could not fetch installations", opErr.Message)
	assert.NotContains(t, err.Error(), "psycopg2")
	assert.Equal(t, "Could not fetch installations", api.UserMessage(err))
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := api.NewClient(url, authed("tok"))
	err := client.DeleteTask(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, api.IsOperationFailed(err))
	assert.Equal(t, "Could not delete task", api.UserMessage(err))
}

func TestListTasks_QueryParameters(t *testing.T) {
	client := newClient(t, authed("tok"), func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "20", q.Get("skip"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "I gang", q.Get("status"))
		assert.Equal(t, "INST-001", q.Get("installation_id"))
		assert.False(t, q.Has("assigned_to"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `[]`)
	})

	tasks, err := client.ListTasks(context.Background(), api.TaskListOptions{
		ListOptions:    api.ListOptions{Skip: 20},
		Status:         model.TaskStatusInProgress,
		InstallationID: "INST-001",
	})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateTask_SendsOnlySetFields(t *testing.T) {
	var body map[string]any
	client := newClient(t, authed("tok"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tasks/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":"7","title":"Check RCD","status":"Afsluttet","priority":"Høj"}`)
	})

	task, err := client.UpdateTask(context.Background(), "7", model.TaskUpdate{
		Status:         model.Some(model.TaskStatusCompleted),
		InstallationID: model.Some(""),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)

	assert.Len(t, body, 2)
	assert.Equal(t, "Afsluttet", body["status"])
	v, ok := body["installation_id"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestTestsByInstallation(t *testing.T) {
	client := newClient(t, authed("tok"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tests/installation/INST-001", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":3,"installation_id":"INST-001","test_type":"Isolationstest","value":250,"unit":"MΩ","status":"Godkendt","timestamp":"2024-05-02T10:11:12.123456"}]`)
	})

	tests, err := client.TestsByInstallation(context.Background(), "INST-001", api.ListOptions{})
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, int64(3), tests[0].ID)
	assert.Equal(t, model.TestTypeIsolation, tests[0].TestType)
	assert.Equal(t, model.TestStatusPass, tests[0].Status)
	require.NotNil(t, tests[0].Timestamp)
}

func TestDeleteInstallation_NoContent(t *testing.T) {
	client := newClient(t, authed("tok"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/installations/INST%2F9", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteInstallation(context.Background(), "INST/9"))
}

func TestUploadTestImage(t *testing.T) {
	client := newClient(t, authed("tok"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tests/upload-image", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "meter.jpg", header.Filename)
		assert.Equal(t, "jpeg-bytes", string(data))

		_, _ = io.WriteString(w, `{"image_path":"uploads/abc.jpg","filename":"abc.jpg"}`)
	})

	img, err := client.UploadTestImage(context.Background(), "/tmp/photos/meter.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/abc.jpg", img.ImagePath)
}

func TestCurrentUser(t *testing.T) {
	client := newClient(t, authed("tok"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/users/me", r.URL.Path)
		_, _ = io.WriteString(w, `{"username":"tech","email":"tech@example.com","full_name":"Tech One"}`)
	})

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tech", user.Username)
}

func TestRegister_Anonymous(t *testing.T) {
	client := newClient(t, session.New(nil, nil), func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var reg model.Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		assert.Equal(t, "new", reg.Username)
		_, _ = io.WriteString(w, `{"username":"new","email":"n@example.com"}`)
	})

	user, err := client.Register(context.Background(), model.Registration{
		Username: "new", Password: "pw", Email: "n@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", user.Username)
}
