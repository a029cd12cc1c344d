package login

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inspection/internal/controller"
	"github.com/nhle/inspection/tests/testutil"
)

func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestLogin_StoresTokenAndNavigates(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("POST /auth/token", http.StatusOK, map[string]string{
		"access_token": "fresh-token",
		"token_type":   "bearer",
	})
	env := testutil.NewEnv(t, srv)
	env.Session.Clear()

	p := New(env, "")
	p.Init()
	p.fb.username = "technician1"
	p.fb.password = "secret"

	_, cmd := p.Update(exec(t, p.submit()))

	tok, ok := env.Session.Token()
	require.True(t, ok)
	assert.Equal(t, "fresh-token", tok)

	nav, ok := exec(t, cmd).(controller.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, controller.PageDashboard, nav.Route.Page)

	req, ok := srv.Last(http.MethodPost, "/auth/token")
	require.True(t, ok)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestLogin_RejectedClearsPassword(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("POST /auth/token", http.StatusUnauthorized, map[string]string{"detail": "Incorrect"})
	env := testutil.NewEnv(t, srv)
	env.Session.Clear()

	p := New(env, "")
	p.Init()
	p.fb.username = "technician1"
	p.fb.password = "wrong"
	p.Update(exec(t, p.submit()))

	assert.Equal(t, controller.PhaseSubmitFailed, p.sub.Phase())
	assert.Equal(t, "Incorrect username or password", p.sub.Error())
	assert.Empty(t, p.fb.password)
	assert.Equal(t, "technician1", p.fb.username)
	assert.False(t, env.Session.IsAuthenticated())
}

func TestLogin_BlankFieldsStayLocal(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	p := New(testutil.NewEnv(t, srv), "Session expired, please log in again")
	p.Init()
	p.submit()

	assert.Equal(t, "Username is required", p.fields.Error(fieldUsername))
	assert.Equal(t, "Password is required", p.fields.Error(fieldPassword))
	assert.Empty(t, srv.Requests())
	assert.Contains(t, p.View(), "Session expired")
}

func TestRegister_ReturnsToLogin(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.JSON("POST /auth/register", http.StatusOK, map[string]string{
		"username": "newtech",
		"email":    "newtech@example.com",
	})
	p := New(testutil.NewEnv(t, srv), "")
	p.Init()

	p.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, modeRegister, p.mode)

	p.fb.username = "newtech"
	p.fb.password = "pw"
	p.submit()
	assert.Equal(t, "Email is required", p.fields.Error(fieldEmail))

	p.fb.email = "newtech@example.com"
	p.Update(exec(t, p.submit()))

	assert.Equal(t, modeLogin, p.mode)
	assert.Contains(t, p.notice, "Account created for newtech")
	assert.Equal(t, "newtech", p.fb.username)
	assert.Empty(t, p.fb.password)

	req, ok := srv.Last(http.MethodPost, "/auth/register")
	require.True(t, ok)
	var body map[string]any
	req.Decode(t, &body)
	assert.Equal(t, "newtech@example.com", body["email"])
	assert.NotContains(t, body, "full_name")
}
