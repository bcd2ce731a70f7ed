// ABOUTME: Tests for signup, login, logout and the session cookie
// ABOUTME: Also checks the dashboard reflects writes made after it was cached

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	a := setupAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ana", "email": "Ana@Example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[userJSON](t, rec)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = a.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ana again", "email": "ana@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ben", "email": "ben@example.com", "password": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password", decode[errorResponse](t, rec).Field)
}

func TestLogin_WrongPassword(t *testing.T) {
	a := setupAPI(t)
	a.signUpAndLogin(t, "ana@example.com")

	rec := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = a.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCookieSession(t *testing.T) {
	a := setupAPI(t)
	a.signUpAndLogin(t, "ana@example.com")

	rec := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	session := cookies[0]
	assert.Equal(t, "resonatr_session", session.Name)
	assert.True(t, session.HttpOnly)

	withCookie := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(session)
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, req)
		return rec
	}

	rec = withCookie(http.MethodGet, "/api/auth/me")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com", decode[userJSON](t, rec).Email)

	rec = withCookie(http.MethodPost, "/api/auth/logout")
	require.Equal(t, http.StatusNoContent, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)

	rec = withCookie(http.MethodGet, "/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_WithoutSessionIsNoop(t *testing.T) {
	a := setupAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDashboard_ReflectsLatestWrites(t *testing.T) {
	a := setupAPI(t)
	token := a.signUpAndLogin(t, "ana@example.com")

	rec := a.do(t, http.MethodGet, "/api/dashboard", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[dashboardResponse](t, rec)
	assert.Zero(t, empty.IdeaCount)
	assert.NotNil(t, empty.RecentIdeas)

	for _, title := range []string{"One idea", "Two idea", "Three idea", "Four idea", "Five idea"} {
		createIdea(t, a, token, title, "idea")
	}
	createEvent(t, a, token, "Today's stream", time.Now().UTC())

	summary := decode[dashboardResponse](t, a.do(t, http.MethodGet, "/api/dashboard", nil, token))
	assert.Equal(t, 5, summary.IdeaCount)
	assert.Equal(t, 5, summary.StageCounts["idea"])
	require.Len(t, summary.RecentIdeas, 4)
	assert.Equal(t, "Five idea", summary.RecentIdeas[0].Title)
	require.Len(t, summary.RecentEvents, 1)
	assert.True(t, strings.HasPrefix(summary.RecentEvents[0].Title, "Today"))
}
