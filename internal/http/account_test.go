package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduteach/internal/metrics"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.register(t, "Alice@Example.com", "pw123", "teacher")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "teacher", body["role"])
	assert.Equal(t, true, body["is_active"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestRegister_Duplicate(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.register(t, "alice@example.com", "pw123", "").Code)

	rec := s.register(t, "alice@example.com", "other", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, rec.Body.String())
}

func TestRegister_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	tests := map[string]map[string]string{
		"bad email":    {"email": "not-an-email", "password": "pw", "full_name": "X"},
		"no password":  {"email": "a@example.com", "full_name": "X"},
		"no full name": {"email": "a@example.com", "password": "pw"},
		"unknown role": {"email": "a@example.com", "password": "pw", "full_name": "X", "role": "janitor"},
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := s.doJSON(t, http.MethodPost, "/register", "", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.register(t, "alice@example.com", "pw123", "teacher").Code)

	rec := s.loginRequest("alice@example.com", "pw123")
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[tokenResponse](t, rec)
	assert.Equal(t, "bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)

	me := s.doJSON(t, http.MethodGet, "/users/me", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, me.Code)
	body := decode[map[string]any](t, me)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, body, "password")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.register(t, "alice@example.com", "pw123", "").Code)

	wrong := s.loginRequest("alice@example.com", "nope")
	unknown := s.loginRequest("bob@example.com", "pw123")

	for _, rec := range []*httptest.ResponseRecorder{wrong, unknown} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.JSONEq(t, `{"error":"Incorrect email or password"}`, wrong.Body.String())
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.Logins.WithLabelValues(metrics.ResultInvalidCredentials)))
}

func TestLogin_MissingFields(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.loginRequest("", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/courses"},
		{http.MethodPost, "/courses"},
		{http.MethodGet, "/assignments"},
		{http.MethodGet, "/exams"},
		{http.MethodGet, "/webinars"},
		{http.MethodGet, "/students"},
		{http.MethodGet, "/library"},
		{http.MethodGet, "/forum/abc"},
		{http.MethodGet, "/statistics"},
		{http.MethodGet, "/notifications"},
		{http.MethodPut, "/notifications/1/read"},
		{http.MethodGet, "/storage/objects"},
	}
	for _, r := range routes {
		for _, token := range []string{"", "garbage.token.value"} {
			rec := s.doJSON(t, r.method, r.path, token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"error":"Could not validate credentials"}`, rec.Body.String())
		}
	}
}

func TestAuthFailures_LogReasonButShareResponse(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signUp(t, "alice@example.com", "student")

	require.NoError(t, s.userRepo.SetActive(context.Background(), "alice@example.com", false))
	inactive := s.doJSON(t, http.MethodGet, "/users/me", token, nil)
	malformed := s.doJSON(t, http.MethodGet, "/users/me", "abc", nil)

	assert.Equal(t, http.StatusUnauthorized, inactive.Code)
	assert.Equal(t, inactive.Body.String(), malformed.Body.String())

	var reasons []any
	for _, e := range s.logs.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "token rejected" {
			reasons = append(reasons, e.Data["reason"])
		}
	}
	assert.Equal(t, []any{"inactive_subject", "malformed"}, reasons)
}

func TestListAvatars(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.doJSON(t, http.MethodGet, "/avatars", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string][]string](t, rec)
	assert.Len(t, body["avatars"], len(predefinedAvatars))
}

func TestUploadAvatar(t *testing.T) {
	store := &memoryStore{}
	s := newTestServer(t, store)
	token := s.signUp(t, "alice@example.com", "student")

	rec := s.upload(t, "/users/avatar", token, nil, "me.PNG", "png-bytes")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url := decode[map[string]string](t, rec)["avatar_url"]
	assert.Regexp(t, `^https://files\.example\.com/avatars/[0-9a-f-]{36}\.png$`, url)

	me := decode[map[string]any](t, s.doJSON(t, http.MethodGet, "/users/me", token, nil))
	assert.Equal(t, url, me["avatar_url"])
}

func TestUploadAvatar_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signUp(t, "alice@example.com", "student")

	rec := s.upload(t, "/users/avatar", token, nil, "me.png", "x")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"storage service not configured"}`, rec.Body.String())

	rec = s.upload(t, "/users/avatar", token, nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
