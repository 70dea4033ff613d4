package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signUp(t, "alice@example.com", "teacher")

	for _, title := range []string{"A", "B"} {
		rec := s.doJSON(t, http.MethodPost, "/courses", token, map[string]any{"title": title, "category": "c"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := s.doJSON(t, http.MethodPost, "/forum", token, map[string]any{"title": "t", "content": "c"})
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[map[string]any](t, s.doJSON(t, http.MethodGet, "/statistics", token, nil))
	assert.EqualValues(t, 2, stats["total_courses"])
	assert.EqualValues(t, 1, stats["total_forum_topics"])
	assert.EqualValues(t, 0, stats["total_assignments"])
	assert.EqualValues(t, 0, stats["completed_assignments"])
	assert.EqualValues(t, 8.5, stats["average_score"])
}

func TestNotifications(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.signUp(t, "alice@example.com", "student")

	body := decode[map[string][]notification](t, s.doJSON(t, http.MethodGet, "/notifications", token, nil))
	require.Len(t, body["notifications"], 3)
	assert.True(t, body["notifications"][2].IsRead)

	rec := s.doJSON(t, http.MethodPut, "/notifications/1/read", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Notification marked as read"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	s.signUp(t, "alice@example.com", "student")

	rec := s.doJSON(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"connected","users":1,"courses":0}`, rec.Body.String())
}

func TestStorageObjects_AdminOnly(t *testing.T) {
	store := &memoryStore{}
	s := newTestServer(t, store)
	student := s.signUp(t, "student@example.com", "student")
	admin := s.signUp(t, "admin@example.com", "admin")
	require.Equal(t, http.StatusOK, s.upload(t, "/users/avatar", student, nil, "a.png", "png").Code)

	rec := s.doJSON(t, http.MethodGet, "/storage/objects", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.doJSON(t, http.MethodGet, "/storage/objects?prefix=avatars/", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string][]map[string]any](t, rec)
	require.Len(t, body["objects"], 1)
	assert.Contains(t, body["objects"][0]["key"], "avatars/")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.signUp(t, "alice@example.com", "student")
	s.doJSON(t, http.MethodGet, "/courses", "", nil)

	rec := s.doJSON(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `eduteach_auth_registrations_total{result="success"} 1`)
	assert.Contains(t, out, `eduteach_auth_logins_total{result="success"} 1`)
	assert.Contains(t, out, `eduteach_auth_failures_total{reason="missing_token"} 1`)
	assert.Contains(t, out, `eduteach_http_requests_total{method="GET",route="/courses",status="401"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.doJSON(t, http.MethodOptions, "/courses", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
