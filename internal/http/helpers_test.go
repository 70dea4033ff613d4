package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"eduteach/internal/auth"
	"eduteach/internal/metrics"
	"eduteach/internal/repository/sqlite"
	"eduteach/internal/service"
	"eduteach/internal/storage"
)

type testServer struct {
	router   *gin.Engine
	userRepo *sqlite.UserRepository
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logs     *logtest.Hook
}

func newTestServer(t *testing.T, store storage.Service) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	cfg := auth.TokenConfig{Secret: []byte("api-test-secret"), Algorithm: "HS256", DefaultTTL: 30 * time.Minute}
	issuer, err := auth.NewIssuer(cfg)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(cfg)
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	userRepo := sqlite.NewUserRepository(db)
	users := service.NewUserService(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), issuer, auth.NewResolver(verifier, userRepo), logger, m)
	catalog := service.NewCatalog(sqlite.NewDocumentRepository(db))
	media := service.NewMediaService(store, users, catalog, logger)

	router := gin.New()
	NewHandler(users, catalog, media, logger, m, registry).RegisterRoutes(router)

	return &testServer{router: router, userRepo: userRepo, registry: registry, metrics: m, logs: hook}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

func (s *testServer) register(t *testing.T, email, password, role string) *httptest.ResponseRecorder {
	t.Helper()
	return s.doJSON(t, http.MethodPost, "/register", "", map[string]string{
		"email": email, "password": password, "full_name": "User " + email, "role": role,
	})
}

func (s *testServer) loginRequest(email, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

// signUp registers an account and returns a fresh access token for it.
func (s *testServer) signUp(t *testing.T, email, role string) string {
	t.Helper()
	require.Equal(t, http.StatusOK, s.register(t, email, "pw123", role).Code)
	rec := s.loginRequest(email, "pw123")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	return tok.AccessToken
}

func (s *testServer) upload(t *testing.T, path, token string, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return s.do(req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return "https://files.example.com/" + key, nil
}

func (m *memoryStore) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	out := []storage.ObjectInfo{}
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}
