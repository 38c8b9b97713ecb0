package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
)

type envelope struct {
	Success   bool                   `json:"success"`
	Data      map[string]interface{} `json:"data"`
	Error     *string                `json:"error"`
	ErrorKind string                 `json:"error_kind"`
}

func newTestServer(t *testing.T, format string) (*Server, *Backend) {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.Workspace.Home = t.TempDir()
	cfg.Workspace.DataDir = t.TempDir()
	cfg.Store.Format = format
	cfg.Dispatch.Workers = 2

	backend, err := NewBackend(cfg, logging.NewNop(), "test")
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	return NewServer(backend, "test"), backend
}

func execute(t *testing.T, s *Server, body string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/services/execute", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(w, req)

	var env envelope
	if w.Code == http.StatusOK {
		require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func TestHealthAndServices(t *testing.T) {
	s, _ := newTestServer(t, "json")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services", nil))
	require.Equal(t, http.StatusOK, w.Code)
	for _, id := range []string{"filesystem.search_files", "workspace.add_bookmark", "system.home_dirs"} {
		assert.Contains(t, w.Body.String(), id)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services?category=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExecuteRoundTrip(t *testing.T) {
	s, backend := newTestServer(t, "yaml")
	ws := filepath.Join(backend.Config.Workspace.Home, "notes")
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "sub"), 0o755))

	code, env := execute(t, s, `{"tool_id":"workspace.open_workspace","params":{"path":"~/notes"}}`)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success, "%v", env.Error)

	target := filepath.ToSlash(filepath.Join(ws, "sub", "todo.md"))
	code, env = execute(t, s, `{"tool_id":"filesystem.write_file","params":{"path":"`+target+`","content":"buy milk","mode":"create_new"}}`)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success, "%v", env.Error)

	code, env = execute(t, s, `{"tool_id":"filesystem.write_file","params":{"path":"`+target+`","content":"again","mode":"create_new"}}`)
	require.Equal(t, http.StatusOK, code, "typed failures keep status 200")
	assert.False(t, env.Success)
	assert.Equal(t, "already_exists", env.ErrorKind)

	code, env = execute(t, s, `{"tool_id":"filesystem.search_files","params":{"root":"sub","content_pattern":"milk"}}`)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success, "%v", env.Error)
	assert.Equal(t, float64(1), env.Data["count"])

	code, env = execute(t, s, `{"tool_id":"filesystem.search_files","params":{"root":"../..","name_pattern":"x"}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "invalid_path", env.ErrorKind)

	code, env = execute(t, s, `{"tool_id":"workspace.get_opened_cache","params":{}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, ws, env.Data["current"])
	assert.FileExists(t, filepath.Join(backend.Config.Workspace.DataDir, "recent.yaml"))
}

func TestExecuteMalformed(t *testing.T) {
	s, _ := newTestServer(t, "json")

	code, _ := execute(t, s, `{"params":{}}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = execute(t, s, `not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = execute(t, s, `{"tool_id":"no-dot"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = execute(t, s, `{"tool_id":"filesystem.nope"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = execute(t, s, `{"tool_id":"nothing.here"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "toml")
	execute(t, s, `{"tool_id":"system.ping"}`)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "workspace_command_calls_total")
	assert.Contains(t, w.Body.String(), "workspace_http_requests_total")
}

func TestNewBackendRejectsBadFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Workspace.Home = t.TempDir()
	cfg.Workspace.DataDir = t.TempDir()
	cfg.Store.Format = "xml"

	_, err := NewBackend(cfg, logging.NewNop(), "test")
	assert.Error(t, err)
}
